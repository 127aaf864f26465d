package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DirName is the directory, next to the archived file, that receives old copies
const DirName = "archive"

// ArchiveFile moves an existing file into a sibling archive directory with
// a timestamp in its name. It returns the new path, or "" when there was
// nothing to archive.
func ArchiveFile(fs afero.Fs, path string, now time.Time) (string, error) {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot archive directory: %s", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), DirName)
	if err := fs.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405"), ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := fs.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405.000000"), ext))
	}

	if err := fs.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}

	return archivePath, nil
}
