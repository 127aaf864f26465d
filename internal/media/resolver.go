// Package media locates the directory that receives generated audio: a
// user-configured path, the collection.media folder of a detected Anki
// profile, or a local fallback directory.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

const (
	// AutoDetect is the configured value that requests OS-based discovery
	AutoDetect = "auto"

	mediaDirName = "collection.media"
	addonsDir    = "addons21"
)

var (
	// ErrConfiguredPathMissing means a custom media path was set but does not exist
	ErrConfiguredPathMissing = errors.New("configured media path does not exist")
	// ErrNotDetected means no Anki profile with a media folder was found
	ErrNotDetected = errors.New("no Anki installation detected")
)

// Profile is a detected Anki profile
type Profile struct {
	Name     string
	Base     string
	MediaDir string
}

// Location is the directory chosen for audio files
type Location struct {
	Dir string
	// Local is true when Dir is the fallback directory and the user has to
	// copy the files into Anki by hand
	Local bool
	// Reason says why the fallback was used
	Reason error
}

// Resolver finds the Anki media directory
type Resolver struct {
	fs       afero.Fs
	platform Platform
	env      Env
	// Profile restricts auto-detection to the named profile when set
	Profile string
}

// NewResolver creates a resolver for an explicit platform and environment
func NewResolver(fs afero.Fs, platform Platform, env Env) *Resolver {
	return &Resolver{fs: fs, platform: platform, env: env}
}

// NewOSResolver creates a resolver for the running system
func NewOSResolver(fs afero.Fs) *Resolver {
	return NewResolver(fs, PlatformFromGOOS(runtime.GOOS), EnvFromOS())
}

// Bases returns the candidate base directories for this resolver
func (r *Resolver) Bases() []string {
	return CandidateBases(r.platform, r.env)
}

// Resolve returns the media directory for customPath. An empty customPath
// or "auto" triggers auto-detection. The returned error is
// ErrConfiguredPathMissing or ErrNotDetected when nothing usable was found.
func (r *Resolver) Resolve(customPath string) (string, error) {
	if customPath != "" && !strings.EqualFold(customPath, AutoDetect) {
		if r.exists(customPath) {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: %s", ErrConfiguredPathMissing, customPath)
	}

	for _, base := range r.Bases() {
		if dir, ok := r.firstProfile(base); ok {
			return dir, nil
		}
	}

	return "", ErrNotDetected
}

// Profiles lists every profile with a media folder across all bases
func (r *Resolver) Profiles() []Profile {
	var profiles []Profile
	for _, base := range r.Bases() {
		for _, name := range r.profileNames(base) {
			mediaDir := filepath.Join(base, name, mediaDirName)
			if r.exists(mediaDir) {
				profiles = append(profiles, Profile{Name: name, Base: base, MediaDir: mediaDir})
			}
		}
	}
	return profiles
}

// firstProfile returns the media folder of the first matching profile in
// listing order
func (r *Resolver) firstProfile(base string) (string, bool) {
	for _, name := range r.profileNames(base) {
		if r.Profile != "" && name != r.Profile {
			continue
		}
		mediaDir := filepath.Join(base, name, mediaDirName)
		if r.exists(mediaDir) {
			return mediaDir, true
		}
	}
	return "", false
}

// profileNames lists candidate profile directories under base. Listing
// errors, permission problems included, yield no candidates.
func (r *Resolver) profileNames(base string) []string {
	if !r.exists(base) {
		return nil
	}

	entries, err := afero.ReadDir(r.fs, base)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == addonsDir {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (r *Resolver) exists(path string) bool {
	_, err := r.fs.Stat(path)
	return err == nil
}

// Locate resolves customPath and falls back to localDir when nothing was
// found. The fallback directory is created if absent.
func (r *Resolver) Locate(customPath, localDir string) (Location, error) {
	dir, err := r.Resolve(customPath)
	if err == nil {
		return Location{Dir: dir}, nil
	}

	if mkErr := r.fs.MkdirAll(localDir, 0755); mkErr != nil {
		return Location{}, fmt.Errorf("failed to create local media directory: %w", mkErr)
	}
	return Location{Dir: localDir, Local: true, Reason: err}, nil
}
