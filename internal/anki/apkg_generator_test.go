package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/vocabdeck/internal"
	"github.com/spf13/afero"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator(afero.NewMemMapFs(), "Test Deck")

	if gen == nil {
		t.Fatal("NewAPKGGenerator returned nil")
	}
	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}
	if len(gen.rows) != 0 {
		t.Errorf("Expected empty rows slice, got %d rows", len(gen.rows))
	}
	if len(gen.mediaFiles) != 0 {
		t.Errorf("Expected empty media files, got %d files", len(gen.mediaFiles))
	}
}

func TestSoundFile(t *testing.T) {
	tests := map[string]string{
		"[sound:run.mp3]": "run.mp3",
		"[sound:]":        "",
		"run.mp3":         "",
		"[sound:run.mp3":  "",
		"":                "",
	}
	for tag, want := range tests {
		if got := soundFile(tag); got != want {
			t.Errorf("soundFile(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestNoteTags(t *testing.T) {
	if got := noteTags("verb  b2 "); got != " verb b2 " {
		t.Errorf("noteTags() = %q", got)
	}
	if got := noteTags("   "); got != "" {
		t.Errorf("noteTags(blank) = %q", got)
	}
}

func TestFieldChecksum(t *testing.T) {
	a := fieldChecksum("Ephemeral")
	if a != fieldChecksum("Ephemeral") {
		t.Error("checksum must be deterministic")
	}
	if a == fieldChecksum("ephemeral") {
		t.Error("checksum should differ for different fields")
	}
	if a < 0 || a > 0xffffffff {
		t.Errorf("checksum %d out of 32-bit range", a)
	}
}

// openPackage reads the zip written to fs and extracts its collection to disk
func openPackage(t *testing.T, fs afero.Fs, path string) (map[string][]byte, *sql.DB) {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read package: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("package is not a zip: %v", err)
	}

	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		files[f.Name] = content
	}

	dbPath := filepath.Join(t.TempDir(), "collection.anki2")
	if err := os.WriteFile(dbPath, files["collection.anki2"], 0644); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return files, db
}

func TestGenerateAPKG(t *testing.T) {
	fs := afero.NewMemMapFs()
	mediaDir := "output/media"
	afero.WriteFile(fs, filepath.Join(mediaDir, "ephemeral.mp3"), []byte("ID3 ephemeral"), 0644)

	gen := NewGenerator(fs, DefaultGeneratorOptions())
	gen.AddRow(Row{Word: "Ephemeral", IPA: "/ɪˈfem.ər.əl/", Sound: "[sound:ephemeral.mp3]", Meaning: "short-lived", Tags: "adj c1"})
	gen.AddRow(Row{Word: "Missing", Sound: "[sound:missing.mp3]", Meaning: "no audio"})

	if err := gen.GenerateAPKG("output/deck.apkg", mediaDir); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	files, db := openPackage(t, fs, "output/deck.apkg")

	var mapping map[string]string
	if err := json.Unmarshal(files["media"], &mapping); err != nil {
		t.Fatalf("media map is not JSON: %v", err)
	}
	if len(mapping) != 1 || mapping["0"] != "ephemeral.mp3" {
		t.Errorf("media map = %v, want only ephemeral.mp3", mapping)
	}
	if string(files["0"]) != "ID3 ephemeral" {
		t.Errorf("media file 0 = %q", files["0"])
	}

	rows, err := db.Query(`SELECT guid, tags, flds, sfld FROM notes ORDER BY id`)
	if err != nil {
		t.Fatalf("query notes: %v", err)
	}
	defer rows.Close()

	type note struct{ guid, tags, flds, sfld string }
	var notes []note
	for rows.Next() {
		var n note
		if err := rows.Scan(&n.guid, &n.tags, &n.flds, &n.sfld); err != nil {
			t.Fatal(err)
		}
		notes = append(notes, n)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}

	first := strings.Split(notes[0].flds, "\x1f")
	if len(first) != len(noteFields) {
		t.Fatalf("note has %d fields, want %d", len(first), len(noteFields))
	}
	if first[0] != "Ephemeral" || first[2] != "[sound:ephemeral.mp3]" || first[3] != "short-lived" {
		t.Errorf("fields = %q", first)
	}
	if notes[0].tags != " adj c1 " {
		t.Errorf("tags = %q", notes[0].tags)
	}
	if notes[0].guid != internal.NoteGUID("Ephemeral") {
		t.Errorf("guid = %q", notes[0].guid)
	}

	// audio not present in the media dir is left out of the note
	second := strings.Split(notes[1].flds, "\x1f")
	if second[2] != "" {
		t.Errorf("missing audio should give an empty Sound field, got %q", second[2])
	}

	var cards int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards); err != nil {
		t.Fatal(err)
	}
	if cards != 2 {
		t.Errorf("got %d cards, want 2", cards)
	}

	var decks string
	if err := db.QueryRow(`SELECT decks FROM col`).Scan(&decks); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(decks, `"Default"`) {
		t.Errorf("decks JSON missing deck name: %s", decks)
	}
}

func TestGenerateAPKGDeduplicatesMedia(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "media/run.mp3", []byte("a"), 0644)

	gen := NewAPKGGenerator(fs, "Deck")
	gen.SetMediaDir("media")
	gen.AddRow(Row{Word: "run", Sound: "[sound:run.mp3]"})
	gen.AddRow(Row{Word: "Run", Sound: "[sound:run.mp3]"})

	if err := gen.GenerateAPKG("deck.apkg"); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}
	if len(gen.mediaFiles) != 1 || gen.mediaCounter != 1 {
		t.Errorf("media should be bundled once, got %v", gen.mediaFiles)
	}
}
