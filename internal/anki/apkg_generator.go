package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeberg.org/snonux/vocabdeck/internal"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
)

// noteFields are the fields of the note type shipped inside the package
var noteFields = []string{"Word", "IPA", "Sound", "Meaning", "Context", "Extra"}

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	fs           afero.Fs
	deckName     string
	deckID       int64
	modelID      int64
	mediaDir     string
	rows         []Row
	mediaFiles   map[string]int // maps media filename to its number in the package
	mediaOrder   []string
	mediaCounter int
	now          func() time.Time
}

// NewAPKGGenerator creates a new APKG generator reading media from fs
func NewAPKGGenerator(fs afero.Fs, deckName string) *APKGGenerator {
	// Generate IDs based on timestamp to ensure uniqueness
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		fs:         fs,
		deckName:   deckName,
		deckID:     now,
		modelID:    now + 1,
		rows:       make([]Row, 0),
		mediaFiles: make(map[string]int),
		now:        time.Now,
	}
}

// SetMediaDir sets the directory the referenced audio files are read from
func (g *APKGGenerator) SetMediaDir(dir string) {
	g.mediaDir = dir
}

// AddRow adds a note to the generator
func (g *APKGGenerator) AddRow(row Row) {
	g.rows = append(g.rows, row)
}

// GenerateAPKG creates an .apkg file
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	// sqlite needs a real file, so the collection is built in an OS temp dir
	tempDir, err := os.MkdirTemp("", "vocabdeck_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Collect media FIRST (this populates g.mediaFiles)
	if err := g.collectMedia(); err != nil {
		return fmt.Errorf("failed to collect media files: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.createZipPackage(dbPath, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := g.createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

// createTables creates the required Anki database tables
func (g *APKGGenerator) createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY,
			crt integer NOT NULL,
			mod integer NOT NULL,
			scm integer NOT NULL,
			ver integer NOT NULL,
			dty integer NOT NULL,
			usn integer NOT NULL,
			ls integer NOT NULL,
			conf text NOT NULL,
			models text NOT NULL,
			decks text NOT NULL,
			dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY,
			guid text NOT NULL,
			mid integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			tags text NOT NULL,
			flds text NOT NULL,
			sfld text NOT NULL,
			csum integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY,
			nid integer NOT NULL,
			did integer NOT NULL,
			ord integer NOT NULL,
			mod integer NOT NULL,
			usn integer NOT NULL,
			type integer NOT NULL,
			queue integer NOT NULL,
			due integer NOT NULL,
			ivl integer NOT NULL,
			factor integer NOT NULL,
			reps integer NOT NULL,
			lapses integer NOT NULL,
			left integer NOT NULL,
			odue integer NOT NULL,
			odid integer NOT NULL,
			flags integer NOT NULL,
			data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY,
			cid integer NOT NULL,
			usn integer NOT NULL,
			ease integer NOT NULL,
			ivl integer NOT NULL,
			lastIvl integer NOT NULL,
			factor integer NOT NULL,
			time integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE TABLE graves (
			usn integer NOT NULL,
			oid integer NOT NULL,
			type integer NOT NULL
		)`,
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

func deckConfig(id int64, name, desc string, mod int64) map[string]interface{} {
	return map[string]interface{}{
		"id":               id,
		"name":             name,
		"mod":              mod,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

// insertCollection inserts the collection metadata
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := g.now().Unix()

	decks := map[string]interface{}{
		"1": deckConfig(1, "Default", "", now),
	}
	decks[strconv.FormatInt(g.deckID, 10)] = deckConfig(g.deckID, g.deckName, "Vocabulary with pronunciation audio", now)
	decksJSON, err := json.Marshal(decks)
	if err != nil {
		return err
	}

	models := map[string]interface{}{
		strconv.FormatInt(g.modelID, 10): g.createNoteTypeConfig(now),
	}
	modelsJSON, err := json.Marshal(models)
	if err != nil {
		return err
	}

	conf := map[string]interface{}{
		"nextPos":       len(g.rows) + 1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(g.modelID, 10),
		"dayLearnFirst": false,
	}
	confJSON, err := json.Marshal(conf)
	if err != nil {
		return err
	}

	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]interface{}{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]interface{}{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]interface{}{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}
	dconfJSON, err := json.Marshal(dconf)
	if err != nil {
		return err
	}

	query := `INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		string(confJSON),
		string(modelsJSON),
		string(decksJSON),
		string(dconfJSON),
		"{}", // tags
	)
	return err
}

// createNoteTypeConfig creates the note type configuration
func (g *APKGGenerator) createNoteTypeConfig(mod int64) map[string]interface{} {
	flds := make([]map[string]interface{}, 0, len(noteFields))
	for i, name := range noteFields {
		size := 20
		if name == "Context" || name == "Extra" {
			size = 16
		}
		flds = append(flds, map[string]interface{}{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   size,
			"media":  []string{},
		})
	}

	return map[string]interface{}{
		"id":    g.modelID,
		"name":  "Vocabulary with audio (" + internal.Version + ")",
		"type":  0,
		"mod":   mod,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]interface{}{{0, "all", []int{0}}},
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds":      flds,
		"tmpls": []map[string]interface{}{
			{
				"name":  "Card 1",
				"ord":   0,
				"qfmt":  frontTemplate,
				"afmt":  backTemplate,
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": cardCSS,
	}
}

const frontTemplate = `<div class="front">
<div class="word">{{Word}}</div>
{{#IPA}}<div class="ipa">{{IPA}}</div>{{/IPA}}
{{Sound}}
</div>`

const backTemplate = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="meaning">{{Meaning}}</div>
{{#Context}}
<div class="context">{{Context}}</div>
{{/Context}}
{{#Extra}}
<div class="extra">{{Extra}}</div>
{{/Extra}}
</div>`

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.ipa {
  font-size: 18px;
  color: #7f8c8d;
}

.meaning {
  font-size: 24px;
  margin: 20px 0;
}

.context, .extra {
  font-size: 16px;
  color: #7f8c8d;
  margin-top: 20px;
  font-style: italic;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

// insertNotesAndCards inserts one note and one card per row
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	now := g.now()
	base := now.UnixMilli()

	noteQuery := `INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cardQuery := `INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, row := range g.rows {
		noteID := base + int64(i*2)
		cardID := noteID + 1

		sound := ""
		if name := soundFile(row.Sound); name != "" {
			if _, ok := g.mediaFiles[name]; ok {
				sound = row.Sound
			}
		}

		fields := strings.Join([]string{
			row.Word,
			row.IPA,
			sound,
			row.Meaning,
			row.Context,
			row.Extra,
		}, "\x1f")

		guid := internal.NoteGUID(row.Word)
		tags := noteTags(row.Tags)
		csum := fieldChecksum(row.Word)

		_, err := db.Exec(noteQuery,
			noteID,     // id
			guid,       // guid
			g.modelID,  // mid
			now.Unix(), // mod
			-1,         // usn
			tags,       // tags
			fields,     // flds
			row.Word,   // sfld (sort field)
			csum,       // csum
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %q: %w", row.Word, err)
		}

		_, err = db.Exec(cardQuery,
			cardID,     // id
			noteID,     // nid
			g.deckID,   // did
			0,          // ord
			now.Unix(), // mod
			-1,         // usn
			0,          // type (0=new)
			0,          // queue (0=new)
			i+1,        // due (for new cards, this is position)
			0,          // ivl
			0,          // factor
			0,          // reps
			0,          // lapses
			0,          // left
			0,          // odue
			0,          // odid
			0,          // flags
			"",         // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %q: %w", row.Word, err)
		}
	}

	return nil
}

// collectMedia assigns package numbers to every referenced audio file that
// exists in the media directory
func (g *APKGGenerator) collectMedia() error {
	for _, row := range g.rows {
		name := soundFile(row.Sound)
		if name == "" {
			continue
		}
		if _, exists := g.mediaFiles[name]; exists {
			continue
		}

		info, err := g.fs.Stat(filepath.Join(g.mediaDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if info.IsDir() {
			continue
		}

		g.mediaFiles[name] = g.mediaCounter
		g.mediaOrder = append(g.mediaOrder, name)
		g.mediaCounter++
	}
	return nil
}

// mediaMapping returns the JSON map from package number to filename
func (g *APKGGenerator) mediaMapping() ([]byte, error) {
	mapping := make(map[string]string, len(g.mediaFiles))
	for filename, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = filename
	}
	return json.Marshal(mapping)
}

// createZipPackage writes the collection, media map and media files into outputPath
func (g *APKGGenerator) createZipPackage(dbPath, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := g.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	zipFile, err := g.fs.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	if err := addOSFile(archive, "collection.anki2", dbPath); err != nil {
		return err
	}

	mapping, err := g.mediaMapping()
	if err != nil {
		return err
	}
	w, err := archive.Create("media")
	if err != nil {
		return err
	}
	if _, err := w.Write(mapping); err != nil {
		return err
	}

	for _, name := range g.mediaOrder {
		if err := g.addMediaFile(archive, name); err != nil {
			return fmt.Errorf("failed to add media file %s: %w", name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return err
	}
	return zipFile.Close()
}

func (g *APKGGenerator) addMediaFile(archive *zip.Writer, name string) error {
	src, err := g.fs.Open(filepath.Join(g.mediaDir, name))
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := archive.Create(strconv.Itoa(g.mediaFiles[name]))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func addOSFile(archive *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

// Helper functions

// soundFile extracts the filename from a [sound:...] reference
func soundFile(tag string) string {
	name, ok := strings.CutPrefix(tag, "[sound:")
	if !ok {
		return ""
	}
	name, ok = strings.CutSuffix(name, "]")
	if !ok {
		return ""
	}
	return name
}

// noteTags formats space separated tags the way Anki stores them
func noteTags(tags string) string {
	fields := strings.Fields(tags)
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

// fieldChecksum is the first 8 hex digits of the SHA1 of the sort field
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(field))
	n, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return n
}
