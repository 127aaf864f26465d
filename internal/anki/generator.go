package anki

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// TagsColumn is the 1-based column that holds note tags in the import file
const TagsColumn = 7

// Row is one line of the import file: a single Anki note
type Row struct {
	Word    string
	IPA     string
	Sound   string // [sound:<file>] reference
	Meaning string
	Context string
	Extra   string
	Tags    string // space separated Anki tags
}

// Fields returns the row in import-file column order
func (r Row) Fields() []string {
	return []string{r.Word, r.IPA, r.Sound, r.Meaning, r.Context, r.Extra, r.Tags}
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath string // Output import file path
	NoteType   string // Note type the rows are imported as
	DeckName   string // Target deck
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath: filepath.Join("output", "import_to_anki.txt"),
		NoteType:   "Basic",
		DeckName:   "Default",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	fs      afero.Fs
	options *GeneratorOptions
	rows    []Row
}

// NewGenerator creates a new Anki generator writing to fs
func NewGenerator(fs afero.Fs, options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		fs:      fs,
		options: options,
		rows:    make([]Row, 0),
	}
}

// AddRow appends a row; rows are written in the order they were added
func (g *Generator) AddRow(row Row) {
	g.rows = append(g.rows, row)
}

// AddRows appends several rows
func (g *Generator) AddRows(rows []Row) {
	g.rows = append(g.rows, rows...)
}

// Rows returns the collected rows
func (g *Generator) Rows() []Row {
	return g.rows
}

// Header returns the directive lines Anki reads before the notes
func (g *Generator) Header() []string {
	return []string{
		"#separator:Tab",
		"#html:true",
		"#notetype:" + g.options.NoteType,
		"#deck:" + g.options.DeckName,
		fmt.Sprintf("#tags column:%d", TagsColumn),
	}
}

// WriteImportFile writes the header block and all rows as tab-separated
// lines, creating parent directories of the output path
func (g *Generator) WriteImportFile() error {
	if dir := filepath.Dir(g.options.OutputPath); dir != "" && dir != "." {
		if err := g.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := g.fs.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create import file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	for _, line := range g.Header() {
		if _, err := buf.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	writer := csv.NewWriter(buf)
	writer.Comma = '\t'
	for _, row := range g.rows {
		if err := writer.Write(row.Fields()); err != nil {
			return fmt.Errorf("failed to write row for %q: %w", row.Word, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write import file: %w", err)
	}
	return file.Close()
}

// GenerateAPKG packages the rows together with their audio from mediaDir
func (g *Generator) GenerateAPKG(outputPath, mediaDir string) error {
	apkgGen := NewAPKGGenerator(g.fs, g.options.DeckName)
	apkgGen.SetMediaDir(mediaDir)
	for _, row := range g.rows {
		apkgGen.AddRow(row)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns the number of rows and how many of them carry tags
func (g *Generator) Stats() (totalRows, tagged int) {
	totalRows = len(g.rows)
	for _, row := range g.rows {
		if row.Tags != "" {
			tagged++
		}
	}
	return
}
