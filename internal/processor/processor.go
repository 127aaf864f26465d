package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"codeberg.org/snonux/vocabdeck/internal/anki"
	"codeberg.org/snonux/vocabdeck/internal/archive"
	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/cli"
	"codeberg.org/snonux/vocabdeck/internal/console"
	"codeberg.org/snonux/vocabdeck/internal/deck"
	"codeberg.org/snonux/vocabdeck/internal/media"
	"codeberg.org/snonux/vocabdeck/internal/phonetic"
	"codeberg.org/snonux/vocabdeck/internal/translation"
	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

// ErrInputNotFound means the vocabulary file does not exist
var ErrInputNotFound = errors.New("data file not found")

// Result summarizes a completed run
type Result struct {
	Location     media.Location
	Rows         []anki.Row
	Statuses     []deck.ItemStatus
	OutputFile   string
	APKGFile     string
	ArchivedFile string
}

// Counts returns how many items were downloaded, cached and failed
func (r *Result) Counts() (downloaded, cached, failed int) {
	for _, st := range r.Statuses {
		switch st.Status {
		case deck.StatusDownloaded:
			downloaded++
		case deck.StatusCached:
			cached++
		case deck.StatusFailed:
			failed++
		}
	}
	return downloaded, cached, failed
}

// Processor runs one deck generation from config to import file
type Processor struct {
	cfg      *cli.Config
	fs       afero.Fs
	log      *console.Logger
	resolver *media.Resolver
	synth    audio.Synthesizer

	// only set when fill_missing is enabled and an OpenAI key exists
	phoneticFetcher *phonetic.Fetcher
	translator      *translation.Translator

	now func() time.Time
}

// NewProcessor creates a processor for cfg working on fs
func NewProcessor(cfg *cli.Config, fs afero.Fs, log *console.Logger) (*Processor, error) {
	if log == nil {
		log = console.Discard()
	}

	synth, err := audio.NewSynthesizer(cfg.AudioConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}

	resolver := media.NewOSResolver(fs)
	resolver.Profile = cfg.AnkiProfile

	p := &Processor{
		cfg:      cfg,
		fs:       fs,
		log:      log,
		resolver: resolver,
		synth:    synth,
		now:      time.Now,
	}

	if cfg.FillMissing {
		apiKey := cli.GetOpenAIKey(cfg)
		if p.phoneticFetcher, err = phonetic.NewFetcher(apiKey); err != nil {
			log.Warn("fill_missing is enabled but %v, IPA and meanings stay as given", err)
		} else if p.translator, err = translation.NewTranslator(apiKey); err != nil {
			p.phoneticFetcher = nil
			log.Warn("fill_missing is enabled but %v, IPA and meanings stay as given", err)
		}
	}

	return p, nil
}

// Run resolves the media directory, synthesizes audio for every word and
// writes the import file. Per-word audio failures are logged and do not
// fail the run.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	p.log.Header("VOCABDECK START")

	loc, err := p.locateMedia()
	if err != nil {
		return nil, err
	}
	result := &Result{Location: loc, OutputFile: p.cfg.OutputFile}

	items, err := p.readInput()
	if err != nil {
		return result, err
	}

	if p.phoneticFetcher != nil && p.translator != nil {
		p.fillMissing(ctx, items)
	}

	p.log.Info("\n🚀 Processing %d vocabulary items...\n", len(items))
	builder := deck.NewBuilder(p.fs, p.synth, p.log, deck.Options{
		Lang:  p.cfg.TTSLang,
		TLD:   p.cfg.TTSTLD,
		Delay: p.cfg.Delay(),
	})
	result.Rows, result.Statuses = builder.Build(ctx, items, loc.Dir)

	// An interrupt after the last item still leaves a complete row set
	if err := ctx.Err(); err != nil && len(result.Rows) < countWords(items) {
		return result, fmt.Errorf("interrupted after %d of %d items: %w", len(result.Rows), len(items), err)
	}

	if p.cfg.ArchiveOutput {
		archived, err := archive.ArchiveFile(p.fs, p.cfg.OutputFile, p.now())
		if err != nil {
			return result, fmt.Errorf("failed to archive previous import file: %w", err)
		}
		if archived != "" {
			p.log.Info("📦 Previous import file moved to %s", archived)
		}
		result.ArchivedFile = archived
	}

	gen := anki.NewGenerator(p.fs, &anki.GeneratorOptions{
		OutputPath: p.cfg.OutputFile,
		NoteType:   p.cfg.NoteType,
		DeckName:   p.cfg.DeckName,
	})
	gen.AddRows(result.Rows)
	if err := gen.WriteImportFile(); err != nil {
		return result, fmt.Errorf("failed to write import file: %w", err)
	}

	if p.cfg.APKGFile != "" {
		if err := gen.GenerateAPKG(p.cfg.APKGFile, loc.Dir); err != nil {
			return result, fmt.Errorf("failed to generate APKG: %w", err)
		}
		result.APKGFile = p.cfg.APKGFile
	}

	p.printSummary(result)
	return result, nil
}

// locateMedia picks the audio directory, warning when it has to fall back
// to the local one
func (p *Processor) locateMedia() (media.Location, error) {
	loc, err := p.resolver.Locate(p.cfg.AnkiMediaPath, p.cfg.LocalMediaDir)
	if err != nil {
		return loc, err
	}

	if !loc.Local {
		p.log.Success("Found Anki Media Folder: %s", loc.Dir)
		return loc, nil
	}

	if errors.Is(loc.Reason, media.ErrConfiguredPathMissing) {
		p.log.Warn("Warning: Path in config does not exist: %s", p.cfg.AnkiMediaPath)
	}
	p.log.Warn("Anki not found. Audio will be saved to: %s", loc.Dir)
	return loc, nil
}

func countWords(items []vocab.Item) int {
	n := 0
	for _, item := range items {
		if !item.IsBlank() {
			n++
		}
	}
	return n
}

func (p *Processor) readInput() ([]vocab.Item, error) {
	if _, err := p.fs.Stat(p.cfg.InputFile); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at '%s'", ErrInputNotFound, p.cfg.InputFile)
		}
		return nil, fmt.Errorf("failed to access input file: %w", err)
	}

	items, err := vocab.ReadFile(p.fs, p.cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", p.cfg.InputFile, err)
	}
	p.log.Debug("loaded %d items from %s", len(items), p.cfg.InputFile)
	return items, nil
}

// fillMissing asks OpenAI for empty IPA and meaning fields. Lookup failures
// leave the field empty.
func (p *Processor) fillMissing(ctx context.Context, items []vocab.Item) {
	for i := range items {
		if ctx.Err() != nil {
			return
		}
		word := items[i].TrimmedWord()
		if word == "" {
			continue
		}

		if items[i].IPA == "" {
			ipa, err := p.phoneticFetcher.FetchIPA(ctx, word, p.cfg.TTSLang)
			if err != nil {
				p.log.Warn("No IPA for '%s': %v", word, err)
			} else {
				items[i].IPA = ipa
				p.log.Debug("IPA for %s: %s", word, ipa)
			}
		}

		if items[i].Meaning == "" {
			meaning, err := p.translator.Define(ctx, word, p.cfg.TTSLang)
			if err != nil {
				p.log.Warn("No meaning for '%s': %v", word, err)
			} else {
				items[i].Meaning = meaning
				p.log.Debug("meaning of %s: %s", word, meaning)
			}
		}
	}
}

func (p *Processor) printSummary(r *Result) {
	downloaded, cached, failed := r.Counts()

	p.log.Info("")
	p.log.Header("COMPLETE")
	p.log.Field("📄 Import file created at:", r.OutputFile)
	if r.APKGFile != "" {
		p.log.Field("📦 Anki package created at:", r.APKGFile)
	}
	p.log.Field("🔊 Audio:", fmt.Sprintf("%d downloaded, %d cached, %d failed", downloaded, cached, failed))
	if failed > 0 {
		p.log.Warn("%d words have no audio yet, run again to retry them", failed)
	}

	if r.Location.Local {
		p.log.Warn("IMPORTANT: You need to manually copy all files from '%s' to Anki's 'collection.media' folder before importing!", r.Location.Dir)
	} else {
		p.log.Success("Audio files have been automatically added to Anki. Just import the text file and you're done!")
	}
}
