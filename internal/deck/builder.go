package deck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"codeberg.org/snonux/vocabdeck/internal"
	"codeberg.org/snonux/vocabdeck/internal/anki"
	"codeberg.org/snonux/vocabdeck/internal/audio"
	"codeberg.org/snonux/vocabdeck/internal/console"
	"codeberg.org/snonux/vocabdeck/internal/vocab"
)

// Defaults used when Options leaves a field empty
const (
	DefaultLang  = "en"
	DefaultTLD   = "co.uk"
	DefaultDelay = 300 * time.Millisecond
)

// Status is the outcome of audio handling for one item
type Status int

const (
	StatusDownloaded Status = iota
	StatusCached
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusCached:
		return "cached"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Icon is the marker shown in the progress line
func (s Status) Icon() string {
	switch s {
	case StatusDownloaded:
		return "⬇️ "
	case StatusCached:
		return "⏭️ "
	default:
		return "❌ "
	}
}

// ItemStatus records what happened to one vocabulary item
type ItemStatus struct {
	Word     string
	Filename string
	Status   Status
	Err      error
}

// Options configures a Builder
type Options struct {
	Lang  string        // TTS language, defaults to "en"
	TLD   string        // accent top-level domain, defaults to "co.uk"
	Delay time.Duration // pause after each synthesis call; negative disables
}

// Builder turns vocabulary items into import rows, synthesizing audio for
// words that have no file in the media directory yet
type Builder struct {
	fs    afero.Fs
	synth audio.Synthesizer
	log   *console.Logger
	lang  string
	tld   string
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBuilder creates a deck builder
func NewBuilder(fs afero.Fs, synth audio.Synthesizer, log *console.Logger, opts Options) *Builder {
	if log == nil {
		log = console.Discard()
	}
	b := &Builder{
		fs:    fs,
		synth: synth,
		log:   log,
		lang:  opts.Lang,
		tld:   opts.TLD,
		delay: opts.Delay,
		sleep: sleepContext,
	}
	if b.lang == "" {
		b.lang = DefaultLang
	}
	if b.tld == "" {
		b.tld = DefaultTLD
	}
	if b.delay == 0 {
		b.delay = DefaultDelay
	}
	return b
}

// Build processes items in order and returns one row per non-blank item
// together with its status. Blank words are skipped without a trace. When
// ctx is cancelled the items processed so far are returned.
func (b *Builder) Build(ctx context.Context, items []vocab.Item, mediaDir string) ([]anki.Row, []ItemStatus) {
	rows := make([]anki.Row, 0, len(items))
	statuses := make([]ItemStatus, 0, len(items))

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}

		word := item.TrimmedWord()
		if word == "" {
			continue
		}

		st := b.ensureAudio(ctx, word, mediaDir)
		if st.Err != nil {
			b.log.Error("Failed to download '%s': %v", word, st.Err)
		}
		b.log.Progress(i+1, len(items), st.Status.Icon(), word)

		statuses = append(statuses, st)
		rows = append(rows, anki.Row{
			Word:    word,
			IPA:     item.IPA,
			Sound:   internal.SoundTag(st.Filename),
			Meaning: item.Meaning,
			Context: item.Context,
			Extra:   item.Extra,
			Tags:    item.Tags,
		})
	}

	return rows, statuses
}

// ensureAudio makes sure the audio file for word exists in mediaDir
func (b *Builder) ensureAudio(ctx context.Context, word, mediaDir string) ItemStatus {
	filename := internal.MediaFilename(word)
	path := filepath.Join(mediaDir, filename)
	st := ItemStatus{Word: word, Filename: filename}

	if _, err := b.fs.Stat(path); err == nil {
		st.Status = StatusCached
		return st
	}

	data, err := b.synth.Synthesize(ctx, word, b.lang, b.tld)
	if err == nil {
		err = b.writeAtomic(path, data)
	}
	if err != nil {
		st.Status = StatusFailed
		st.Err = err
	} else {
		st.Status = StatusDownloaded
	}

	// A breaker rejection never reached the service
	if !audio.IsShortCircuit(err) && b.delay > 0 {
		if serr := b.sleep(ctx, b.delay); serr != nil {
			b.log.Debug("delay interrupted: %v", serr)
		}
	}
	return st
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so an interrupted write never leaves a file that looks cached
func (b *Builder) writeAtomic(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no audio data for %s", filepath.Base(path))
	}

	dir := filepath.Dir(path)
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	tmp, err := afero.TempFile(b.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		b.fs.Remove(tmpName)
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		b.fs.Remove(tmpName)
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := b.fs.Chmod(tmpName, 0644); err != nil && !os.IsNotExist(err) {
		b.log.Debug("chmod %s: %v", tmpName, err)
	}
	if err := b.fs.Rename(tmpName, path); err != nil {
		b.fs.Remove(tmpName)
		return fmt.Errorf("failed to save audio: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
