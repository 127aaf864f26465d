package audio

import (
	"context"
	"fmt"
	"strings"
)

// ESpeakProvider implements Synthesizer with the local espeak-ng engine.
// It needs no network and serves as the usual fallback.
type ESpeakProvider struct {
	espeak string
	ffmpeg string
	speed  int
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *Config) *ESpeakProvider {
	p := &ESpeakProvider{
		espeak: config.ESpeakPath,
		ffmpeg: config.FFmpegPath,
		speed:  150,
	}
	if p.espeak == "" {
		p.espeak = "espeak-ng"
	}
	if p.ffmpeg == "" {
		p.ffmpeg = "ffmpeg"
	}
	return p
}

// Synthesize renders text to WAV with espeak-ng and transcodes it to MP3
func (p *ESpeakProvider) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}

	args := []string{
		"-v", ESpeakVoice(lang, accent),
		"-s", fmt.Sprintf("%d", p.speed),
		"--stdout",
		strings.TrimSpace(text),
	}

	wavData, err := runTool(ctx, p.espeak, nil, args...)
	if err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}
	mp3, err := transcodeToMP3(ctx, p.ffmpeg, wavData)
	if err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}
	return mp3, nil
}

// ESpeakVoice maps a language and accent TLD to an espeak-ng voice name
func ESpeakVoice(lang, accent string) string {
	switch locale := strings.ToLower(Locale(lang, accent)); locale {
	case "en-gb":
		return "en-gb"
	case "en-us":
		return "en-us"
	case "pt-br":
		return "pt-br"
	case "es-mx":
		return "es-419"
	default:
		if lang, _, ok := strings.Cut(locale, "-"); ok {
			return lang
		}
		return locale
	}
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak"
}

// IsAvailable checks if espeak-ng and ffmpeg are installed
func (p *ESpeakProvider) IsAvailable() error {
	if err := checkTool(p.espeak); err != nil {
		return err
	}
	return checkTool(p.ffmpeg)
}
