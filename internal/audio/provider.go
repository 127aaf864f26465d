package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Synthesizer defines the interface for text-to-speech providers
type Synthesizer interface {
	// Synthesize returns MP3 audio for text spoken in lang with the accent
	// selected by accent (a Google top-level domain such as "co.uk")
	Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// ErrEmptyText is returned when the text to synthesize is blank
var ErrEmptyText = errors.New("text cannot be empty")

// SynthesisError is returned by every provider when audio could not be produced
type SynthesisError struct {
	Provider string
	Text     string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s: failed to synthesize %q: %v", e.Provider, e.Text, e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// synthesisError wraps err unless it already is a SynthesisError
func synthesisError(provider, text string, err error) error {
	var se *SynthesisError
	if errors.As(err, &se) {
		return err
	}
	return &SynthesisError{Provider: provider, Text: text, Err: err}
}

// Config holds configuration for building synthesizers
type Config struct {
	Provider string // "google", "openai", "gemini" or "espeak"
	Fallback string // optional provider tried when the primary fails

	// Timeout bounds a single Synthesize call, zero means no limit
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures after which a
	// network provider is short-circuited, zero disables the breaker
	BreakerFailures int

	HTTPClient    *http.Client
	GoogleBaseURL string // overrides https://translate.google.<tld>

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIModel   string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice   string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed   float64 // 0.25 to 4.0
	OpenAIBaseURL string

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// Local tools used by espeak and for transcoding
	ESpeakPath string
	FFmpegPath string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:        "google",
		BreakerFailures: 5,
		OpenAIModel:     "gpt-4o-mini-tts",
		OpenAIVoice:     "alloy",
		OpenAISpeed:     1.0,
		GeminiModel:     "gemini-2.5-flash-preview-tts",
		GeminiVoice:     "Kore",
		ESpeakPath:      "espeak-ng",
		FFmpegPath:      "ffmpeg",
	}
}

// NewProvider creates the named audio provider
func NewProvider(name string, config *Config) (Synthesizer, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch name {
	case "google", "":
		return NewGoogleProvider(config), nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		provider, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return provider, nil

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		provider, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		return provider, nil

	case "espeak":
		return NewESpeakProvider(config), nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// NewSynthesizer builds the synthesizer chain described by config: the
// primary provider behind a circuit breaker, an optional fallback and an
// optional per-call timeout
func NewSynthesizer(config *Config) (Synthesizer, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := NewProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}
	if config.BreakerFailures > 0 && isNetworkProvider(config.Provider) {
		primary = NewBreakerSynthesizer(primary, config.BreakerFailures)
	}

	synth := primary
	if config.Fallback != "" && config.Fallback != config.Provider {
		fallback, err := NewProvider(config.Fallback, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback provider: %w", err)
		}
		synth = NewProviderWithFallback(primary, fallback)
	}

	if config.Timeout > 0 {
		synth = &timeoutSynthesizer{Synthesizer: synth, timeout: config.Timeout}
	}
	return synth, nil
}

func isNetworkProvider(name string) bool {
	return name != "espeak"
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Synthesizer
	fallback Synthesizer
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Synthesizer) Synthesizer {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Synthesize tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	data, err := p.primary.Synthesize(ctx, text, lang, accent)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	data, fbErr := p.fallback.Synthesize(ctx, text, lang, accent)
	if fbErr != nil {
		return nil, &SynthesisError{
			Provider: p.Name(),
			Text:     text,
			Err:      fmt.Errorf("primary: %v; fallback: %w", err, fbErr),
		}
	}
	return data, nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

type timeoutSynthesizer struct {
	Synthesizer
	timeout time.Duration
}

func (t *timeoutSynthesizer) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Synthesizer.Synthesize(ctx, text, lang, accent)
}
