package audio

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// mockSynthesizer implements Synthesizer for testing
type mockSynthesizer struct {
	name         string
	data         []byte
	synthErr     error
	availableErr error
	calls        int
	lastText     string
	lastLang     string
	lastAccent   string
	block        bool
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	m.calls++
	m.lastText, m.lastLang, m.lastAccent = text, lang, accent
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.synthErr != nil {
		return nil, m.synthErr
	}
	return m.data, nil
}

func (m *mockSynthesizer) Name() string {
	return m.name
}

func (m *mockSynthesizer) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "google" {
		t.Errorf("Expected provider 'google', got '%s'", config.Provider)
	}
	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}
	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}
	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}
	if config.BreakerFailures != 5 {
		t.Errorf("Expected breaker threshold 5, got %d", config.BreakerFailures)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		config   *Config
		wantName string
		errMsg   string
	}{
		{
			name:     "nil config uses google",
			provider: "",
			config:   nil,
			wantName: "google",
		},
		{
			name:     "google",
			provider: "google",
			config:   &Config{},
			wantName: "google",
		},
		{
			name:     "espeak",
			provider: "espeak",
			config:   &Config{},
			wantName: "espeak",
		},
		{
			name:     "openai with key",
			provider: "openai",
			config:   &Config{OpenAIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:     "openai provider without key",
			provider: "openai",
			config:   &Config{},
			errMsg:   "OpenAI API key is required",
		},
		{
			name:     "gemini provider without key",
			provider: "gemini",
			config:   &Config{},
			errMsg:   "Gemini API key is required",
		},
		{
			name:     "unknown provider",
			provider: "unknown",
			config:   &Config{},
			errMsg:   "unknown audio provider: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.provider, tt.config)
			if tt.errMsg != "" {
				if err == nil || err.Error() != tt.errMsg {
					t.Errorf("NewProvider() error = %v, want %v", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNewSynthesizerChain(t *testing.T) {
	config := DefaultProviderConfig()
	config.Fallback = "espeak"
	config.Timeout = time.Second

	synth, err := NewSynthesizer(config)
	if err != nil {
		t.Fatalf("NewSynthesizer() error = %v", err)
	}
	if want := "google (fallback: espeak)"; synth.Name() != want {
		t.Errorf("Name() = %q, want %q", synth.Name(), want)
	}

	config.Fallback = "bogus"
	if _, err := NewSynthesizer(config); err == nil {
		t.Error("NewSynthesizer() expected error for unknown fallback")
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockSynthesizer{name: "primary", data: []byte("primary")}
	fallback := &mockSynthesizer{name: "fallback", data: []byte("fallback")}

	provider := NewProviderWithFallback(primary, fallback)
	ctx := context.Background()

	// Successful primary
	data, err := provider.Synthesize(ctx, "test", "en", "co.uk")
	if err != nil {
		t.Errorf("Synthesize() unexpected error: %v", err)
	}
	if string(data) != "primary" {
		t.Errorf("Synthesize() = %q, want primary audio", data)
	}
	if primary.calls != 1 || fallback.calls != 0 {
		t.Errorf("calls = %d/%d, want 1/0", primary.calls, fallback.calls)
	}

	// Primary failure, fallback success
	primary.synthErr = errors.New("primary failed")
	data, err = provider.Synthesize(ctx, "test", "en", "co.uk")
	if err != nil {
		t.Errorf("Synthesize() unexpected error: %v", err)
	}
	if string(data) != "fallback" {
		t.Errorf("Synthesize() = %q, want fallback audio", data)
	}
	if fallback.lastLang != "en" || fallback.lastAccent != "co.uk" {
		t.Errorf("fallback got lang=%q accent=%q", fallback.lastLang, fallback.lastAccent)
	}

	// Both fail
	fallback.synthErr = errors.New("fallback failed")
	_, err = provider.Synthesize(ctx, "test", "en", "co.uk")
	var se *SynthesisError
	if !errors.As(err, &se) {
		t.Fatalf("Synthesize() error = %v, want SynthesisError", err)
	}
	if !strings.Contains(err.Error(), "primary failed") || !strings.Contains(err.Error(), "fallback failed") {
		t.Errorf("error %q should mention both failures", err)
	}
}

func TestProviderWithFallbackCancelled(t *testing.T) {
	primary := &mockSynthesizer{name: "primary", synthErr: context.Canceled}
	fallback := &mockSynthesizer{name: "fallback", data: []byte("x")}
	provider := NewProviderWithFallback(primary, fallback)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.Synthesize(ctx, "test", "en", ""); err == nil {
		t.Error("Synthesize() expected error on cancelled context")
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times after cancellation", fallback.calls)
	}
}

func TestProviderWithFallbackName(t *testing.T) {
	provider := NewProviderWithFallback(&mockSynthesizer{name: "primary"}, &mockSynthesizer{name: "fallback"})

	expected := "primary (fallback: fallback)"
	if provider.Name() != expected {
		t.Errorf("Name() = %v, want %v", provider.Name(), expected)
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	primary := &mockSynthesizer{name: "primary"}
	fallback := &mockSynthesizer{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	// Both available
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	// Primary unavailable, fallback available
	primary.availableErr = errors.New("primary unavailable")
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error when fallback available: %v", err)
	}

	// Both unavailable
	fallback.availableErr = errors.New("fallback unavailable")
	if err := provider.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error when both providers unavailable")
	}
}

func TestTimeoutSynthesizer(t *testing.T) {
	inner := &mockSynthesizer{name: "slow", block: true}
	synth := &timeoutSynthesizer{Synthesizer: inner, timeout: 20 * time.Millisecond}

	_, err := synth.Synthesize(context.Background(), "test", "en", "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Synthesize() error = %v, want deadline exceeded", err)
	}
}

func TestSynthesisErrorWrapping(t *testing.T) {
	base := errors.New("boom")
	err := synthesisError("google", "word", base)

	if !errors.Is(err, base) {
		t.Error("SynthesisError should unwrap to the cause")
	}
	if again := synthesisError("other", "word", err); again != err {
		t.Error("synthesisError should not wrap twice")
	}
	if want := `google: failed to synthesize "word": boom`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
