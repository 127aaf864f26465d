package testutil

import (
	"context"
	"errors"
	"sync"
)

// SynthCall records one Synthesize invocation
type SynthCall struct {
	Text   string
	Lang   string
	Accent string
}

// MockSynthesizer is a test double for audio.Synthesizer. Words listed in
// Errors fail with that error; every other word returns Data, or a fake MP3
// payload built from the word when Data is nil.
type MockSynthesizer struct {
	ProviderName string
	Data         []byte
	Errors       map[string]error
	AvailableErr error

	mu    sync.Mutex
	calls []SynthCall
}

// NewMockSynthesizer creates a mock that succeeds for every word
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{ProviderName: "mock", Errors: make(map[string]error)}
}

// Synthesize records the call and returns the configured result
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, SynthCall{Text: text, Lang: lang, Accent: accent})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[text]; ok {
		return nil, err
	}
	if m.Data != nil {
		return m.Data, nil
	}
	return []byte("ID3 " + text), nil
}

// Name returns the provider name
func (m *MockSynthesizer) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns AvailableErr
func (m *MockSynthesizer) IsAvailable() error {
	return m.AvailableErr
}

// Calls returns a copy of the recorded calls
func (m *MockSynthesizer) Calls() []SynthCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SynthCall(nil), m.calls...)
}

// Texts returns the text of each recorded call in order
func (m *MockSynthesizer) Texts() []string {
	calls := m.Calls()
	texts := make([]string, len(calls))
	for i, c := range calls {
		texts[i] = c.Text
	}
	return texts
}

// ErrMockFailure is a generic provider failure for tests
var ErrMockFailure = errors.New("mock synthesis failure")
