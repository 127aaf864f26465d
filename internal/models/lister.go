package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ModelClient is the subset of the OpenAI client the lister needs
type ModelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Catalog holds model IDs grouped by what vocabdeck can use them for
type Catalog struct {
	TTS  []string
	Chat []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	client ModelClient
}

// NewLister creates a new model lister
func NewLister(apiKey string) (*Lister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or openai_api_key in config.json")
	}
	return NewListerWithClient(openai.NewClient(apiKey)), nil
}

// NewListerWithClient creates a lister around an existing client
func NewListerWithClient(client ModelClient) *Lister {
	return &Lister{client: client}
}

// Catalog fetches the model list and categorizes it
func (l *Lister) Catalog(ctx context.Context) (Catalog, error) {
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	return Categorize(ids), nil
}

// Categorize sorts model IDs into speech and chat models, dropping the rest
func Categorize(ids []string) Catalog {
	var catalog Catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			catalog.TTS = append(catalog.TTS, id)
		case strings.Contains(id, "transcribe"), strings.Contains(id, "realtime"), strings.Contains(id, "audio"):
			// speech input models, not usable for either purpose
		case strings.HasPrefix(id, "gpt-"):
			catalog.Chat = append(catalog.Chat, id)
		}
	}

	sort.Strings(catalog.TTS)
	sort.Strings(catalog.Chat)
	return catalog
}

// ListAvailableModels writes the categorized model list to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Catalog(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models (openai_model):")
	if len(catalog.TTS) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range catalog.TTS {
		fmt.Fprintf(w, "  %s\n", model)
	}

	fmt.Fprintln(w, "\nChat Models (for fill_missing):")
	if len(catalog.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range catalog.Chat {
		fmt.Fprintf(w, "  %s\n", model)
	}

	return nil
}
