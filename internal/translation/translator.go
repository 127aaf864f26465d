package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// ChatClient is the subset of the OpenAI client the translator needs
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Translator produces concise meanings for words
type Translator struct {
	client ChatClient
	model  string
	cache  *Cache
}

// NewTranslator creates a new translator instance backed by the OpenAI API
func NewTranslator(apiKey string) (*Translator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}
	return NewTranslatorWithClient(openai.NewClient(apiKey)), nil
}

// NewTranslatorWithClient creates a translator around an existing chat client
func NewTranslatorWithClient(client ChatClient) *Translator {
	return &Translator{
		client: client,
		model:  openai.GPT4oMini,
		cache:  NewCache(),
	}
}

// Define returns a short meaning for word, written in English
func (t *Translator) Define(ctx context.Context, word, lang string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", fmt.Errorf("word cannot be empty")
	}
	if lang == "" {
		lang = "en"
	}

	key := lang + ":" + strings.ToLower(word)
	if meaning, ok := t.cache.Get(key); ok {
		return meaning, nil
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Give a concise English definition (at most 12 words) of the %s word '%s' for a flashcard. Respond with only the definition, nothing else.", lang, word),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no definition returned")
	}

	meaning := strings.TrimSpace(resp.Choices[0].Message.Content)
	meaning = strings.TrimSuffix(strings.TrimSpace(strings.Trim(meaning, `"`)), ".")
	if meaning == "" {
		return "", fmt.Errorf("no definition returned")
	}

	t.cache.Add(key, meaning)
	return meaning, nil
}

// Cache stores definitions in memory so repeated words cost one call
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates a new definition cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]string),
	}
}

// Add adds a definition to the cache
func (c *Cache) Add(key, meaning string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = meaning
}

// Get retrieves a definition from the cache
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meaning, ok := c.entries[key]
	return meaning, ok
}

// Len returns the number of cached definitions
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
