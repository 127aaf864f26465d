package phonetic

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ChatClient is the subset of the OpenAI client the fetcher needs
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Fetcher handles fetching IPA transcriptions for words
type Fetcher struct {
	client ChatClient
	model  string
}

// NewFetcher creates a new phonetic fetcher backed by the OpenAI API
func NewFetcher(apiKey string) (*Fetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}
	return NewFetcherWithClient(openai.NewClient(apiKey)), nil
}

// NewFetcherWithClient creates a fetcher around an existing chat client
func NewFetcherWithClient(client ChatClient) *Fetcher {
	return &Fetcher{
		client: client,
		model:  openai.GPT4oMini,
	}
}

// FetchIPA returns the IPA transcription of word, wrapped in slashes
func (f *Fetcher) FetchIPA(ctx context.Context, word, lang string) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", fmt.Errorf("word cannot be empty")
	}
	if lang == "" {
		lang = "en"
	}

	req := openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phonetics expert. Answer with the broad IPA transcription only, enclosed in slashes, with stress marks and no explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("IPA transcription of the %s word '%s'", lang, word),
			},
		},
		Temperature: 0.1,
		MaxTokens:   60,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return normalizeIPA(resp.Choices[0].Message.Content), nil
}

// normalizeIPA keeps the first line of a reply and wraps it in slashes
func normalizeIPA(reply string) string {
	ipa, _, _ := strings.Cut(strings.TrimSpace(reply), "\n")
	ipa = strings.Trim(strings.TrimSpace(ipa), "`\"'[]/")
	ipa = strings.TrimSpace(ipa)
	if ipa == "" {
		return ""
	}
	return "/" + ipa + "/"
}
