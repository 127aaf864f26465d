package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Synthesizer for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.OpenAIBaseURL, "/")
	}
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Synthesize requests MP3 speech for text from the OpenAI speech endpoint
func (p *OpenAIProvider) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	// Only the instructable models accept an accent hint
	if supportsInstructions(p.config.OpenAIModel) {
		req.Instructions = fmt.Sprintf("Pronounce this clearly and slowly, as a dictionary entry, with a native %s accent.", Locale(lang, accent))
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") && supportsInstructions(p.config.OpenAIModel) {
			err = fmt.Errorf("%w (the %s model requires access, try openai_model tts-1-hd)", err, p.config.OpenAIModel)
		}
		return nil, synthesisError(p.Name(), text, fmt.Errorf("OpenAI TTS API error: %w", err))
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, synthesisError(p.Name(), text, fmt.Errorf("failed to read audio: %w", err))
	}
	if len(data) == 0 {
		return nil, synthesisError(p.Name(), text, fmt.Errorf("no audio data received from OpenAI"))
	}
	return data, nil
}

func supportsInstructions(model string) bool {
	return model == "gpt-4o-mini-tts" || model == "gpt-4o-mini-audio-preview"
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is configured
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// A test call would use credits, so only the key is checked
	return nil
}
