package audio

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini speech models return raw 24kHz 16-bit mono PCM
const (
	geminiSampleRate = 24000
	geminiBitDepth   = 16
	geminiChannels   = 1
)

// GeminiProvider implements Synthesizer with the Gemini TTS models
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(config *Config) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.GeminiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}
	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// Synthesize asks Gemini for spoken audio and transcodes the PCM reply to MP3
func (p *GeminiProvider) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}

	locale := Locale(lang, accent)
	prompt := fmt.Sprintf("Say clearly, with a native %s accent: %s", locale, strings.TrimSpace(text))

	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: locale,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.config.GeminiVoice},
			},
		},
	})
	if err != nil {
		return nil, synthesisError(p.Name(), text, fmt.Errorf("Gemini TTS API error: %w", err))
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return nil, synthesisError(p.Name(), text, fmt.Errorf("no audio data received from Gemini"))
	}

	wavData, err := pcmToWAV(pcm, geminiSampleRate, geminiBitDepth, geminiChannels)
	if err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}
	mp3, err := transcodeToMP3(ctx, p.config.FFmpegPath, wavData)
	if err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}
	return mp3, nil
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that an API key and ffmpeg are present
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return checkTool(p.config.FFmpegPath)
}
