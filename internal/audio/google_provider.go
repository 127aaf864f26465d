package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// googleMaxChars is the longest text the translate_tts endpoint accepts per request
const googleMaxChars = 100

// GoogleProvider implements Synthesizer with the Google Translate TTS endpoint
type GoogleProvider struct {
	client  *http.Client
	baseURL string
}

// NewGoogleProvider creates a new Google Translate TTS provider
func NewGoogleProvider(config *Config) *GoogleProvider {
	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleProvider{
		client:  client,
		baseURL: strings.TrimSuffix(config.GoogleBaseURL, "/"),
	}
}

// Synthesize fetches MP3 audio for text. Long text is split into chunks
// and the MP3 bodies are concatenated, which players handle as one stream.
func (p *GoogleProvider) Synthesize(ctx context.Context, text, lang, accent string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, synthesisError(p.Name(), text, err)
	}
	if lang == "" {
		lang = "en"
	}

	chunks := splitText(strings.TrimSpace(text), googleMaxChars)
	var audio []byte
	for i, chunk := range chunks {
		data, err := p.fetch(ctx, chunk, lang, accent, i, len(chunks))
		if err != nil {
			return nil, synthesisError(p.Name(), text, err)
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (p *GoogleProvider) fetch(ctx context.Context, chunk, lang, accent string, idx, total int) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", chunk)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	endpoint := p.endpoint(accent) + "/translate_tts?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) vocabdeck")
	req.Header.Set("Referer", p.endpoint(accent)+"/")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received")
	}
	return data, nil
}

func (p *GoogleProvider) endpoint(accent string) string {
	if p.baseURL != "" {
		return p.baseURL
	}
	return GoogleHost(accent)
}

// GoogleHost returns the translate host for an accent TLD
func GoogleHost(accent string) string {
	accent = strings.Trim(strings.TrimSpace(accent), ".")
	if accent == "" {
		accent = "com"
	}
	return "https://translate.google." + accent
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable always succeeds; the endpoint needs no credentials
func (p *GoogleProvider) IsAvailable() error {
	return nil
}

// splitText breaks text into chunks of at most max runes, preferring
// whitespace boundaries and hard-splitting words that are too long
func splitText(text string, max int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > max {
			flush()
			chunks = append(chunks, string(runes[:max]))
			runes = runes[max:]
		}

		wordLen := len(runes)
		if currentLen > 0 && currentLen+1+wordLen > max {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += wordLen
	}
	flush()

	return chunks
}
