package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabdeck/internal/audio"
)

// EnvPrefix is prepended to config keys when read from the environment,
// e.g. VOCABDECK_TTS_PROVIDER
const EnvPrefix = "VOCABDECK"

// ErrConfigNotFound means the config file does not exist
var ErrConfigNotFound = errors.New("config file not found")

// Config is the run configuration, loaded once and not changed afterwards
type Config struct {
	AnkiMediaPath string `mapstructure:"anki_media_path"`
	InputFile     string `mapstructure:"input_file"`
	OutputFile    string `mapstructure:"output_file"`
	TTSLang       string `mapstructure:"tts_lang"`
	TTSTLD        string `mapstructure:"tts_tld"`
	NoteType      string `mapstructure:"note_type"`
	DeckName      string `mapstructure:"deck_name"`

	TTSProvider        string `mapstructure:"tts_provider"`
	TTSFallback        string `mapstructure:"tts_fallback"`
	TTSDelayMS         int    `mapstructure:"tts_delay_ms"`
	TTSTimeoutSec      int    `mapstructure:"tts_timeout_sec"`
	TTSBreakerFailures int    `mapstructure:"tts_breaker_failures"`

	OpenAIModel  string  `mapstructure:"openai_model"`
	OpenAIVoice  string  `mapstructure:"openai_voice"`
	OpenAISpeed  float64 `mapstructure:"openai_speed"`
	OpenAIAPIKey string  `mapstructure:"openai_api_key"`
	GeminiModel  string  `mapstructure:"gemini_model"`
	GeminiVoice  string  `mapstructure:"gemini_voice"`
	GeminiAPIKey string  `mapstructure:"gemini_api_key"`

	AnkiProfile   string `mapstructure:"anki_profile"`
	LocalMediaDir string `mapstructure:"local_media_dir"`
	APKGFile      string `mapstructure:"apkg_file"`
	ArchiveOutput bool   `mapstructure:"archive_output"`
	FillMissing   bool   `mapstructure:"fill_missing"`
}

// defaults holds the value of every config key that has one
var defaults = map[string]any{
	"anki_media_path":      "auto",
	"input_file":           filepath.Join("data", "vocab.json"),
	"output_file":          filepath.Join("output", "import_to_anki.txt"),
	"tts_lang":             "en",
	"tts_tld":              "co.uk",
	"note_type":            "Basic",
	"deck_name":            "Default",
	"tts_provider":         "google",
	"tts_fallback":         "",
	"tts_delay_ms":         300,
	"tts_timeout_sec":      0,
	"tts_breaker_failures": 5,
	"openai_model":         "gpt-4o-mini-tts",
	"openai_voice":         "alloy",
	"openai_speed":         1.0,
	"openai_api_key":       "",
	"gemini_model":         "gemini-2.5-flash-preview-tts",
	"gemini_voice":         "Kore",
	"gemini_api_key":       "",
	"anki_profile":         "",
	"local_media_dir":      filepath.Join("output", "media"),
	"apkg_file":            "",
	"archive_output":       false,
	"fill_missing":         false,
}

// flagKeys maps flag names to the config keys they override
var flagKeys = map[string]string{
	"input":        "input_file",
	"output":       "output_file",
	"media-path":   "anki_media_path",
	"profile":      "anki_profile",
	"provider":     "tts_provider",
	"fallback":     "tts_fallback",
	"lang":         "tts_lang",
	"tld":          "tts_tld",
	"deck-name":    "deck_name",
	"note-type":    "note_type",
	"apkg":         "apkg_file",
	"archive":      "archive_output",
	"fill-missing": "fill_missing",
}

// LoadConfig reads the JSON config file named by flags.CfgFile from fs and
// merges it with the environment and the command-line flags of cmd. Flags
// win over the environment, which wins over the file. When the file does not
// exist the error wraps ErrConfigNotFound and the returned Config holds the
// defaults with environment and flags applied.
func LoadConfig(fs afero.Fs, cmd *cobra.Command, flags *Flags) (*Config, error) {
	cfgFile := flags.CfgFile
	if cfgFile == "" {
		cfgFile = DefaultConfigFile
	}

	v := viper.New()
	v.SetFs(fs)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return nil, err
		}
	}

	if _, err := fs.Stat(cfgFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to access config file: %w", err)
		}
		// Callers that can live without the file still get the defaults
		cfg, uerr := unmarshal(v)
		if uerr != nil {
			return nil, uerr
		}
		return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, cfgFile)
	}

	v.SetConfigFile(cfgFile)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks values that would otherwise fail late in the run
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input_file must not be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file must not be empty")
	}
	if c.TTSDelayMS < 0 {
		return fmt.Errorf("tts_delay_ms must not be negative")
	}
	if c.TTSTimeoutSec < 0 {
		return fmt.Errorf("tts_timeout_sec must not be negative")
	}
	if c.TTSBreakerFailures < 0 {
		return fmt.Errorf("tts_breaker_failures must not be negative")
	}
	if c.OpenAISpeed < 0.25 || c.OpenAISpeed > 4.0 {
		return fmt.Errorf("openai_speed must be between 0.25 and 4.0, got %g", c.OpenAISpeed)
	}
	return nil
}

// Delay is the pause after each synthesis call; negative means none
func (c *Config) Delay() time.Duration {
	if c.TTSDelayMS <= 0 {
		return -1
	}
	return time.Duration(c.TTSDelayMS) * time.Millisecond
}

// Timeout is the per-call synthesis timeout; zero means none
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TTSTimeoutSec) * time.Second
}

// AudioConfig translates the run configuration into synthesizer settings
func (c *Config) AudioConfig() *audio.Config {
	ac := audio.DefaultProviderConfig()
	ac.Provider = c.TTSProvider
	ac.Fallback = c.TTSFallback
	ac.Timeout = c.Timeout()
	ac.BreakerFailures = c.TTSBreakerFailures
	ac.OpenAIKey = GetOpenAIKey(c)
	ac.GeminiKey = GetGeminiKey(c)
	if c.OpenAIModel != "" {
		ac.OpenAIModel = c.OpenAIModel
	}
	if c.OpenAIVoice != "" {
		ac.OpenAIVoice = c.OpenAIVoice
	}
	if c.OpenAISpeed != 0 {
		ac.OpenAISpeed = c.OpenAISpeed
	}
	if c.GeminiModel != "" {
		ac.GeminiModel = c.GeminiModel
	}
	if c.GeminiVoice != "" {
		ac.GeminiVoice = c.GeminiVoice
	}
	return ac
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey(cfg *Config) string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	if cfg == nil {
		return ""
	}
	return cfg.OpenAIAPIKey
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey(cfg *Config) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	if cfg == nil {
		return ""
	}
	return cfg.GeminiAPIKey
}
