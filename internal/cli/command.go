package cli

import (
	"github.com/spf13/cobra"

	"codeberg.org/snonux/vocabdeck/internal"
	"codeberg.org/snonux/vocabdeck/internal/console"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vocabdeck",
		Short: "Anki vocabulary deck generator with TTS audio",
		Long: `vocabdeck turns a vocabulary list into an Anki import file.

Every word gets a pronunciation MP3 from a text-to-speech service. Audio goes
straight into the Anki media folder when one is found, otherwise into a local
directory you copy into Anki by hand. Words that already have audio are not
synthesized again.

Examples:
  vocabdeck                          # Use ./config.json
  vocabdeck --config deck.json       # Use another config file
  vocabdeck --input words.txt --apkg output/deck.apkg
  vocabdeck detect                   # Show where Anki media would go
  vocabdeck models                   # List OpenAI TTS models`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", flags.CfgFile, "JSON config file")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Show debug output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Only show warnings, errors and the summary")
	cmd.PersistentFlags().StringVar(&flags.MediaPath, "media-path", "", `Anki collection.media path or "auto" (config: anki_media_path)`)
	cmd.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Anki profile to use during auto-detection (config: anki_profile)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Vocabulary file, .json or .txt (config: input_file)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Import file to write (config: output_file)")
	cmd.Flags().StringVarP(&flags.Provider, "provider", "p", "", "TTS provider: google, openai, gemini, espeak (config: tts_provider)")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "TTS provider used when the primary fails (config: tts_fallback)")
	cmd.Flags().StringVar(&flags.Lang, "lang", "", "TTS language code (config: tts_lang)")
	cmd.Flags().StringVar(&flags.TLD, "tld", "", "Accent as a Google top-level domain, e.g. co.uk, com.au (config: tts_tld)")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Target Anki deck (config: deck_name)")
	cmd.Flags().StringVar(&flags.NoteType, "note-type", "", "Target Anki note type (config: note_type)")
	cmd.Flags().StringVar(&flags.APKG, "apkg", "", "Also write an .apkg package to this path (config: apkg_file)")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move an existing import file into archive/ first (config: archive_output)")
	cmd.Flags().BoolVar(&flags.FillMissing, "fill-missing", false, "Fill empty IPA and meaning fields via OpenAI (config: fill_missing)")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// CreateDetectCommand creates the command that reports Anki media detection
func CreateDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show candidate Anki directories, profiles and the resolved media path",
		Args:  cobra.NoArgs,
	}
}

// CreateModelsCommand creates the command that lists OpenAI models
func CreateModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI models usable for speech and chat with the configured key",
		Args:  cobra.NoArgs,
	}
}

// LogLevel returns the console verbosity selected by the flags
func (f *Flags) LogLevel() console.Level {
	switch {
	case f.Quiet:
		return console.LevelQuiet
	case f.Verbose:
		return console.LevelVerbose
	default:
		return console.LevelNormal
	}
}
