package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/vocabdeck/internal/cli"
	"codeberg.org/snonux/vocabdeck/internal/console"
	"codeberg.org/snonux/vocabdeck/internal/media"
	"codeberg.org/snonux/vocabdeck/internal/models"
	"codeberg.org/snonux/vocabdeck/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	detectCmd := cli.CreateDetectCommand()
	modelsCmd := cli.CreateModelsCommand()
	rootCmd.AddCommand(detectCmd, modelsCmd)

	fs := afero.NewOsFs()

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, fs, flags)
	}
	detectCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runDetect(cmd, fs, flags)
	}
	modelsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runModels(cmd, fs, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		console.Default(flags.LogLevel()).Error("Error: %v", err)
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, fs afero.Fs, flags *cli.Flags) error {
	log := console.Default(flags.LogLevel())

	cfg, err := cli.LoadConfig(fs, cmd, flags)
	if err != nil {
		return err
	}

	proc, err := processor.NewProcessor(cfg, fs, log)
	if err != nil {
		return err
	}

	_, err = proc.Run(cmd.Context())
	return err
}

func runDetect(cmd *cobra.Command, fs afero.Fs, flags *cli.Flags) error {
	log := console.Default(flags.LogLevel())

	// Detection works without a config file
	cfg, err := cli.LoadConfig(fs, cmd, flags)
	if err != nil {
		if !errors.Is(err, cli.ErrConfigNotFound) {
			return err
		}
		log.Debug("%v, using defaults", err)
	}

	resolver := media.NewOSResolver(fs)
	resolver.Profile = cfg.AnkiProfile

	// Nothing found is a normal answer here
	if _, err := processor.Detect(resolver, cfg.AnkiMediaPath, log); err != nil {
		log.Info("Audio would be saved to: %s", cfg.LocalMediaDir)
	}
	return nil
}

func runModels(cmd *cobra.Command, fs afero.Fs, flags *cli.Flags) error {
	cfg, err := cli.LoadConfig(fs, cmd, flags)
	if err != nil && !errors.Is(err, cli.ErrConfigNotFound) {
		return err
	}

	lister, err := models.NewLister(cli.GetOpenAIKey(cfg))
	if err != nil {
		return err
	}
	return lister.ListAvailableModels(cmd.Context(), cmd.OutOrStdout())
}
