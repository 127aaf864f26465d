// Package cli provides command-line interface setup and configuration
// for vocabdeck. It creates the cobra commands and loads the JSON config
// file through viper, layering environment variables and flags on top.
package cli
