// Listening2go generates CEFR-levelled two-speaker listening dialogues and
// renders them to WAV audio with a multi-speaker text-to-speech model.
//
// Usage:
//
//	listening2go serve [--config /path/to/listening2go.yaml]
//	listening2go generate --topic "At the airport" --level B1 --out dialogue.wav
//	listening2go version
//
// A .env file in the working directory is loaded before configuration, so
// GEMINI_API_KEY can be kept there during development.
//
// @title       listening2go API
// @version     1.0
// @description Generates CEFR-levelled two-speaker listening dialogues and renders them to WAV audio.
// @BasePath    /
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nadzzz/listening2go/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "listening2go",
	Short:         "CEFR listening dialogue generator",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("listening2go %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/listening2go.yaml)")
	rootCmd.AddCommand(serveCmd, generateCmd, versionCmd)
}

// loadConfig loads configuration and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	config.SetupLogging(cfg.Logging)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
