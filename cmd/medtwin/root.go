package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/config"
	"github.com/medtwin/medtwin/internal/home"
	"github.com/medtwin/medtwin/version"
)

var (
	cfgFile      string
	envFile      string
	homeDir      string
	outputFormat string
	logFormat    string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "medtwin",
	Short: "Medical PDF analysis with a generative model",
	Long: `MedTwin forwards medical PDF documents to a generative model and returns
structured findings, labs and medications, or a page-by-page transcript.

Extracted reports can be grouped by body region and summarized:
  - medtwin serve              run the HTTP API
  - medtwin api analyze x.pdf  call a running server
  - medtwin summarize r.json   summarize an extracted report offline`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.medtwin/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", "", "dotenv file with API keys (default: ./.env when present)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "medtwin home directory (default: ~/.medtwin)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", "", "log format: text or json (default from config)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads configuration, preferring a config file in the home
// directory when no --config is given.
func loadConfig(h *home.Dir) (*config.Config, error) {
	path := cfgFile
	if path == "" && h != nil && h.ConfigExists() {
		path = h.ConfigPath()
	}
	return config.Load(path, envFile)
}

// newLogger builds the process logger. Flags override the config file.
func newLogger(w io.Writer, cfg config.LogCfg) (*slog.Logger, error) {
	format := cfg.Format
	if logFormat != "" {
		format = logFormat
	}
	levelName := cfg.Level
	if logLevel != "" {
		levelName = logLevel
	}
	if levelName == "" {
		levelName = "info"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}
