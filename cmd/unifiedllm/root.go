package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "unifiedllm",
	Short: "unifiedllm - one chat interface for OpenAI, Anthropic and Gemini",
	Long: `unifiedllm sends chat requests to several LLM vendors through a single
request/response model and error taxonomy.

Providers:
  - openai     (OPENAI_API_KEY)
  - anthropic  (ANTHROPIC_API_KEY)
  - gemini     (GEMINI_API_KEY)

Every call is logged, measured, traced and recorded in a local history
database according to the configuration file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// error kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}

// loadConfig loads the configuration with UNIFIEDLLM_* overrides and installs
// the process logger.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, cli.NewConfigError("", "configuration is not initialized")
	}

	if err := setupLogging(cfg.Telemetry.Logging, verbose); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg config.LoggingConfig, debug bool) error {
	level := cfg.Level
	if debug {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:          level,
		Format:         cfg.Format,
		AddSource:      cfg.AddSource,
		RedactSecrets:  cfg.RedactSecrets,
		RedactPatterns: cfg.RedactPatterns,
		Writer:         os.Stderr,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return nil
}
