package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GFT-POC/Ollama-Chat/internal/ai"
	cfgpkg "github.com/GFT-POC/Ollama-Chat/internal/config"
	"github.com/GFT-POC/Ollama-Chat/internal/utils"
)

var (
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Diagnostic logger on stderr; Debug level with --debug
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   "ollama-chat",
	Short: "Chat with local Ollama models from the terminal",
	Long: `ollama-chat is a terminal chat client for a local Ollama runtime.

Each request carries as much of the conversation as fits in the selected
model's context window; the oldest turns are dropped first. Switching to a
model with a larger window brings earlier turns back into context.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ollama-chat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max attempts on network errors/5xx, 1 disables retries (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	logger = newLogger(os.Stderr, debug)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.OllamaTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	logger.Debug("config loaded", "file", cfgFile, "default_model", cfg.DefaultModel, "ollama_host", cfg.OllamaHost, "tokenizer", cfg.Tokenizer)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadCatalog builds the model catalog from the built-in profiles and the configured override file.
func loadCatalog() (*ai.Catalog, error) {
	return loadCatalogFrom(cfg)
}

func loadCatalogFrom(c *cfgpkg.Global) (*ai.Catalog, error) {
	if c == nil || c.ModelsCatalog == "" {
		return ai.DefaultCatalog(), nil
	}
	path, err := utils.ExpandHome(c.ModelsCatalog)
	if err != nil {
		return nil, err
	}
	return ai.LoadCatalog(path, c.ModelsMerge)
}

// newOllamaClient builds the backend client from config, with host and timeout overrides.
func newOllamaClient(host string, timeoutSec int) *ai.OllamaClient {
	var (
		retryMax            int
		baseDelay, maxDelay time.Duration
	)
	if cfg != nil {
		if host == "" {
			host = cfg.OllamaHost
		}
		retryMax = cfg.RetryMaxAttempts
		baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
	}
	return ai.NewOllamaClient(host, requestTimeout(timeoutSec), retryMax, baseDelay, maxDelay)
}

// requestTimeout resolves the per-request timeout: the flag when set, otherwise config.
func requestTimeout(flagSec int) time.Duration {
	if flagSec <= 0 && cfg != nil {
		flagSec = cfg.OllamaTimeoutSec
	}
	return time.Duration(flagSec) * time.Second
}
