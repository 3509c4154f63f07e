// Command features extracts linguistic features from news articles and
// compares their distributions between fake and true news.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fakenews-features/internal/config"
	"fakenews-features/internal/features"
	"fakenews-features/pkg/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfg *config.Config
	log *logger.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "features",
	Short:         "Linguistic feature extraction for fake news analysis",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		log = logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(fetchCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "features %s (commit %s)\n", version, commit)
	},
}

// newExtractor builds the extractor from the lexicon overrides in cfg.
// Any failure here is fatal for the command.
func newExtractor() (*features.Extractor, error) {
	return features.NewFromFiles(cfg.Lexicon.StopwordsFile, cfg.Lexicon.SentimentLexiconFile)
}

// openOutput returns stdout for an empty path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
