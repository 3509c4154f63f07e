package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fakenews-features/internal/api"
	"fakenews-features/internal/config"
	"fakenews-features/internal/features"
	"fakenews-features/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serveCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var serveCmd = &cobra.Command{
	Use:           "features-server",
	Short:         "Serve feature extraction and corpus analysis over HTTP",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		var (
			cfg *config.Config
			err error
		)
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		l := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

		ext, err := features.NewFromFiles(cfg.Lexicon.StopwordsFile, cfg.Lexicon.SentimentLexiconFile)
		if err != nil {
			return err
		}

		if err := api.NewServer(cfg, ext, l).ListenAndServe(cmd.Context()); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		l.Infof("bye")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("config", "", "config file path (default: ./config/config.yaml)")
	serveCmd.Flags().String("addr", "", "listen address override (default: server.addr)")
}
