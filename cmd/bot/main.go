package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"discoBot/internal/app/runtime"
	"discoBot/internal/infrastructure/config"
	"discoBot/internal/infrastructure/logging"
)

type rootOptions struct {
	envFiles []string
	prefix   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "discobot",
		Short:         "discoBot - a Discord bot with trivia, weather, pokedex and anime lookups",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv file(s) to load before reading the environment (default .env)")
	flags.StringVar(&opts.prefix, "prefix", "", "command prefix (overrides BOT_PREFIX)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.envFiles...)
	if err != nil {
		return nil, err
	}
	if opts.prefix != "" {
		cfg.CommandPrefix = opts.prefix
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := runtime.Start(ctx, runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- rt.Wait() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-waitErr:
		if err != nil {
			logger.Error("runtime failed", zap.Error(err))
		}
	}

	return rt.Stop()
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
