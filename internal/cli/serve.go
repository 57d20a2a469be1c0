package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/gema-quiz-api/internal/config"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.AppPort = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides QUIZ_APP_PORT)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg)

	s, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	app, questions, err := buildApp(cfg, s, logger)
	if err != nil {
		return err
	}

	if cfg.SeedSamples {
		if seeded, err := questions.SeedSamples(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to seed sample questions")
		} else if seeded {
			logger.Info().Msg("question store was empty, sample questions written")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("storage", cfg.StorageDriver).Msg("starting quiz api")
		errCh <- app.Listen(cfg.HTTPAddress())
	}()

	return waitForShutdown(ctx, app, errCh, logger)
}

func waitForShutdown(ctx context.Context, app *fiber.App, errCh <-chan error, logger zerolog.Logger) error {
	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
