package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	_ "github.com/quillhub/blog/docs"
	"github.com/quillhub/blog/internal/app"
	mongodb "github.com/quillhub/blog/internal/infrastructure/db/mongo"
	"github.com/quillhub/blog/internal/pkg/config"
	"github.com/quillhub/blog/pkg/logger"
)

// @title                       Blog API
// @version                     1.0
// @description                 Multi-user blog: posts, subscriptions and feeds.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "blog",
	Short:         "Multi-user blog API server",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load() // load .env if present
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, log, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer func() {
			if err := a.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("closing storage")
			}
		}()

		return a.Run(ctx)
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes the server relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		client, db, err := app.ConnectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}

func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "blog",
	})
	return cfg, log, nil
}

func init() {
	rootCmd.AddCommand(serveCmd, indexesCmd)
}
