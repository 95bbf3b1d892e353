package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ratings/internal/api"
	"github.com/wonny/ratings/internal/api/handlers"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/config"
	"github.com/wonny/ratings/pkg/database"
	"github.com/wonny/ratings/pkg/logger"
	"github.com/wonny/ratings/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the read-only REST API over the latest rating and screen
snapshots.

Endpoints:
  GET /health
  GET /api/ratings/top
  GET /api/ratings/{ticker}
  GET /api/screens
  GET /api/screens/{name}

Example:
  go run ./cmd/ratings api
  go run ./cmd/ratings api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "ratings")

	st := store.New(db.Pool)
	if err := store.EnsureSchema(context.Background(), db.Pool); err != nil {
		return err
	}

	ratingHandler := handlers.NewRatingHandler(st, cache, log)
	screenHandler := handlers.NewScreenHandler(st, cache, log)
	router := api.NewRouter(ratingHandler, screenHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
