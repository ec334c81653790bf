package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ideawall/ideawall/internal/api"
	"github.com/ideawall/ideawall/internal/core/service"
	"github.com/ideawall/ideawall/internal/infrastructure/config"
	mongodb "github.com/ideawall/ideawall/internal/infrastructure/db/mongo"
	redisdb "github.com/ideawall/ideawall/internal/infrastructure/db/redis"
	"github.com/ideawall/ideawall/internal/infrastructure/queue"
	"github.com/ideawall/ideawall/pkg/logger"
)

// @title           ideawall API
// @version         1.0
// @description     Social idea sharing with follow-gated visibility.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting ideawall api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := ensureIndexes(ctx, client, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Relation event dispatcher ---
	eventRepo := mongodb.NewRelationEventRepository(db)
	eventService := service.NewRelationEventService(eventRepo, log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, eventService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(client, db, rdb, cfg.JWTSecret, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

func ensureIndexes(ctx context.Context, client *mongo.Client, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewFollowRepository(client, db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewIdeaRepository(db).EnsureIndexes(ctx)
}
