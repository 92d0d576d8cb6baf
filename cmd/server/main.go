package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/publishcms/publish-api/internal/api"
	"github.com/publishcms/publish-api/internal/core/domain"
	"github.com/publishcms/publish-api/internal/core/service"
	"github.com/publishcms/publish-api/internal/infrastructure/config"
	mongodb "github.com/publishcms/publish-api/internal/infrastructure/db/mongo"
	redisdb "github.com/publishcms/publish-api/internal/infrastructure/db/redis"
	"github.com/publishcms/publish-api/pkg/logger"
)

// @title          publish-api
// @version        1.0
// @description    Headless publishing backend: posts, tags, users and sessions.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// optional .env for local development; real deployments set the
	// environment directly
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not up yet
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	if err := ensureAdmin(ctx, db, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureAdmin seeds the first admin account from the environment so a fresh
// deployment is administrable. A no-op once the username exists or when no
// bootstrap password is configured.
func ensureAdmin(ctx context.Context, db *mongo.Database, cfg *config.Config, log zerolog.Logger) error {
	if cfg.Bootstrap.AdminPassword == "" {
		return nil
	}

	users := mongodb.NewUserRepository(db)
	if _, err := users.FindByUsername(ctx, cfg.Bootstrap.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, log)
	email := cfg.Bootstrap.AdminEmail
	if email == "" {
		email = cfg.Bootstrap.AdminUsername + "@localhost"
	}

	if _, err := auth.Register(ctx, cfg.Bootstrap.AdminUsername, email, cfg.Bootstrap.AdminPassword, domain.RoleAdmin); err != nil {
		return err
	}

	log.Info().Str("username", cfg.Bootstrap.AdminUsername).Msg("bootstrap admin created")
	return nil
}
