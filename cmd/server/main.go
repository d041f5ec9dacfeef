package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"typerace/internal/cache"
	"typerace/internal/config"
	"typerace/internal/quote"
	"typerace/internal/repository"
	"typerace/internal/service"
	"typerace/internal/transport/rest"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	ctx := context.Background()
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Msg("connected to Redis")

	// Initialize repositories
	roomRepo := repository.NewRoomRepo(db)
	playerRepo := repository.NewPlayerRepo(db)

	// Initialize caches
	codes := cache.NewCodeIndex(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)
	identity := cache.NewIdentityCache(rdb)

	// Reference texts: external fetch when configured, curated pool otherwise
	var quotes quote.Provider = quote.NewPoolProvider(nil)
	if cfg.QuoteAPIURL != "" {
		quotes = quote.NewHTTPProvider(cfg.QuoteAPIURL)
	}

	clock := clockwork.NewRealClock()

	// Initialize services
	authSvc := service.NewAuthService()
	roomSvc := service.NewRoomService(roomRepo, playerRepo, codes, quotes, clock)
	playerSvc := service.NewPlayerService(roomRepo, playerRepo, leaderboard, identity, authSvc, clock)

	router := rest.NewRouter(&rest.Container{
		AuthService:   authSvc,
		RoomService:   roomSvc,
		PlayerService: playerSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
