package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/cache"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/config"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/service"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/transport/rest"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/transport/telegram"
)

func main() {
	log.Println("started")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Repositories
	sessionRepo := repository.NewSessionRepo(db)
	questionRepo := repository.NewQuestionRepo(db)

	// Caches
	leaderboard := cache.NewLeaderboardCache(rdb)
	questionPool := cache.NewQuestionCache(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	sessionSvc := service.NewSessionService(sessionRepo, leaderboard, cfg.MaxQuestions)
	selectorSvc := service.NewSelectorService(questionRepo, sessionRepo, questionPool)
	evaluatorSvc := service.NewEvaluatorService(sessionRepo, sessionSvc, selectorSvc)

	// Management API
	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		Questions:   questionRepo,
		Leaderboard: leaderboard,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Management API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Telegram bot
	bot, err := telegram.NewBot(cfg.BotToken, sessionSvc, selectorSvc, evaluatorSvc, leaderboard, cfg.Modes)
	if err != nil {
		log.Fatal("Failed to create Telegram bot:", err)
	}

	botDone := make(chan error, 1)
	go func() {
		botDone <- bot.Run(ctx)
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Shutting down...")
	case err := <-botDone:
		if err != nil {
			log.Printf("Bot stopped: %v", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Bot exited")
}
