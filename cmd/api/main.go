package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"crypto-dash/internal/config"
	"crypto-dash/internal/db"
	apihttp "crypto-dash/internal/http"
	"crypto-dash/internal/logger"
	"crypto-dash/internal/market"
	"crypto-dash/internal/repository"
	"crypto-dash/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	zlog := logger.New(cfg)
	defer zlog.Sync()

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			zlog.Fatal("JWT_SECRET is required in production")
		}
		zlog.Warn("jwt secret not configured, sessions will be rejected")
	}

	var (
		userRepo repository.UserRepository
		favRepo  repository.FavoriteRepository
	)
	switch {
	case cfg.DatabaseURL != "":
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			zlog.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			zlog.Fatal("db ping", zap.Error(err))
		}
		userRepo = repository.NewPgUserRepository(pool)
		favRepo = repository.NewPgFavoriteRepository(pool)
		zlog.Info("using postgres persistence")
	case cfg.DataDir != "":
		store, err := repository.NewFileStore(cfg.DataDir)
		if err != nil {
			zlog.Fatal("file store init", zap.Error(err))
		}
		userRepo = store
		favRepo = store
		zlog.Info("using file persistence", zap.String("dir", cfg.DataDir))
	default:
		store := repository.NewMemoryStore()
		userRepo = store
		favRepo = store
		zlog.Warn("using in-memory persistence, data is lost on restart")
	}

	var limiter service.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			zlog.Warn("redis ping failed, falling back to memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, 15*time.Minute, 5)
		}
		cancel()
	}
	if limiter == nil {
		limiter = service.NewRateLimiter(15*time.Minute, 5)
	}

	userSvc := service.NewUserService(zlog, userRepo, favRepo, limiter)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, service.SessionTTL)
	marketSvc := market.NewService(zlog, market.NewClient(cfg.CoinGeckoURL))

	cookieOpts := apihttp.CookieOptions{
		MaxAge: int(service.SessionTTL.Seconds()),
		Secure: cfg.IsProduction(),
	}
	authHandler := apihttp.NewAuthHandler(zlog, userSvc, jwtSvc, cookieOpts)
	userHandler := apihttp.NewUserHandler(zlog, userSvc)
	favHandler := apihttp.NewFavoritesHandler(zlog, userSvc)
	cryptoHandler := apihttp.NewCryptoHandler(zlog, marketSvc)
	router := apihttp.NewRouter(zlog, jwtSvc, cookieOpts, authHandler, userHandler, favHandler, cryptoHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
}
