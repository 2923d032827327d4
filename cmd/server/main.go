package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/auth"
	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/config"
	"github.com/SinghAman21/spendsplit/internal/parser"
	"github.com/SinghAman21/spendsplit/internal/service"
	"github.com/SinghAman21/spendsplit/internal/storage/sqlite"
	"github.com/SinghAman21/spendsplit/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	ctx := context.Background()
	redisCache := cache.New(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer redisCache.Close()
	if redisCache.Enabled() {
		slog.Info("Cache enabled", "addr", cfg.RedisAddr)
	}

	keys := auth.NewJWKSProvider(time.Hour)
	lookup := auth.NewProviderClient(cfg.ProviderAPIURL, cfg.ProviderSecretKey)
	verifier := auth.NewVerifier(keys, lookup, store, redisCache)

	parserClient := parser.New(cfg.ParserURL)
	if cfg.ParserURL == "" {
		slog.Warn("PARSER_URL not set, AI expense creation disabled")
	}

	router := service.NewRouter(store, redisCache, verifier, parserClient)

	addr := ":" + cfg.AppPort
	slog.Info("Server starting", "address", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
