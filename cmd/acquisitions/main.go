package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acquisitions/internal/auth"
	"acquisitions/internal/config"
	"acquisitions/internal/db"
	"acquisitions/internal/httpserver"
	"acquisitions/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Environment)

	if cfg.UsingDefaultSecret() {
		if cfg.IsProduction() {
			log.Fatal("ACQ_JWT_SECRET must be set in production")
		}
		logger.Warn("using built-in development JWT secret; set ACQ_JWT_SECRET")
	}

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn); err != nil {
		log.Fatalf("migrate db: %v", err)
	}

	store := auth.NewStore(dbConn)
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(store, hasher, tokens)

	if cfg.SeedUsersPath != "" {
		if err := authSvc.SeedFromFile(ctx, cfg.SeedUsersPath); err != nil {
			log.Fatalf("seed users: %v", err)
		}
	}

	handler := httpserver.NewRouter(httpserver.RouterOptions{
		Logger:        logger,
		AuthService:   authSvc,
		CookieTTL:     cfg.TokenTTL,
		SecureCookies: cfg.IsProduction(),
	})
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
