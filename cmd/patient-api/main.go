package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projeto_nfc/internal/api"
	"projeto_nfc/internal/app/service"
	"projeto_nfc/internal/common/security"
	"projeto_nfc/internal/domain/repository"
	"projeto_nfc/internal/platform/config"
	"projeto_nfc/internal/platform/logging"
	"projeto_nfc/internal/platform/ratelimit"
	"projeto_nfc/internal/platform/redisdb"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadPatientAPI()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()
	logger.Info(ctx, "configuration loaded")

	// 2. Initialize the admin token verifier
	publicKey, err := cfg.AuthPublicKeyPEM()
	if err != nil {
		log.Fatalf("Could not read auth public key: %v", err)
	}
	var hmacSecret []byte
	if cfg.AuthSigningKey != "" {
		hmacSecret = []byte(cfg.AuthSigningKey)
	}
	verifier, err := security.NewTokenVerifier(security.VerifierOptions{
		HMACSecret:      hmacSecret,
		RSAPublicKeyPEM: publicKey,
		Issuer:          cfg.AuthIssuer,
		Audience:        cfg.AuthAudience,
		RequiredRole:    cfg.AuthRequiredRole,
	})
	if err != nil {
		log.Fatalf("Could not initialize token verifier: %v", err)
	}

	// 3. Initialize Redis
	rdb, err := redisdb.Connect(ctx, cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer rdb.Close()
	logger.Info(ctx, "redis connected", "addr", cfg.RedisAddr)

	// 4. Repositories and services
	recordRepo := repository.NewRedisRecordRepository(rdb, cfg.RecordKeyPrefix)
	recordService := service.NewRecordService(recordRepo, logger)

	deps := api.PatientRouterDeps{
		RecordService: recordService,
		Auth:          verifier,
		Log:           logger,
	}
	if cfg.UnlockRateLimit > 0 {
		deps.UnlockLimiter = ratelimit.New(rdb, "unlock", cfg.UnlockRateLimit, cfg.RateLimitWindow)
		logger.Info(ctx, "unlock throttling enabled", "limit", cfg.UnlockRateLimit, "window", cfg.RateLimitWindow)
	}

	// 5. Router & HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewPatientRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info(ctx, "shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info(ctx, "server stopped gracefully")
}
