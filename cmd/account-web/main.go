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
	"projeto_nfc/internal/api/handler"
	"projeto_nfc/internal/app/service"
	"projeto_nfc/internal/domain/repository"
	"projeto_nfc/internal/platform/config"
	"projeto_nfc/internal/platform/database"
	"projeto_nfc/internal/platform/logging"
	"projeto_nfc/internal/platform/ratelimit"
	"projeto_nfc/internal/platform/redisdb"
	"projeto_nfc/internal/platform/session"

	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadAccountWeb()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()
	logger.Info(ctx, "configuration loaded", "db_driver", cfg.DBDriver, "session_backend", cfg.SessionBackend)

	// 2. Initialize Database
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Could not open database: %v", err)
	}
	defer db.Close()
	if err := repository.EnsureAccountsTable(ctx, db, cfg.DBDriver); err != nil {
		log.Fatalf("Could not prepare accounts table: %v", err)
	}
	logger.Info(ctx, "database connected")

	// 3. Initialize Redis, only when a component needs it
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb, err = redisdb.Connect(ctx, cfg.RedisConfig)
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		logger.Info(ctx, "redis connected", "addr", cfg.RedisAddr)
	}

	// 4. Sessions
	cookieOpts := session.CookieOptions{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}
	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		sessions = session.NewRedisStore(rdb, cookieOpts)
	default:
		sessions = session.NewCookieStore([]byte(cfg.SessionSecret), cookieOpts)
	}

	pages, err := handler.NewPages()
	if err != nil {
		log.Fatalf("Could not load templates: %v", err)
	}

	// 5. Repositories and services
	accountRepo := repository.NewSQLAccountRepository(db, cfg.DBDriver)
	accountService := service.NewAccountService(accountRepo, logger)

	deps := api.AccountRouterDeps{
		AccountService: accountService,
		Sessions:       sessions,
		Pages:          pages,
		SecureCookies:  cfg.CookieSecure,
		Log:            logger,
	}
	if cfg.LoginRateLimit > 0 {
		deps.LoginLimiter = ratelimit.New(rdb, "login", cfg.LoginRateLimit, cfg.RateLimitWindow)
		logger.Info(ctx, "login throttling enabled", "limit", cfg.LoginRateLimit, "window", cfg.RateLimitWindow)
	}

	// 6. Router & HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.WebPort,
		Handler:      api.NewAccountRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "server starting", "port", cfg.WebPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.WebPort, err)
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
