package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order_api/internal/api"
	"order_api/internal/app/service"
	"order_api/internal/common"
	"order_api/internal/common/security"
	"order_api/internal/domain/repository"
	"order_api/internal/platform/config"
	"order_api/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 2. Initialize Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	logger.Info("database ready")

	// 3. Initialize Token Manager
	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	orderRepo := repository.NewPgOrderRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo, tokens)
	orderService := service.NewOrderService(orderRepo)

	// 6. Initialize Router & HTTP Server
	errTranslator := common.NewErrorTranslator(logger, !cfg.IsProduction())
	router := api.NewRouter(authService, orderService, tokens, errTranslator)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	logger.Info("server stopped gracefully")
}
