package main

import (
	"context"
	"ctchen222/todo-api/internal/api/controller"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/api/service"
	"ctchen222/todo-api/internal/auth"
	"ctchen222/todo-api/internal/config"
	"ctchen222/todo-api/internal/db"
	"ctchen222/todo-api/internal/i18n"
	"ctchen222/todo-api/internal/logger"
	"ctchen222/todo-api/internal/server"
	"ctchen222/todo-api/internal/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()
	logger.Init(cfg.Server.Mode == gin.DebugMode)
	gin.SetMode(cfg.Server.Mode)

	msgs, err := i18n.New(cfg.Locale)
	if err != nil {
		return err
	}

	// Initialize SQLite DB
	DB, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer DB.Close()
	if err := db.Migrate(ctx, DB); err != nil {
		return err
	}

	// Create repositories
	userRepo := repository.NewUserRepository(DB)
	taskRepo := repository.NewTaskRepository(DB)

	var sessionRepo repository.SessionRepository
	if cfg.Auth.Strategy == config.StrategySession {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer rdb.Close()
		sessionRepo = repository.NewSessionRepository(rdb)
	}

	strategy, err := auth.New(cfg.Auth, userRepo, sessionRepo)
	if err != nil {
		return err
	}
	if cfg.Auth.Strategy == config.StrategyBearer {
		slog.Warn("Bearer tokens never expire and are never rotated; prefer the session or jwt strategy")
	}
	slog.Info("Authentication strategy selected", "strategy", strategy.Name())

	// Create services
	issuer, _ := strategy.(auth.RegistrationIssuer)
	userService := service.NewUserService(userRepo, issuer)
	taskService := service.NewTaskService(taskRepo)

	// Create controllers
	userController := controller.NewUserController(userService, strategy, msgs)
	taskController := controller.NewTaskController(taskService, msgs)

	srv, err := server.NewServer(strategy, msgs, userController, taskController)
	if err != nil {
		return err
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           otelhttp.NewHandler(srv.Engine(), "todo-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}
