package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/config"
	"example.com/ai-travel-planner/internal/database"
	"example.com/ai-travel-planner/internal/repository"
	"example.com/ai-travel-planner/internal/server"
)

const tokenPruneInterval = time.Hour

func main() {
	ensureEnvFile()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.MigrateURL(), logger); err != nil {
			return err
		}
	}

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	aiClient, err := ai.NewClient(ctx, cfg.AI.Provider, ai.Options{
		APIKey:    cfg.AI.APIKey,
		BaseURL:   cfg.AI.BaseURL,
		Model:     cfg.AI.Model,
		Timeout:   cfg.AI.Timeout,
		MaxTokens: cfg.AI.MaxOutputTokens,
	})
	if err != nil {
		return err
	}
	if closer, ok := aiClient.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("ai client close failed", slog.String("error", err.Error()))
			}
		}()
	}
	logger.Info("ai provider configured", slog.String("provider", cfg.AI.Provider), slog.String("model", cfg.AI.Model))

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go pruneRefreshTokens(pruneCtx, repository.NewRefreshTokenRepository(db), logger)

	e := server.New(cfg, logger, db, aiClient)
	httpServer := server.NewHTTPServer(cfg.Server, e)

	go func() {
		logger.Info("http server listening", slog.String("addr", httpServer.Addr))
		if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownSignal

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	return nil
}

// pruneRefreshTokens периодически удаляет истекшие refresh-токены.
func pruneRefreshTokens(ctx context.Context, tokens *repository.RefreshTokenRepository, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("refresh token cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Info("expired refresh tokens removed", slog.Int64("count", removed))
			}
		}
	}
}

func ensureEnvFile() {
	if os.Getenv("ENV_FILE") != "" {
		return
	}

	for _, candidate := range []string{".env", "../.env"} {
		if _, err := os.Stat(candidate); err == nil {
			_ = os.Setenv("ENV_FILE", candidate)
			return
		}
	}
}
