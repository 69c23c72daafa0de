// cmd/bot/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hr-intake-bot/internal/common/config"
	"hr-intake-bot/internal/common/database"
	"hr-intake-bot/internal/common/logger"
	"hr-intake-bot/internal/dispatch"
	"hr-intake-bot/internal/flow"
	"hr-intake-bot/internal/operator"
	"hr-intake-bot/internal/session"
	"hr-intake-bot/internal/storage"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake bot...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Transport ---
	tr, recv, err := buildTransport(cfg.Bot)
	if err != nil {
		zapLog.Fatal("transport init failed", zap.Error(err))
	}

	// --- Wire the bot ---
	sessions := session.NewStore(rdb.Client, time.Duration(cfg.Session.TTLHours)*time.Hour)
	actors := storage.NewActorRepo(pg.DB)
	departments := storage.NewDepartmentRepo(pg.DB)
	applications := storage.NewApplicationRepo(pg.DB, log)

	engine, err := flow.NewEngine(flow.EngineConfig{
		Graph:        flow.DefaultGraph(),
		Transport:    tr,
		Sessions:     sessions,
		Departments:  departments,
		Applications: applications,
		Logger:       log,
		PageSize:     cfg.Catalog.ApplicantPageSize,
		HomeKeyboard: dispatch.MenuKeyboard(false),
	})
	if err != nil {
		zapLog.Fatal("flow graph invalid", zap.Error(err))
	}

	manager := operator.NewManager(operator.Config{
		Transport:    tr,
		Sessions:     sessions,
		Departments:  departments,
		Logger:       log,
		PageSize:     cfg.Catalog.OperatorPageSize,
		HomeText:     dispatch.TextGreeting,
		HomeKeyboard: dispatch.MenuKeyboard(true),
	})

	dispatcher := dispatch.New(dispatch.Config{
		Engine:     engine,
		Operator:   manager,
		Sessions:   sessions,
		Actors:     actors,
		Transport:  tr,
		Logger:     log,
		IsOperator: cfg.Bot.IsOperator,
	})

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Dispatch loop ---
	zapLog.Info("Intake bot running")
	if err := dispatcher.Run(ctx, recv); err != nil && err != context.Canceled {
		zapLog.Error("dispatch loop ended", zap.Error(err))
	}

	zapLog.Info("Intake bot stopped gracefully")
}
