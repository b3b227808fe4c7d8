package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/S4ntifdz/tableside-go/internal/api"
	"github.com/S4ntifdz/tableside-go/internal/cart"
	"github.com/S4ntifdz/tableside-go/internal/checkout"
	"github.com/S4ntifdz/tableside-go/internal/config"
	"github.com/S4ntifdz/tableside-go/internal/events"
	"github.com/S4ntifdz/tableside-go/internal/httpapi"
	"github.com/S4ntifdz/tableside-go/internal/session"
	"github.com/S4ntifdz/tableside-go/internal/storage"
	"github.com/S4ntifdz/tableside-go/internal/tip"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg, logger)

	engine := cart.New(ctx, store,
		cart.WithServiceRate(cfg.ServiceRateBps),
		cart.WithLogger(logger))

	// announce mutations to the log the way the UI would observe them
	unsubscribe := engine.Subscribe(func(snap cart.Snapshot) {
		env := events.BuildCartUpdated(snap, events.Options{})
		logger.Info("cart updated",
			zap.String("event_id", env.EventID),
			zap.Int("item_count", snap.ItemCount),
			zap.String("total", snap.Total.String()))
	})
	defer unsubscribe()

	client := api.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout)
	guard := session.NewGuard(client)
	if cfg.SessionToken != "" {
		guard.SetToken(cfg.SessionToken)
	}

	policy := tip.Policy{Presets: cfg.TipPresets, AllowCustom: cfg.TipAllowCustom}
	flow := checkout.NewFlow(engine, client, policy, checkout.Config{
		SkipTip:     cfg.SkipTip,
		RatingDelay: cfg.RatingDelay,
	}, logger)

	handler := httpapi.NewHandler(engine, flow, client, logger)
	router := httpapi.NewRouter(handler, guard)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("tableside listening",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageBackend),
			zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
}

// openStore builds the configured persistence backend. Any failure to
// reach a durable backend degrades to in-memory storage with a warning;
// the cart must stay usable for the session either way.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) cart.Store {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemory()

	case config.BackendRedis:
		store, err := storage.NewRedis(ctx, cfg.RedisURL, cfg.CartTTL)
		if err != nil {
			logger.Warn("redis unavailable, falling back to memory", zap.Error(err))
			return storage.NewMemory()
		}
		return store

	case config.BackendPostgres:
		db, err := storage.OpenPostgres(ctx, cfg.CartDBDSN)
		if err != nil {
			logger.Warn("postgres unavailable, falling back to memory", zap.Error(err))
			return storage.NewMemory()
		}
		if err := storage.RunMigrations(db, logger); err != nil {
			logger.Warn("migrations failed, falling back to memory", zap.Error(err))
			db.Close()
			return storage.NewMemory()
		}
		return storage.NewPostgres(db)

	default:
		return storage.NewFile(cfg.StatePath)
	}
}
