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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/jobs"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "storefront")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, db, err := openSessions(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("session backend: %v", err)
	}

	a := api.New(apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		UserAgent: "storefront",
	}))
	visitors := store.NewRegistry(func(vid string) *store.Store {
		return store.New(a, backend.Scope(vid))
	})

	var publisher events.Publisher = events.Noop{}
	if cfg.EventsEnabled() {
		publisher = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		logger.Info("events_enabled", "topic", cfg.KafkaTopic)
	}

	deps := &httpserver.Deps{
		API:          a,
		Sessions:     backend,
		Visitors:     visitors,
		Events:       publisher,
		MediaURL:     cfg.MediaURL,
		AdminRoles:   cfg.AdminRoles,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
	}
	jobsCfg := jobs.Config{VisitorIdle: cfg.VisitorIdle, Visitors: visitors}
	if p, ok := backend.(jobs.Purger); ok {
		jobsCfg.Sessions = p
	}

	if cfg.SearchEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		idx, err := search.NewIndex(ctx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		}, logger)
		cancel()
		if err != nil {
			// Search is an admin convenience; the shop runs without it.
			logger.Error("es_unavailable", "error", err)
		} else {
			deps.Search = idx
			jobsCfg.Products = a.Products
			jobsCfg.Index = idx
		}
	}

	sched := jobs.NewScheduler(jobsCfg, logger)
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	if err := httpserver.Register(e, deps); err != nil {
		log.Fatalf("routes: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("storefront_listening", "addr", srv.Addr, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	sched.Stop(shutdownCtx)
	if err := publisher.Close(); err != nil {
		logger.Warn("events_close_failed", "error", err)
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logger.Info("storefront_stopped")
}

// openSessions builds the configured session backend. The *gorm.DB is
// returned for closing and is nil unless the backend is sql.
func openSessions(ctx context.Context, cfg *config.Config) (session.Backend, *gorm.DB, error) {
	switch cfg.SessionBackend {
	case config.SessionSQL:
		db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		b := session.NewGormBackend(db, cfg.SessionTTL)
		if err := b.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return b, db, nil
	case config.SessionRedis:
		client, err := session.NewRedisClient(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisBackend(client, cfg.SessionTTL), nil, nil
	default:
		return session.NewMemoryBackend(cfg.SessionTTL), nil, nil
	}
}
