package app

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fluentdb/internal/config"
	"fluentdb/internal/maintenance"
	"fluentdb/internal/platform/logger"
	"fluentdb/pkg/fluentdb"
)

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// New creates a new App instance and loads configuration.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "dbd",
	})
	return &App{cfg: cfg, log: log}, nil
}

// Run starts the daemon: opens the store, applies migrations, starts the
// maintenance scheduler and serves the health/debug HTTP surface until a
// shutdown signal arrives.
func (a *App) Run() error {
	a.log.Info("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := fluentdb.DefaultOptions()
	opts.BusyTimeout = a.cfg.DB.BusyTimeout
	opts.Logger = a.log.With("component", "store")
	store, err := fluentdb.OpenWithOptions(ctx, a.cfg.DB.Path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.log.Error("store close", slog.Any("err", err))
		}
	}()

	if a.cfg.DB.Migrations != "" {
		if err := store.Migrate(a.cfg.DB.Migrations); err != nil {
			return err
		}
		version, dirty, err := store.MigrationVersion(a.cfg.DB.Migrations)
		if err != nil {
			return err
		}
		a.log.Info("migrations applied", "version", version, "dirty", dirty)
	}

	var runner *maintenance.Runner
	if a.cfg.Maintenance.Enabled {
		runner, err = maintenance.New(maintenance.Config{
			Schedule:    a.cfg.Maintenance.Schedule,
			CompactInto: a.cfg.Maintenance.CompactInto,
			Store:       store,
			Logger:      a.log.With("component", "maintenance"),
		})
		if err != nil {
			return err
		}
		runner.Start()
	}

	if a.cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/debug/statement", func(c *gin.Context) {
		st := store.LastStatement()
		if st == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": st.Text, "kind": st.Kind, "args": st.Args})
	})

	srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("server", slog.Any("err", err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if runner != nil {
		_ = runner.Stop(shutdownCtx)
	}
	return srv.Shutdown(shutdownCtx)
}
