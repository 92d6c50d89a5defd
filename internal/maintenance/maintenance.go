// Package maintenance schedules periodic database compaction. Compaction
// cannot run while a transaction is active, so the job retries with
// backoff until the store is idle or the attempts run out.
package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fluentdb/pkg/fluentdb"
	"fluentdb/pkg/retry"
)

// Config configures the maintenance runner.
type Config struct {
	// Schedule is a cron expression with a seconds field,
	// e.g. "0 0 3 * * *" for 03:00 every day.
	Schedule string
	// CompactInto, when set, writes a vacuumed copy to this path instead
	// of rewriting the database in place.
	CompactInto string
	// Retry controls how compaction retries while the store is busy.
	Retry retry.Config
	Store *fluentdb.Store
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Runner drives scheduled compaction of a store.
type Runner struct {
	cron  *cron.Cron
	log   *slog.Logger
	store *fluentdb.Store
	cfg   Config
}

// cronLogger adapts the cron logger interface to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}

// New creates a runner and registers the compaction job. The schedule is
// validated here; an invalid expression fails construction.
func New(cfg Config) (*Runner, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultConfig()
	}

	r := &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger: log.With("component", "cron")}),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		log:   log,
		store: cfg.Store,
		cfg:   cfg,
	}

	if _, err := r.cron.AddFunc(cfg.Schedule, r.runCompaction); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins scheduling. Non-blocking.
func (r *Runner) Start() {
	r.log.Info("maintenance scheduler started", "schedule", r.cfg.Schedule)
	r.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish, bounded by
// ctx.
func (r *Runner) Stop(ctx context.Context) error {
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
		r.log.Info("maintenance scheduler stopped")
		return nil
	case <-ctx.Done():
		r.log.Warn("maintenance scheduler stop deadline exceeded")
		return ctx.Err()
	}
}

func (r *Runner) runCompaction() {
	ctx := context.Background()
	start := time.Now()

	// Retry both lock contention and the transaction gate: an active
	// transaction usually clears within the backoff window.
	err := retry.Do(ctx, r.cfg.Retry, func(err error) bool {
		return retry.IsSQLiteBusy(err) || errors.Is(err, fluentdb.ErrMaintenance)
	}, func(ctx context.Context) error {
		if r.cfg.CompactInto != "" {
			return r.store.CompactInto(ctx, r.cfg.CompactInto)
		}
		return r.store.Compact(ctx)
	})

	if err != nil {
		r.log.Error("compaction failed", "error", err, "duration", time.Since(start))
		return
	}
	r.log.Info("compaction completed", "duration", time.Since(start))
}
