package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Rafaeloliveira945093/support-script-hub/internal/config"
	"github.com/Rafaeloliveira945093/support-script-hub/internal/service"
)

// SweepWorker triggers the expiration reconciliation sweep. It decouples the
// sweep itself from its triggers: a fixed-interval ticker always runs, and a
// cron expression can be configured for an additional schedule. The HTTP
// endpoint provides the third, on-demand trigger.
type SweepWorker struct {
	sweep  *service.SweepService
	cfg    config.SLAConfig
	logger *zap.Logger
	cron   *cron.Cron
}

// NewSweepWorker constructs the worker.
func NewSweepWorker(sweep *service.SweepService, cfg config.SLAConfig, logger *zap.Logger) *SweepWorker {
	return &SweepWorker{sweep: sweep, cfg: cfg, logger: logger}
}

// Start launches the ticker goroutine and the optional cron schedule. Each
// tick fires the sweep without waiting for the previous run: runs may
// overlap, matching the fire-and-forget timer model the sweep is designed
// to tolerate.
func (w *SweepWorker) Start(ctx context.Context) {
	go w.tickLoop(ctx)

	if w.cfg.SweepCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(w.cfg.SweepCron, func() { w.runOnce(ctx) }); err != nil {
			w.logger.Error("invalid sweep cron expression",
				zap.String("cron", w.cfg.SweepCron), zap.Error(err))
		} else {
			c.Start()
			w.cron = c
			w.logger.Info("sweep cron schedule started", zap.String("cron", w.cfg.SweepCron))
		}
	}
}

// Stop halts the cron scheduler; the ticker goroutine exits with the context.
func (w *SweepWorker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

func (w *SweepWorker) tickLoop(ctx context.Context) {
	interval := w.cfg.SweepInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("sweep ticker started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go w.runOnce(ctx)
		}
	}
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	if _, err := w.sweep.ReconcileExpired(ctx); err != nil {
		// Failures are not retried here; the condition persists, so the
		// next tick retries naturally.
		w.logger.Error("scheduled sweep failed", zap.Error(err))
	}
}
