// Package retention bounds storage growth by hard-deleting resources
// whose soft-delete marker has aged past the retention window.
// Soft-deleted rows are already invisible everywhere; the sweep only
// reclaims their storage.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"paasd/internal/domain"
)

// Sweeper runs the periodic purge of expired soft-deleted resources.
type Sweeper struct {
	resources domain.ResourceStore
	window    time.Duration
	logger    *slog.Logger

	cron *cron.Cron
}

// NewSweeper creates a Sweeper purging resources soft-deleted longer than
// window ago.
func NewSweeper(resources domain.ResourceStore, window time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		resources: resources,
		window:    window,
		logger:    logger.With("component", "retention"),
	}
}

// SweepOnce purges everything past the window and returns the purge count.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.window)
	purged, err := s.resources.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("retention sweep purged resources",
			"purged", purged, "cutoff", cutoff)
	}
	return purged, nil
}

// Start schedules the sweep on the given cron spec (e.g. "@hourly") and
// begins running it. The returned stop function halts the scheduler and
// waits for a running sweep to finish.
func (s *Sweeper) Start(ctx context.Context, spec string) (stop func(), err error) {
	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if _, err := s.SweepOnce(sweepCtx); err != nil {
			s.logger.Error("retention sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, domain.ErrValidation("invalid retention schedule %q: %v", spec, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("retention sweep scheduled", "spec", spec, "window", s.window)

	return func() {
		<-c.Stop().Done()
	}, nil
}
