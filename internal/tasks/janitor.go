package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AleeST1/Reserva-de-sala/internal/booking"
)

// Janitor runs the expiry sweep: after a short initial delay, and then
// at every interval, it removes reservations older than the retention
// window. The sweep is idempotent, so overlapping or repeated runs are
// harmless.
type Janitor struct {
	service       *booking.Service
	retentionDays int
	initialDelay  time.Duration
	interval      time.Duration
	logger        *zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewJanitor creates a janitor sweeping reservations older than
// retentionDays.
func NewJanitor(service *booking.Service, retentionDays int, initialDelay, interval time.Duration, logger *zerolog.Logger) *Janitor {
	return &Janitor{
		service:       service,
		retentionDays: retentionDays,
		initialDelay:  initialDelay,
		interval:      interval,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the sweep loop. It blocks until the context is cancelled
// or Stop is called; a stopped janitor can be started again.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.stopCh = make(chan struct{})
	stopCh := j.stopCh
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		// A restarted loop owns a fresh stopCh; only clear our own run.
		if j.stopCh == stopCh {
			j.running = false
		}
		j.mu.Unlock()
	}()

	j.logger.Info().
		Int("retention_days", j.retentionDays).
		Dur("interval", j.interval).
		Msg("expiry janitor started")

	select {
	case <-ctx.Done():
		return
	case <-stopCh:
		return
	case <-time.After(j.initialDelay):
	}
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("expiry janitor stopped by context")
			return
		case <-stopCh:
			j.logger.Info().Msg("expiry janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// Stop stops the sweep loop. Safe to call more than once.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if j.running {
		j.running = false
		close(j.stopCh)
	}
	j.mu.Unlock()
}

// IsRunning reports whether the loop is active.
func (j *Janitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// RunNow forces an immediate sweep.
func (j *Janitor) RunNow(ctx context.Context) {
	j.sweep(ctx)
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.service.ExpireOlderThan(ctx, j.retentionDays, time.Now())
	if err != nil {
		if booking.IsRetryable(err) {
			j.logger.Warn().Err(err).Msg("expiry sweep failed, will retry on next tick")
			return
		}
		j.logger.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if removed > 0 {
		j.logger.Info().Int64("removed", removed).Msg("expiry sweep completed")
	}
}
