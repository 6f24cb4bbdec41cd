// Package tasks holds the background loops: the snapshot refresher and
// the expiry janitor.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/AleeST1/Reserva-de-sala/internal/booking"
	"github.com/AleeST1/Reserva-de-sala/internal/metrics"
	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// Refresher periodically reloads the full reservation snapshot and
// hands it to OnSnapshot, mirroring a UI that repaints its board on a
// timer. Store failures are logged and skipped; the next tick retries.
type Refresher struct {
	service  *booking.Service
	interval time.Duration
	logger   *zerolog.Logger

	// OnSnapshot receives each freshly loaded snapshot. Nil is fine.
	OnSnapshot func([]models.Reservation)

	// limiter guards manual triggers so a user hammering the refresh
	// button cannot flood the store.
	limiter *rate.Limiter

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewRefresher creates a refresher. Manual triggers are limited to one
// per second with a burst of three.
func NewRefresher(service *booking.Service, interval time.Duration, logger *zerolog.Logger) *Refresher {
	return &Refresher{
		service:  service,
		interval: interval,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the refresh loop. It blocks until the context is
// cancelled or Stop is called; a stopped refresher can be started
// again.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		// A restarted loop owns a fresh stopCh; only clear our own run.
		if r.stopCh == stopCh {
			r.running = false
		}
		r.mu.Unlock()
	}()

	r.logger.Info().Dur("interval", r.interval).Msg("snapshot refresher started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("snapshot refresher stopped by context")
			return
		case <-stopCh:
			r.logger.Info().Msg("snapshot refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop stops the refresh loop. Safe to call more than once.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.running {
		r.running = false
		close(r.stopCh)
	}
	r.mu.Unlock()
}

// IsRunning reports whether the loop is active.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Trigger forces an immediate refresh, subject to the rate limit.
// Returns false when the trigger was dropped.
func (r *Refresher) Trigger(ctx context.Context) bool {
	if !r.limiter.Allow() {
		r.logger.Debug().Msg("manual refresh dropped by rate limit")
		return false
	}
	r.refresh(ctx)
	return true
}

func (r *Refresher) refresh(ctx context.Context) {
	snapshot, err := r.service.ListAll(ctx)
	if err != nil {
		metrics.IncRefreshError()
		if booking.IsRetryable(err) {
			r.logger.Warn().Err(err).Msg("snapshot refresh failed, will retry on next tick")
			return
		}
		r.logger.Error().Err(err).Msg("snapshot refresh failed")
		return
	}

	if r.OnSnapshot != nil {
		r.OnSnapshot(snapshot)
	}
	r.logger.Debug().Int("count", len(snapshot)).Msg("snapshot refreshed")
}
