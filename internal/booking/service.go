// Package booking implements the reservation lifecycle: validation,
// conflict gating, persistence, and the periodic expiry sweep.
package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/AleeST1/Reserva-de-sala/internal/events"
	"github.com/AleeST1/Reserva-de-sala/internal/models"
	"github.com/AleeST1/Reserva-de-sala/internal/schedule"
)

// DefaultRooms is the closed set of bookable rooms.
var DefaultRooms = []string{"Rally", "Motocross", "Freestyle", "Arena Cross", "Enduro"}

const defaultTimeout = 10 * time.Second

// Store persists reservations. Implementations must be safe for
// concurrent use.
type Store interface {
	Insert(ctx context.Context, r *models.Reservation) (int64, error)
	ListByRoomDate(ctx context.Context, room string, date time.Time) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	UpdateByKey(ctx context.Context, key models.NaturalKey, updated models.Reservation) (int64, error)
	DeleteByKey(ctx context.Context, key models.NaturalKey) (int64, error)
	DeleteDatedOnOrBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service coordinates reservation operations against the store and
// publishes domain events for each mutation.
type Service struct {
	store   Store
	bus     *events.Bus
	logger  *zerolog.Logger
	rooms   []string
	timeout time.Duration
}

// NewService wires a Service. A nil rooms slice falls back to
// DefaultRooms; a zero timeout falls back to 10 seconds.
func NewService(store Store, bus *events.Bus, logger *zerolog.Logger, rooms []string, timeout time.Duration) *Service {
	if len(rooms) == 0 {
		rooms = DefaultRooms
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		store:   store,
		bus:     bus,
		logger:  logger,
		rooms:   rooms,
		timeout: timeout,
	}
}

// Rooms returns the bookable room names.
func (s *Service) Rooms() []string {
	out := make([]string, len(s.rooms))
	copy(out, s.rooms)
	return out
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Create validates the candidate, checks it against every reservation
// already on the same room and date, and persists it. On overlap it
// returns a *ConflictError naming the requester whose reservation has
// the earliest conflicting start.
func (s *Service) Create(ctx context.Context, c Candidate) (*models.Reservation, error) {
	// Callers other than the HTTP parser may hand in a date with a
	// time-of-day component; conflict filtering compares civil dates.
	c.Date = models.NormalizeDate(c.Date)
	if err := s.validate(c); err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	existing, err := s.store.ListByRoomDate(ctx, c.Room, c.Date)
	if err != nil {
		return nil, wrapStore("list", err)
	}

	if blocking := schedule.BlockingReservation(existing, c.Room, c.Date, c.Start, c.End, nil); blocking != nil {
		return nil, &ConflictError{
			Room:      c.Room,
			Date:      c.Date,
			Start:     c.Start,
			End:       c.End,
			BlockedBy: blocking.Requester,
		}
	}

	now := time.Now()
	r := &models.Reservation{
		Room:      c.Room,
		Requester: c.Requester,
		Date:      c.Date,
		Start:     c.Start,
		End:       c.End,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.store.Insert(ctx, r)
	if err != nil {
		return nil, wrapStore("insert", err)
	}
	r.ID = id

	s.logger.Info().
		Str("room", r.Room).
		Str("requester", r.Requester).
		Str("date", r.Date.Format(models.DateLayout)).
		Str("start", r.Start.String()).
		Str("end", r.End.String()).
		Int64("id", r.ID).
		Msg("reservation created")

	s.publish(events.TypeReservationCreated, r, 0)
	return r, nil
}

// Update replaces the reservation identified by key with the candidate
// values. The record's own interval is excluded from the conflict
// check, so re-saving a reservation unchanged always succeeds. Zero
// rows matched means the record is gone and the caller's view is stale.
func (s *Service) Update(ctx context.Context, key models.NaturalKey, c Candidate) (*models.Reservation, error) {
	c.Date = models.NormalizeDate(c.Date)
	key.Date = models.NormalizeDate(key.Date)
	if err := s.validate(c); err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	existing, err := s.store.ListByRoomDate(ctx, c.Room, c.Date)
	if err != nil {
		return nil, wrapStore("list", err)
	}

	if blocking := schedule.BlockingReservation(existing, c.Room, c.Date, c.Start, c.End, &key); blocking != nil {
		return nil, &ConflictError{
			Room:      c.Room,
			Date:      c.Date,
			Start:     c.Start,
			End:       c.End,
			BlockedBy: blocking.Requester,
		}
	}

	updated := models.Reservation{
		Room:      c.Room,
		Requester: c.Requester,
		Date:      c.Date,
		Start:     c.Start,
		End:       c.End,
		UpdatedAt: time.Now(),
	}

	affected, err := s.store.UpdateByKey(ctx, key, updated)
	if err != nil {
		return nil, wrapStore("update", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Info().
		Str("room", updated.Room).
		Str("requester", updated.Requester).
		Str("date", updated.Date.Format(models.DateLayout)).
		Str("start", updated.Start.String()).
		Str("end", updated.End.String()).
		Msg("reservation updated")

	s.publish(events.TypeReservationUpdated, &updated, 0)
	return &updated, nil
}

// Delete removes the reservation identified by key.
func (s *Service) Delete(ctx context.Context, key models.NaturalKey) error {
	key.Date = models.NormalizeDate(key.Date)
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	affected, err := s.store.DeleteByKey(ctx, key)
	if err != nil {
		return wrapStore("delete", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info().
		Str("room", key.Room).
		Str("requester", key.Requester).
		Str("date", key.Date.Format(models.DateLayout)).
		Str("start", key.Start.String()).
		Msg("reservation deleted")

	removed := models.Reservation{
		Room:      key.Room,
		Requester: key.Requester,
		Date:      key.Date,
		Start:     key.Start,
	}
	s.publish(events.TypeReservationDeleted, &removed, 0)
	return nil
}

// ExpireOlderThan removes every reservation whose date is days or more
// whole days before now, and returns how many were removed. Running it
// twice with the same clock removes nothing the second time.
func (s *Service) ExpireOlderThan(ctx context.Context, days int, now time.Time) (int64, error) {
	if days < 0 {
		return 0, &ValidationError{Field: "days", Reason: "must be non-negative"}
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	// daysSince(date, now) >= days holds exactly for dates on or
	// before now - days.
	cutoff := models.NormalizeDate(now).AddDate(0, 0, -days)

	removed, err := s.store.DeleteDatedOnOrBefore(ctx, cutoff)
	if err != nil {
		return 0, wrapStore("expire", err)
	}

	if removed > 0 {
		s.logger.Info().
			Int64("removed", removed).
			Str("cutoff", cutoff.Format(models.DateLayout)).
			Msg("expired reservations removed")
		s.publish(events.TypeReservationExpired, nil, removed)
	}
	return removed, nil
}

// ListAvailability returns the half-hour availability grid for one room
// and date. The room must be in the bookable set; the grid is
// recomputed from current reservations on every call.
func (s *Service) ListAvailability(ctx context.Context, room string, date time.Time) ([]schedule.Slot, error) {
	if !s.roomKnown(room) {
		return nil, &ValidationError{Field: "room", Reason: "unknown room"}
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	date = models.NormalizeDate(date)
	existing, err := s.store.ListByRoomDate(ctx, room, date)
	if err != nil {
		return nil, wrapStore("list", err)
	}
	return schedule.Grid(existing, room, date), nil
}

// ListAll returns every stored reservation.
func (s *Service) ListAll(ctx context.Context) ([]models.Reservation, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, wrapStore("list", err)
	}
	return all, nil
}

func (s *Service) publish(eventType string, r *models.Reservation, count int64) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:        eventType,
		Reservation: r,
		Count:       count,
	})
}
