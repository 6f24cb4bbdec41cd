package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// Insert stores a reservation and returns its generated id.
func (s *Store) Insert(ctx context.Context, r *models.Reservation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ExecContext(ctx,
		`INSERT INTO reservations (room, requester, date, start_time, end_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Room, r.Requester,
		r.Date.Format(models.DateLayout),
		r.Start.String(), r.End.String(),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListByRoomDate returns every reservation for one room and civil date,
// ordered by start time.
func (s *Store) ListByRoomDate(ctx context.Context, room string, date time.Time) ([]models.Reservation, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT id, room, requester, date, start_time, end_time, created_at, updated_at
		 FROM reservations
		 WHERE room = ? AND date = ?
		 ORDER BY start_time`,
		room, date.Format(models.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListAll returns every stored reservation ordered by date, room, and
// start time.
func (s *Store) ListAll(ctx context.Context) ([]models.Reservation, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT id, room, requester, date, start_time, end_time, created_at, updated_at
		 FROM reservations
		 ORDER BY date, room, start_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateByKey rewrites the reservation matching the natural key and
// returns the number of rows touched. Zero rows means the key no longer
// matches anything.
func (s *Store) UpdateByKey(ctx context.Context, key models.NaturalKey, updated models.Reservation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ExecContext(ctx,
		`UPDATE reservations
		 SET room = ?, requester = ?, date = ?, start_time = ?, end_time = ?, updated_at = ?
		 WHERE room = ? AND date = ? AND start_time = ? AND requester = ?`,
		updated.Room, updated.Requester,
		updated.Date.Format(models.DateLayout),
		updated.Start.String(), updated.End.String(),
		updated.UpdatedAt,
		key.Room, key.Date.Format(models.DateLayout), key.Start.String(), key.Requester,
	)
	if err != nil {
		return 0, fmt.Errorf("update reservation: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByKey removes the reservation matching the natural key and
// returns the number of rows removed.
func (s *Store) DeleteByKey(ctx context.Context, key models.NaturalKey) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ExecContext(ctx,
		`DELETE FROM reservations
		 WHERE room = ? AND date = ? AND start_time = ? AND requester = ?`,
		key.Room, key.Date.Format(models.DateLayout), key.Start.String(), key.Requester,
	)
	if err != nil {
		return 0, fmt.Errorf("delete reservation: %w", err)
	}
	return res.RowsAffected()
}

// DeleteDatedOnOrBefore removes every reservation dated on or before
// cutoff and returns how many were removed. The stored date format
// sorts lexicographically, so string comparison is date comparison.
func (s *Store) DeleteDatedOnOrBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.ExecContext(ctx,
		`DELETE FROM reservations WHERE date <= ?`,
		cutoff.Format(models.DateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired reservations: %w", err)
	}
	return res.RowsAffected()
}

func scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var out []models.Reservation
	for rows.Next() {
		var (
			r          models.Reservation
			date       string
			start, end string
		)
		if err := rows.Scan(&r.ID, &r.Room, &r.Requester, &date, &start, &end, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}

		var err error
		if r.Date, err = models.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		if r.Start, err = models.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("parse stored start %q: %w", start, err)
		}
		if r.End, err = models.ParseTimeOfDay(end); err != nil {
			return nil, fmt.Errorf("parse stored end %q: %w", end, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return out, nil
}
