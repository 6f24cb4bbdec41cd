// Package schedule decides whether reservation intervals collide.
// Everything in it is pure: no clock, no store, no side effects.
package schedule

import (
	"time"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

const (
	// DayStart is the first bookable minute of a day (08:00).
	DayStart = models.TimeOfDay(8 * 60)
	// DayEnd is the last bookable minute of a day (18:00).
	DayEnd = models.TimeOfDay(18 * 60)
	// SlotMinutes is the grid granularity.
	SlotMinutes = 30
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any minute. Intervals that only touch at an
// endpoint are adjacent, not overlapping.
func Overlaps(aStart, aEnd, bStart, bEnd models.TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// HasConflict reports whether [start, end) collides with any reservation
// in existing for the given room and date. A reservation matching
// exclude is skipped, so an edit never conflicts with its own prior
// slot. A malformed range (start >= end) always conflicts: callers are
// expected to validate first, and a zero or negative interval must
// never pass the gate.
func HasConflict(existing []models.Reservation, room string, date time.Time, start, end models.TimeOfDay, exclude *models.NaturalKey) bool {
	if start >= end {
		return true
	}
	return BlockingReservation(existing, room, date, start, end, exclude) != nil
}

// BlockingReservation returns the conflicting reservation with the
// earliest start time, or nil when [start, end) is free. The earliest
// start is a stable choice so callers can report the same blocker every
// time. Malformed ranges return nil; use HasConflict for the gate.
func BlockingReservation(existing []models.Reservation, room string, date time.Time, start, end models.TimeOfDay, exclude *models.NaturalKey) *models.Reservation {
	var blocking *models.Reservation
	for i := range existing {
		r := &existing[i]
		if r.Room != room || !r.Date.Equal(date) {
			continue
		}
		if exclude != nil && r.Matches(*exclude) {
			continue
		}
		if !Overlaps(r.Start, r.End, start, end) {
			continue
		}
		if blocking == nil || r.Start < blocking.Start {
			blocking = r
		}
	}
	return blocking
}

// ValidSlotTime reports whether t is a 30-minute-aligned time within the
// bookable window. The slot generator only offers aligned values, but
// input is checked anyway: nothing guarantees it came from the generator.
func ValidSlotTime(t models.TimeOfDay) bool {
	return t >= DayStart && t <= DayEnd && t.AlignedTo(SlotMinutes)
}
