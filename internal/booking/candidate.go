package booking

import (
	"strings"
	"time"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
	"github.com/AleeST1/Reserva-de-sala/internal/schedule"
)

// Candidate is a proposed reservation as collected by the UI layer,
// already parsed into typed fields.
type Candidate struct {
	Room      string
	Requester string
	Date      time.Time
	Start     models.TimeOfDay
	End       models.TimeOfDay
}

// ParseCandidate builds a Candidate from the plain field tuple the UI
// supplies: date as "DD/MM/YYYY", times as "HH:MM". Returns a
// *ValidationError on any malformed field.
func ParseCandidate(room, requester, date, start, end string) (Candidate, error) {
	var c Candidate

	c.Room = strings.TrimSpace(room)
	if c.Room == "" {
		return c, &ValidationError{Field: "room", Reason: "required"}
	}

	c.Requester = strings.TrimSpace(requester)
	if c.Requester == "" {
		return c, &ValidationError{Field: "requester", Reason: "required"}
	}

	d, err := models.ParseDisplayDate(date)
	if err != nil {
		return c, &ValidationError{Field: "date", Reason: "expected DD/MM/YYYY"}
	}
	c.Date = models.NormalizeDate(d)

	c.Start, err = models.ParseTimeOfDay(start)
	if err != nil {
		return c, &ValidationError{Field: "start", Reason: "expected HH:MM"}
	}

	c.End, err = models.ParseTimeOfDay(end)
	if err != nil {
		return c, &ValidationError{Field: "end", Reason: "expected HH:MM"}
	}

	return c, nil
}

// ParseKey builds the natural key of a persisted reservation from the
// values the UI still displays.
func ParseKey(room, requester, date, start string) (models.NaturalKey, error) {
	var k models.NaturalKey

	k.Room = strings.TrimSpace(room)
	if k.Room == "" {
		return k, &ValidationError{Field: "room", Reason: "required"}
	}

	k.Requester = strings.TrimSpace(requester)
	if k.Requester == "" {
		return k, &ValidationError{Field: "requester", Reason: "required"}
	}

	d, err := models.ParseDisplayDate(date)
	if err != nil {
		return k, &ValidationError{Field: "date", Reason: "expected DD/MM/YYYY"}
	}
	k.Date = models.NormalizeDate(d)

	k.Start, err = models.ParseTimeOfDay(start)
	if err != nil {
		return k, &ValidationError{Field: "start", Reason: "expected HH:MM"}
	}

	return k, nil
}

// validate enforces the interval invariants on an already-parsed
// candidate: a known room, a strictly positive interval, and both
// endpoints on 30-minute boundaries inside the 08:00-18:00 window. The
// slot pickers only offer aligned values, but input is never assumed to
// have come from them.
func (s *Service) validate(c Candidate) error {
	if !s.roomKnown(c.Room) {
		return &ValidationError{Field: "room", Reason: "unknown room"}
	}
	if c.Requester == "" {
		return &ValidationError{Field: "requester", Reason: "required"}
	}
	if c.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if !schedule.ValidSlotTime(c.Start) {
		return &ValidationError{Field: "start", Reason: "must be a half-hour slot between 08:00 and 18:00"}
	}
	if !schedule.ValidSlotTime(c.End) {
		return &ValidationError{Field: "end", Reason: "must be a half-hour slot between 08:00 and 18:00"}
	}
	if c.Start >= c.End {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return nil
}

func (s *Service) roomKnown(room string) bool {
	for _, r := range s.rooms {
		if r == room {
			return true
		}
	}
	return false
}
