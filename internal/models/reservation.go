package models

import (
	"time"
)

const (
	// DateLayout is the wire/storage format for civil dates.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is the format the UI layer supplies and renders.
	DisplayDateLayout = "02/01/2006"
)

// Reservation is a booked room interval on a single civil date.
// Start/End are a half-open interval [Start, End): a reservation ending
// exactly when another starts does not collide with it.
type Reservation struct {
	ID        int64     `json:"id"`
	Room      string    `json:"room"`
	Requester string    `json:"requester"`
	Date      time.Time `json:"date"` // midnight UTC, date component only
	Start     TimeOfDay `json:"start"`
	End       TimeOfDay `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NaturalKey identifies a persisted reservation by the fields the UI
// still has on screen: there is no surrogate id round-trip through the
// display layer, so update/delete match on this tuple instead.
// Duplicate tuples are assumed absent, not enforced.
type NaturalKey struct {
	Room      string
	Date      time.Time
	Start     TimeOfDay
	Requester string
}

// Key returns the reservation's natural key.
func (r *Reservation) Key() NaturalKey {
	return NaturalKey{
		Room:      r.Room,
		Date:      r.Date,
		Start:     r.Start,
		Requester: r.Requester,
	}
}

// Matches reports whether the reservation is the record the key names.
func (r *Reservation) Matches(k NaturalKey) bool {
	return r.Room == k.Room &&
		r.Date.Equal(k.Date) &&
		r.Start == k.Start &&
		r.Requester == k.Requester
}

// ParseDate parses a civil date in storage format ("2006-01-02").
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseDisplayDate parses a civil date the way the UI supplies it
// ("DD/MM/YYYY").
func ParseDisplayDate(s string) (time.Time, error) {
	return time.Parse(DisplayDateLayout, s)
}

// NormalizeDate drops the time-of-day component, keeping only the civil
// date at midnight UTC. Reservations never carry timezone information.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole civil days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = NormalizeDate(a)
	b = NormalizeDate(b)
	return int(b.Sub(a).Hours() / 24)
}
