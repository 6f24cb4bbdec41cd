package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// Reservations use it for start/end so interval math stays plain
// integer comparison, free of dates and locations.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// String formats the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// AlignedTo reports whether the time falls on a slot boundary.
func (t TimeOfDay) AlignedTo(slotMinutes int) bool {
	if slotMinutes <= 0 {
		return false
	}
	return int(t)%slotMinutes == 0
}
