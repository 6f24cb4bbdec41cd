package schedule

import (
	"time"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// Slot is one 30-minute grid unit shown on the availability board.
type Slot struct {
	Start     models.TimeOfDay `json:"start"`
	End       models.TimeOfDay `json:"end"`
	Available bool             `json:"available"`
}

// SlotInfo is the string form handed to display layers.
type SlotInfo struct {
	Start     string `json:"start"` // "08:00"
	End       string `json:"end"`   // "08:30"
	Available bool   `json:"available"`
}

// Grid produces the fixed half-hour grid from 08:00 to 18:00 for one
// room and date, marking each slot busy when it overlaps any existing
// reservation. Slots are ascending by start time and recomputed fresh
// on every call.
func Grid(existing []models.Reservation, room string, date time.Time) []Slot {
	slots := make([]Slot, 0, int(DayEnd-DayStart)/SlotMinutes)
	for cursor := DayStart; cursor+SlotMinutes <= DayEnd; cursor += SlotMinutes {
		start := cursor
		end := cursor + SlotMinutes
		busy := BlockingReservation(existing, room, date, start, end, nil) != nil
		slots = append(slots, Slot{Start: start, End: end, Available: !busy})
	}
	return slots
}

// ToSlotInfo converts grid slots to their display form.
func ToSlotInfo(slots []Slot) []SlotInfo {
	result := make([]SlotInfo, len(slots))
	for i, s := range slots {
		result[i] = SlotInfo{
			Start:     s.Start.String(),
			End:       s.End.String(),
			Available: s.Available,
		}
	}
	return result
}
