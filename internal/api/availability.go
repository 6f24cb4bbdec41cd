package api

import (
	"net/http"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
	"github.com/AleeST1/Reserva-de-sala/internal/schedule"
)

// AvailabilityResponse is the response for GET /api/availability.
type AvailabilityResponse struct {
	Room  string              `json:"room"`
	Date  string              `json:"date"`
	Slots []schedule.SlotInfo `json:"slots"`
}

// handleAvailability returns the half-hour grid for one room and date.
// Dates cross this surface the way the booking form shows them.
// GET /api/availability?room=Rally&date=10/06/2024
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	room := r.URL.Query().Get("room")
	dateStr := r.URL.Query().Get("date")
	if room == "" || dateStr == "" {
		writeError(w, http.StatusBadRequest, "room and date are required")
		return
	}

	date, err := models.ParseDisplayDate(dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected DD/MM/YYYY")
		return
	}

	slots, err := s.service.ListAvailability(r.Context(), room, date)
	if err != nil {
		writeServiceError(w, "/api/availability", err)
		return
	}

	writeOK(w, "/api/availability", http.StatusOK, AvailabilityResponse{
		Room:  room,
		Date:  dateStr,
		Slots: schedule.ToSlotInfo(slots),
	})
}

// handleRooms lists the bookable room names.
// GET /api/rooms
func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}
	writeOK(w, "/api/rooms", http.StatusOK, map[string]any{"rooms": s.service.Rooms()})
}
