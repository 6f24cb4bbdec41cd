package api

import (
	"encoding/json"
	"net/http"

	"github.com/AleeST1/Reserva-de-sala/internal/booking"
	"github.com/AleeST1/Reserva-de-sala/internal/export"
	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// ReservationRequest is the request body for POST /api/reservations.
// Dates use DD/MM/YYYY and times HH:MM, matching what the booking form
// displays.
type ReservationRequest struct {
	Room      string `json:"room"`
	Requester string `json:"requester"`
	Date      string `json:"date"`  // Format: DD/MM/YYYY
	Start     string `json:"start"` // Format: HH:MM
	End       string `json:"end"`   // Format: HH:MM
}

// KeyFields identifies an existing reservation by the values still on
// screen.
type KeyFields struct {
	Room      string `json:"room"`
	Requester string `json:"requester"`
	Date      string `json:"date"`  // Format: DD/MM/YYYY
	Start     string `json:"start"` // Format: HH:MM
}

// UpdateRequest is the request body for PUT /api/reservations.
type UpdateRequest struct {
	Key KeyFields          `json:"key"`
	New ReservationRequest `json:"new"`
}

// ReservationResponse is the wire form of a stored reservation.
type ReservationResponse struct {
	ID        int64  `json:"id,omitempty"`
	Room      string `json:"room"`
	Requester string `json:"requester"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func toResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		Room:      r.Room,
		Requester: r.Requester,
		Date:      r.Date.Format(models.DisplayDateLayout),
		Start:     r.Start.String(),
		End:       r.End.String(),
	}
}

// handleReservations dispatches the reservation collection endpoint.
// GET lists, POST creates, PUT updates by key, DELETE removes by key.
func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReservations(w, r)
	case http.MethodPost:
		s.createReservation(w, r)
	case http.MethodPut:
		s.updateReservation(w, r)
	case http.MethodDelete:
		s.deleteReservation(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listReservations(w http.ResponseWriter, r *http.Request) {
	all, err := s.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}

	out := make([]ReservationResponse, len(all))
	for i := range all {
		out[i] = toResponse(&all[i])
	}
	writeOK(w, "/api/reservations", http.StatusOK, map[string]any{"reservations": out})
}

func (s *HTTPServer) createReservation(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := booking.ParseCandidate(req.Room, req.Requester, req.Date, req.Start, req.End)
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}

	created, err := s.service.Create(r.Context(), c)
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}
	writeOK(w, "/api/reservations", http.StatusCreated, toResponse(created))
}

func (s *HTTPServer) updateReservation(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	key, err := booking.ParseKey(req.Key.Room, req.Key.Requester, req.Key.Date, req.Key.Start)
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}

	c, err := booking.ParseCandidate(req.New.Room, req.New.Requester, req.New.Date, req.New.Start, req.New.End)
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}

	updated, err := s.service.Update(r.Context(), key, c)
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}
	writeOK(w, "/api/reservations", http.StatusOK, toResponse(updated))
}

func (s *HTTPServer) deleteReservation(w http.ResponseWriter, r *http.Request) {
	var req KeyFields
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	key, err := booking.ParseKey(req.Room, req.Requester, req.Date, req.Start)
	if err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}

	if err := s.service.Delete(r.Context(), key); err != nil {
		writeServiceError(w, "/api/reservations", err)
		return
	}
	writeOK(w, "/api/reservations", http.StatusOK, map[string]string{"status": "deleted"})
}

// handleExport streams the full reservation report as an Excel
// workbook.
// GET /api/export
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	all, err := s.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, "/api/export", err)
		return
	}

	writer := export.NewWriter()
	defer writer.Close()
	if err := writer.WriteReport(all); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="reservations.xlsx"`)
	if err := writer.Save(w); err != nil {
		s.logger.Error().Err(err).Msg("export write failed")
	}
}
