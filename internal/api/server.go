// Package api exposes the reservation service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/AleeST1/Reserva-de-sala/internal/booking"
	"github.com/AleeST1/Reserva-de-sala/internal/metrics"
	"github.com/AleeST1/Reserva-de-sala/internal/tasks"
)

// HTTPServer serves the reservation API.
type HTTPServer struct {
	service   *booking.Service
	refresher *tasks.Refresher
	logger    *zerolog.Logger
	server    *http.Server
}

// NewHTTPServer wires the API handlers. The refresher is optional;
// without it the manual refresh endpoint answers 404.
func NewHTTPServer(service *booking.Service, refresher *tasks.Refresher, port int, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		service:   service,
		refresher: refresher,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/reservations", s.handleReservations)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/export", s.handleExport)
	if refresher != nil {
		mux.HandleFunc("/api/refresh", s.handleRefresh)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start begins serving. Blocks until the server stops.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("api server started")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service error kinds onto HTTP statuses.
// Conflicts carry the blocking requester so the UI can name who holds
// the slot.
func writeServiceError(w http.ResponseWriter, path string, err error) {
	var (
		ve *booking.ValidationError
		ce *booking.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		metrics.IncHTTPRequest(path, strconv.Itoa(http.StatusBadRequest))
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ce):
		metrics.IncHTTPRequest(path, strconv.Itoa(http.StatusConflict))
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":      ce.Error(),
			"blocked_by": ce.BlockedBy,
		})
	case errors.Is(err, booking.ErrNotFound):
		metrics.IncHTTPRequest(path, strconv.Itoa(http.StatusNotFound))
		writeError(w, http.StatusNotFound, "reservation not found")
	default:
		metrics.IncHTTPRequest(path, strconv.Itoa(http.StatusServiceUnavailable))
		writeError(w, http.StatusServiceUnavailable, "storage temporarily unavailable")
	}
}

func writeOK(w http.ResponseWriter, path string, status int, v any) {
	metrics.IncHTTPRequest(path, strconv.Itoa(status))
	writeJSON(w, status, v)
}

// handleRefresh forces an immediate snapshot refresh.
// POST /api/refresh
func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}
	if !s.refresher.Trigger(r.Context()) {
		writeOK(w, "/api/refresh", http.StatusTooManyRequests, map[string]string{
			"status": "throttled",
		})
		return
	}
	writeOK(w, "/api/refresh", http.StatusOK, map[string]string{"status": "refreshed"})
}
