package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// Event types published by the reservation service.
const (
	TypeReservationCreated = "reservation.created"
	TypeReservationUpdated = "reservation.updated"
	TypeReservationDeleted = "reservation.deleted"
	TypeReservationExpired = "reservation.expired"
)

// Event is a lightweight domain event carrying the reservation it is
// about. Expired events carry a Count instead: the sweep removes rows
// in bulk and only the total survives.
type Event struct {
	ID          string
	Type        string
	Reservation *models.Reservation
	Count       int64
	At          time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus provides in-process pub/sub for reservation events.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type. Missing ID and
// timestamp are filled in.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		handler(event)
	}
}
