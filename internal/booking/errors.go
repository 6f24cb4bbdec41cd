package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// ErrNotFound means a natural-key match found zero rows on update or
// delete: the record moved or was removed underneath stale UI state.
var ErrNotFound = errors.New("reservation not found")

// ValidationError reports a malformed candidate. User-correctable,
// never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports that a candidate interval overlaps an existing
// reservation. BlockedBy names the requester of the blocking
// reservation with the earliest start, so callers can tell the user who
// holds the slot.
type ConflictError struct {
	Room      string
	Date      time.Time
	Start     models.TimeOfDay
	End       models.TimeOfDay
	BlockedBy string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %s already reserved on %s %s-%s by %s",
		e.Room, e.Date.Format(models.DateLayout), e.Start, e.End, e.BlockedBy)
}

// StoreError wraps any failure coming out of the reservation store,
// including timeouts. Retryable: periodic callers log it and try again
// on the next tick. Store failures never cross the service boundary
// unwrapped, so callers have a closed set of kinds to switch on.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is transient and worth retrying
// later. Only store failures qualify.
func IsRetryable(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func wrapStore(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
