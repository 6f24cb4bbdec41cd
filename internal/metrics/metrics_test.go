package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIdempotent(t *testing.T) {
	// A second Register must not panic on duplicate registration.
	Register()
	Register()
}

func TestCountersIncrement(t *testing.T) {
	Register()

	before := testutil.ToFloat64(reservationCreated)
	IncReservationCreated()
	if got := testutil.ToFloat64(reservationCreated); got != before+1 {
		t.Errorf("created = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(reservationUpdated)
	IncReservationUpdated()
	if got := testutil.ToFloat64(reservationUpdated); got != before+1 {
		t.Errorf("updated = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(reservationExpired)
	AddReservationExpired(3)
	if got := testutil.ToFloat64(reservationExpired); got != before+3 {
		t.Errorf("expired = %v, want %v", got, before+3)
	}
}
