package tasks

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleeST1/Reserva-de-sala/internal/booking"
	"github.com/AleeST1/Reserva-de-sala/internal/events"
	"github.com/AleeST1/Reserva-de-sala/internal/models"
	"github.com/AleeST1/Reserva-de-sala/internal/store"
)

func newTestService(t *testing.T) *booking.Service {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return booking.NewService(db, events.NewBus(), &logger, nil, time.Second)
}

func create(t *testing.T, svc *booking.Service, room, requester, date, start, end string) {
	t.Helper()
	c, err := booking.ParseCandidate(room, requester, date, start, end)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), c)
	require.NoError(t, err)
}

func TestRefresherTrigger(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)
	r := NewRefresher(svc, time.Minute, &logger)

	create(t, svc, "Rally", "Ana", "10/06/2024", "09:00", "10:00")

	var snapshots [][]models.Reservation
	r.OnSnapshot = func(s []models.Reservation) { snapshots = append(snapshots, s) }

	assert.True(t, r.Trigger(context.Background()))
	require.Len(t, snapshots, 1)
	require.Len(t, snapshots[0], 1)
	assert.Equal(t, "Ana", snapshots[0][0].Requester)
}

func TestRefresherTriggerRateLimited(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)
	r := NewRefresher(svc, time.Minute, &logger)

	// Burst of three, then the limiter drops further triggers.
	allowed := 0
	for i := 0; i < 10; i++ {
		if r.Trigger(context.Background()) {
			allowed++
		}
	}
	assert.GreaterOrEqual(t, allowed, 3)
	assert.Less(t, allowed, 10)
}

func TestRefresherStopIdempotent(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)
	r := NewRefresher(svc, 10*time.Millisecond, &logger)

	done := make(chan struct{})
	go func() {
		r.Start(context.Background())
		close(done)
	}()

	// Let the loop spin up before stopping it.
	time.Sleep(30 * time.Millisecond)
	r.Stop()
	r.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
	assert.False(t, r.IsRunning())
}

func TestRefresherContextCancelResetsRunning(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)
	r := NewRefresher(svc, time.Hour, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.True(t, r.IsRunning())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on context cancel")
	}
	assert.False(t, r.IsRunning())
}

func TestRefresherRestartAfterStop(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)
	r := NewRefresher(svc, time.Hour, &logger)

	first := make(chan struct{})
	go func() {
		r.Start(context.Background())
		close(first)
	}()
	time.Sleep(20 * time.Millisecond)
	r.Stop()
	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("first run did not stop")
	}

	// A stopped refresher starts again with a fresh stop channel.
	second := make(chan struct{})
	go func() {
		r.Start(context.Background())
		close(second)
	}()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, r.IsRunning())

	r.Stop()
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second run did not stop")
	}
	assert.False(t, r.IsRunning())
}

func TestJanitorContextCancelResetsRunning(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)
	j := NewJanitor(svc, 30, time.Hour, time.Hour, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.True(t, j.IsRunning())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on context cancel")
	}
	assert.False(t, j.IsRunning())
}

func TestJanitorRunNow(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)

	// Old reservation plus one for tomorrow; only the old one goes.
	create(t, svc, "Rally", "Ana", "01/01/2020", "09:00", "10:00")
	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DisplayDateLayout)
	create(t, svc, "Rally", "Bruno", tomorrow, "09:00", "10:00")

	j := NewJanitor(svc, 30, time.Millisecond, time.Hour, &logger)
	j.RunNow(context.Background())

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bruno", all[0].Requester)

	// A second run removes nothing further.
	j.RunNow(context.Background())
	all, err = svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestJanitorStopBeforeFirstSweep(t *testing.T) {
	svc := newTestService(t)
	logger := zerolog.New(io.Discard)

	create(t, svc, "Rally", "Ana", "01/01/2020", "09:00", "10:00")

	j := NewJanitor(svc, 30, time.Hour, time.Hour, &logger)
	done := make(chan struct{})
	go func() {
		j.Start(context.Background())
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	j.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}

	// Stopped before the initial delay elapsed: nothing swept.
	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
