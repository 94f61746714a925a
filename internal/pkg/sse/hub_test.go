package sse

import (
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTheEmployee(t *testing.T) {
	hub := NewHub()
	mine, cleanupMine := hub.Subscribe("e1")
	defer cleanupMine()
	other, cleanupOther := hub.Subscribe("e2")
	defer cleanupOther()

	hub.PublishSessionClosed(attendance.SessionClosedEvent{
		SessionID:  "s1",
		EmployeeID: "e1",
		Reason:     attendance.ReasonStaleSession,
		ClosedAt:   time.Now(),
	})

	select {
	case ev := <-mine:
		assert.Equal(t, attendance.EventSessionClosed, ev.Event)
		data, ok := ev.Data.(attendance.SessionClosedEvent)
		require.True(t, ok)
		assert.Equal(t, "s1", data.SessionID)
	default:
		t.Fatal("expected an event for e1")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event for e2: %+v", ev)
	default:
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("e1")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("e1", Event{EmployeeID: "e1", Event: "ping"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	_, cleanup1 := hub.Subscribe("e1")
	_, cleanup2 := hub.Subscribe("e1")
	assert.Equal(t, 2, hub.SubscriberCount("e1"))
	assert.Equal(t, 2, hub.TotalSubscribers())

	cleanup1()
	cleanup1()
	assert.Equal(t, 1, hub.SubscriberCount("e1"))

	cleanup2()
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-1")

	hub.Close()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.TotalSubscribers())
	assert.NotPanics(t, cleanup)

	late, lateCleanup := hub.Subscribe("emp-2")
	_, open = <-late
	assert.False(t, open)
	assert.NotPanics(t, lateCleanup)
}
