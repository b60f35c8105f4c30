package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishJSON(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	calls := 0
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		calls++
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 42, Status: "preliminary"})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	assert.Equal(t, EventBookingCreated, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, received.Decode(&decoded))
	assert.Equal(t, int64(42), decoded.BookingID)
	assert.Equal(t, "preliminary", decoded.Status)
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var first, second int

	bus.Subscribe(EventPaymentRecorded, func(*Event) error { first++; return nil })
	bus.Subscribe(EventPaymentRecorded, func(*Event) error { second++; return nil })
	bus.Subscribe(EventPaymentDeleted, func(*Event) error { t.Fatal("wrong type delivered"); return nil })

	bus.Publish(&Event{Type: EventPaymentRecorded})

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestEventBus_HandlerErrorGoesToHook(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")

	var hooked error
	bus.OnError(func(_ *Event, err error) { hooked = err })

	delivered := false
	bus.Subscribe(EventBookingUpdated, func(*Event) error { return boom })
	bus.Subscribe(EventBookingUpdated, func(*Event) error { delivered = true; return nil })

	bus.Publish(&Event{Type: EventBookingUpdated})

	assert.ErrorIs(t, hooked, boom)
	assert.True(t, delivered, "failing handler must not stop the next one")
}

func TestEventBus_NilAndEmpty(t *testing.T) {
	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(EventBookingCreated, nil))

	bus := NewEventBus()
	assert.NotPanics(t, func() { bus.Publish(&Event{Type: "unknown"}) })
	assert.NoError(t, bus.PublishJSON("unknown", nil))
}
