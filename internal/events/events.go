package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated       = "booking_created"
	EventBookingUpdated       = "booking_updated"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingArchived      = "booking_archived"
	EventPaymentRecorded      = "payment_recorded"
	EventPaymentDeleted       = "payment_deleted"
)

// BookingEventPayload снимок бронирования для подписчиков (календарь, уведомления)
type BookingEventPayload struct {
	BookingID      int64   `json:"booking_id"`
	ClientID       int64   `json:"client_id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	EventType      string  `json:"event_type,omitempty"`
	GuestCount     int     `json:"guest_count,omitempty"`
	RentalCost     float64 `json:"rental_cost"`
	Archived       bool    `json:"archived,omitempty"`

	CalendarEventID string `json:"calendar_event_id,omitempty"`
}

// PaymentEventPayload описывает записанный или удалённый платёж
type PaymentEventPayload struct {
	PaymentID int64   `json:"payment_id"`
	BookingID int64   `json:"booking_id"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// ErrorHook receives handler failures; the publisher never sees them.
type ErrorHook func(event *Event, err error)

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	onError     ErrorHook
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// OnError sets the hook called when a handler returns an error.
func (b *EventBus) OnError(hook ErrorHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = hook
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
// Handlers run synchronously and must not block: workers enqueue and return.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	hook := b.onError
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil && hook != nil {
			hook(event, err)
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
// A nil bus is a no-op.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
