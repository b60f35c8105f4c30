package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/internal/events"
	"github.com/m04kA/SMC-VenueCRM/internal/integrations/telegram"
)

// Sender канал доставки уведомлений
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Notifier отправляет менеджерам уведомления о бронированиях и платежах
type Notifier struct {
	sender Sender
	queue  *Queue
}

// NewNotifier создает уведомления поверх очереди
func NewNotifier(sender Sender, queue *Queue) *Notifier {
	return &Notifier{sender: sender, queue: queue}
}

// Subscribe подписывает уведомления на события
func (n *Notifier) Subscribe(bus Subscriber) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingStatusChanged,
		events.EventBookingArchived,
		events.EventPaymentRecorded,
		events.EventPaymentDeleted,
	} {
		bus.Subscribe(eventType, n.handle)
	}
}

func (n *Notifier) handle(event *events.Event) error {
	text, err := FormatMessage(event)
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}

	return n.queue.Enqueue(Job{
		Name: event.Type,
		Run: func(ctx context.Context) error {
			err := n.sender.Send(ctx, text)
			if errors.Is(err, telegram.ErrNoRecipients) {
				return fmt.Errorf("%w: %w", ErrPermanent, err)
			}
			return err
		},
	})
}

// FormatMessage текст уведомления для события
func FormatMessage(event *events.Event) (string, error) {
	switch event.Type {
	case events.EventBookingCreated, events.EventBookingStatusChanged, events.EventBookingArchived:
		var p events.BookingEventPayload
		if err := event.Decode(&p); err != nil {
			return "", fmt.Errorf("decode %s: %w", event.Type, err)
		}
		return formatBooking(event.Type, p), nil

	case events.EventPaymentRecorded, events.EventPaymentDeleted:
		var p events.PaymentEventPayload
		if err := event.Decode(&p); err != nil {
			return "", fmt.Errorf("decode %s: %w", event.Type, err)
		}
		return formatPayment(event.Type, p), nil

	default:
		return "", fmt.Errorf("unsupported event type %q", event.Type)
	}
}

func formatBooking(eventType string, p events.BookingEventPayload) string {
	when := fmt.Sprintf("%s %s-%s", p.Date, p.StartTime, p.EndTime)

	switch eventType {
	case events.EventBookingCreated:
		text := fmt.Sprintf("Новая бронь #%d\n%s\nАренда: %.2f", p.BookingID, when, p.RentalCost)
		if p.EventType != "" {
			text += "\nСобытие: " + p.EventType
		}
		if p.GuestCount > 0 {
			text += fmt.Sprintf("\nГостей: %d", p.GuestCount)
		}
		return text
	case events.EventBookingArchived:
		return fmt.Sprintf("Бронь #%d (%s) перенесена в архив", p.BookingID, when)
	default:
		return fmt.Sprintf("Бронь #%d (%s): статус %s -> %s", p.BookingID, when, p.PreviousStatus, p.Status)
	}
}

func formatPayment(eventType string, p events.PaymentEventPayload) string {
	if eventType == events.EventPaymentDeleted {
		return fmt.Sprintf("Удалён платёж #%d по брони #%d на %.2f\nСтатус брони: %s",
			p.PaymentID, p.BookingID, p.Amount, p.Status)
	}
	return fmt.Sprintf("Платёж %.2f (%s, %s) по брони #%d\nСтатус брони: %s",
		p.Amount, p.Type, p.Method, p.BookingID, p.Status)
}
