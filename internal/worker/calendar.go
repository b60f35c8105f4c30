package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/integrations/gcalendar"
)

// BookingStore доступ к бронированиям для синхронизации
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetCalendarEventID(ctx context.Context, id int64, eventID string) error
	ClearCalendarEventID(ctx context.Context, id int64) error
}

// CalendarClient внешний календарь
type CalendarClient interface {
	UpsertEvent(ctx context.Context, eventID string, ev gcalendar.Event) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Subscriber шина событий
type Subscriber interface {
	Subscribe(eventType string, handler events.EventHandler)
}

// CalendarSync отражает бронирования в Google Calendar.
// Задача несёт только ID бронирования, актуальное состояние читается при выполнении.
type CalendarSync struct {
	store    BookingStore
	client   CalendarClient
	queue    *Queue
	location *time.Location
	logger   Logger
}

// NewCalendarSync создает синхронизацию календаря
func NewCalendarSync(store BookingStore, client CalendarClient, queue *Queue, location *time.Location, logger Logger) *CalendarSync {
	if location == nil {
		location = time.UTC
	}
	return &CalendarSync{
		store:    store,
		client:   client,
		queue:    queue,
		location: location,
		logger:   logger,
	}
}

// Subscribe подписывает синхронизацию на события бронирований
func (s *CalendarSync) Subscribe(bus Subscriber) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingUpdated,
		events.EventBookingStatusChanged,
		events.EventBookingArchived,
	} {
		bus.Subscribe(eventType, s.handle)
	}
}

func (s *CalendarSync) handle(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("calendar sync: decode %s: %w", event.Type, err)
	}

	bookingID := payload.BookingID
	return s.queue.Enqueue(Job{
		Name: fmt.Sprintf("%s booking=%d", event.Type, bookingID),
		Run: func(ctx context.Context) error {
			return s.Sync(ctx, bookingID)
		},
	})
}

// Sync приводит событие календаря в соответствие с бронированием:
// занимающее площадку бронирование создаётся или обновляется, остальные удаляются
func (s *CalendarSync) Sync(ctx context.Context, bookingID int64) error {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: booking %d not found", ErrPermanent, bookingID)
		}
		return fmt.Errorf("load booking %d: %w", bookingID, err)
	}

	eventID := ""
	if booking.CalendarEventID != nil {
		eventID = *booking.CalendarEventID
	}

	if !booking.BlocksVenue() {
		if eventID == "" {
			return nil
		}
		if err := s.client.DeleteEvent(ctx, eventID); err != nil {
			return err
		}
		s.logger.Info("calendar worker: event %s removed for booking id=%d", eventID, booking.ID)
		return s.store.ClearCalendarEventID(ctx, booking.ID)
	}

	ev, err := s.toEvent(booking)
	if err != nil {
		return fmt.Errorf("%w: booking %d: %w", ErrPermanent, booking.ID, err)
	}

	newID, err := s.client.UpsertEvent(ctx, eventID, ev)
	if err != nil {
		return err
	}
	if newID == eventID {
		return nil
	}

	s.logger.Info("calendar worker: booking id=%d linked to event %s", booking.ID, newID)
	return s.store.SetCalendarEventID(ctx, booking.ID, newID)
}

func (s *CalendarSync) toEvent(b *domain.Booking) (gcalendar.Event, error) {
	startMin, err := b.StartTime.Minutes()
	if err != nil {
		return gcalendar.Event{}, err
	}
	endMin, err := b.EndTime.Minutes()
	if err != nil {
		return gcalendar.Event{}, err
	}

	endDay := b.BookingDate.Day()
	if b.IsOvernight() {
		endDay++
	}

	y, m, d := b.BookingDate.Date()
	start := time.Date(y, m, d, startMin/60, startMin%60, 0, 0, s.location)
	end := time.Date(y, m, endDay, endMin/60, endMin%60, 0, 0, s.location)

	summary := fmt.Sprintf("Бронь #%d", b.ID)
	if b.EventType != nil && *b.EventType != "" {
		summary += ": " + *b.EventType
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Статус: %s\n", b.Status)
	fmt.Fprintf(&desc, "Аренда: %.2f (%.2f ч)\n", b.RentalCost, b.Hours)
	if b.GuestCount != nil {
		fmt.Fprintf(&desc, "Гостей: %d\n", *b.GuestCount)
	}
	if b.Notes != nil && *b.Notes != "" {
		fmt.Fprintf(&desc, "Заметки: %s\n", *b.Notes)
	}

	return gcalendar.Event{
		Summary:     summary,
		Description: desc.String(),
		Start:       start,
		End:         end,
	}, nil
}
