package gcalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client клиент для работы с Google Calendar
type Client struct {
	service    *calendar.Service
	calendarID string
	location   *time.Location
	log        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// NewClient создает клиента по JSON ключу сервисного аккаунта
func NewClient(ctx context.Context, credentialsFile, calendarID string, location *time.Location, log Logger) (*Client, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCredentials, credentialsFile, err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse credentials: %v", ErrCredentials, err)
	}

	return NewClientWithOptions(ctx, calendarID, location, log, option.WithHTTPClient(config.Client(ctx)))
}

// NewClientWithOptions создает клиента с произвольными опциями Calendar API
func NewClientWithOptions(ctx context.Context, calendarID string, location *time.Location, log Logger, opts ...option.ClientOption) (*Client, error) {
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create calendar service: %v", ErrInternal, err)
	}

	if location == nil {
		location = time.UTC
	}

	return &Client{
		service:    srv,
		calendarID: calendarID,
		location:   location,
		log:        log,
	}, nil
}

// UpsertEvent обновляет событие eventID или создает новое, если его нет.
// Возвращает ID события в календаре.
func (c *Client) UpsertEvent(ctx context.Context, eventID string, ev Event) (string, error) {
	body := c.toCalendarEvent(ev)

	if eventID != "" {
		updated, err := c.service.Events.Update(c.calendarID, eventID, body).Context(ctx).Do()
		if err == nil {
			return updated.Id, nil
		}
		if !isGone(err) {
			return "", fmt.Errorf("%w: update event %s: %w", ErrRequestFailed, eventID, err)
		}
		c.log.Warn("Calendar event %s is gone, creating a new one", eventID)
	}

	created, err := c.service.Events.Insert(c.calendarID, body).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: insert event: %w", ErrRequestFailed, err)
	}

	c.log.Info("Calendar event %s created", created.Id)
	return created.Id, nil
}

// DeleteEvent удаляет событие. Отсутствующее событие ошибкой не считается.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.service.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil && !isGone(err) {
		return fmt.Errorf("%w: delete event %s: %w", ErrRequestFailed, eventID, err)
	}
	return nil
}

func (c *Client) toCalendarEvent(ev Event) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.In(c.location).Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.In(c.location).Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
	}
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}
