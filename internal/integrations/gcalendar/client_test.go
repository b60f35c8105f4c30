package gcalendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type fakeCalendar struct {
	mu      sync.Mutex
	calls   []recordedCall
	missing map[string]bool
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := recordedCall{Method: r.Method, Path: r.URL.Path}
	if r.Body != nil && r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&call.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	eventID := ""
	if len(parts) >= 4 && parts[len(parts)-2] == "events" {
		eventID = parts[len(parts)-1]
	}

	if eventID != "" && f.missing[eventID] {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
		return
	}

	switch r.Method {
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"new-event"}`))
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + eventID + `"}`))
	}
}

func newTestClient(t *testing.T, fake *fakeCalendar) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	loc := time.FixedZone("Europe/Moscow", 3*60*60)
	client, err := NewClientWithOptions(context.Background(), "venue", loc, logger.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func testEvent() Event {
	return Event{
		Summary: "Booking #7",
		Start:   time.Date(2026, 2, 14, 20, 30, 0, 0, time.UTC),
		End:     time.Date(2026, 2, 14, 22, 0, 0, 0, time.UTC),
	}
}

func TestClient_UpsertCreatesEvent(t *testing.T) {
	fake := &fakeCalendar{}
	client := newTestClient(t, fake)

	id, err := client.UpsertEvent(context.Background(), "", testEvent())
	require.NoError(t, err)
	assert.Equal(t, "new-event", id)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.True(t, strings.HasSuffix(call.Path, "/calendars/venue/events"), call.Path)
	assert.Equal(t, "Booking #7", call.Body["summary"])

	start, ok := call.Body["start"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2026-02-14T23:30:00+03:00", start["dateTime"])
	assert.Equal(t, "Europe/Moscow", start["timeZone"])
}

func TestClient_UpsertUpdatesExisting(t *testing.T) {
	fake := &fakeCalendar{}
	client := newTestClient(t, fake)

	id, err := client.UpsertEvent(context.Background(), "evt-1", testEvent())
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, http.MethodPut, fake.calls[0].Method)
}

func TestClient_UpsertRecreatesMissingEvent(t *testing.T) {
	fake := &fakeCalendar{missing: map[string]bool{"evt-gone": true}}
	client := newTestClient(t, fake)

	id, err := client.UpsertEvent(context.Background(), "evt-gone", testEvent())
	require.NoError(t, err)
	assert.Equal(t, "new-event", id)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, http.MethodPut, fake.calls[0].Method)
	assert.Equal(t, http.MethodPost, fake.calls[1].Method)
}

func TestClient_DeleteEvent(t *testing.T) {
	fake := &fakeCalendar{missing: map[string]bool{"evt-gone": true}}
	client := newTestClient(t, fake)

	require.NoError(t, client.DeleteEvent(context.Background(), "evt-1"))
	// отсутствующее событие удалять не нужно
	require.NoError(t, client.DeleteEvent(context.Background(), "evt-gone"))

	require.Len(t, fake.calls, 2)
	assert.Equal(t, http.MethodDelete, fake.calls[0].Method)
}

func TestNewClient_BadCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), "/nonexistent/key.json", "venue", nil, logger.NewNop())
	assert.ErrorIs(t, err, ErrCredentials)
}
