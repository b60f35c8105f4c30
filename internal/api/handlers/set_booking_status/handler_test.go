package set_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/service/bookings"
	"github.com/m04kA/SMC-VenueCRM/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
)

type serviceStub struct {
	calls int
	err   error
}

func (s *serviceStub) SetStatus(_ context.Context, id int64, req *models.SetStatusRequest) (*models.StatusResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.StatusResponse{ID: id, Status: req.Status, PreviousStatus: "deposit_paid"}, nil
}

func newRequest(id, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/status", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"bookingId": id})
}

func TestHandle(t *testing.T) {
	h := NewHandler(&serviceStub{}, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, newRequest("8", `{"status":"cancelled"}`))

	require.Equal(t, http.StatusOK, w.Code)
	var body models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.StatusResponse{ID: 8, Status: "cancelled", PreviousStatus: "deposit_paid"}, body)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
		wantCalls  int
	}{
		{name: "bad id", id: "abc", body: `{"status":"cancelled"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", id: "1", body: `{"status":"lost"}`, wantStatus: http.StatusBadRequest},
		{name: "empty status", id: "1", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "not found", id: "1", body: `{"status":"completed"}`, err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound, wantCalls: 1},
		{
			name:       "payment driven status",
			id:         "1",
			body:       `{"status":"fully_paid"}`,
			err:        fmt.Errorf("wrapped: %w", bookings.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
			wantCalls:  1,
		},
		{
			name:       "revived booking overlaps",
			id:         "1",
			body:       `{"status":"rescheduled"}`,
			err:        &domain.DoubleBookingConflictError{Conflicts: []domain.ConflictingBooking{{ID: 2}}},
			wantStatus: http.StatusConflict,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &serviceStub{err: tt.err}
			h := NewHandler(stub, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, newRequest(tt.id, tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalls, stub.calls)
		})
	}
}
