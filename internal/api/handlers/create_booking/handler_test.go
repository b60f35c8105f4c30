package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/api/handlers"
	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	createBooking "github.com/m04kA/SMC-VenueCRM/internal/usecase/create_booking"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

type useCaseStub struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (s *useCaseStub) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{
	"clientId": 3,
	"bookingDate": "2026-02-14",
	"startTime": "18:00",
	"endTime": "01:00",
	"guestCount": 40,
	"addons": [{"serviceId": 2, "quantity": 3}]
}`

func do(h *Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))
	return w
}

func TestHandle_Created(t *testing.T) {
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	stub := &useCaseStub{resp: &createBooking.Response{
		Booking: &domain.Booking{
			ID:          11,
			ClientID:    3,
			BookingDate: date,
			StartTime:   types.TimeString("18:00"),
			EndTime:     types.TimeString("01:00"),
			RentalCost:  700,
			Status:      domain.StatusNoDeposit,
		},
		Addons: []*domain.BookingAddon{
			{ID: 1, BookingID: 11, ServiceID: 2, ServiceName: "Кейтеринг", Quantity: 3, SalePrice: 50},
		},
		Quote:      &pricing.Quote{DayType: pricing.DayTypeWeekend},
		GrandTotal: 850,
	}}
	h := NewHandler(stub, logger.NewNop())

	w := do(h, validBody)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, stub.got)
	assert.Equal(t, int64(3), stub.got.ClientID)
	assert.True(t, date.Equal(stub.got.Date))
	assert.Equal(t, "01:00", stub.got.EndTime)
	require.Len(t, stub.got.Addons, 1)
	assert.Equal(t, createBooking.AddonLine{ServiceID: 2, Quantity: 3}, stub.got.Addons[0])

	var body CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.True(t, body.Overnight)
	assert.Equal(t, "weekend", body.DayType)
	assert.Equal(t, 850.0, body.GrandTotal)
	require.Len(t, body.Addons, 1)
	assert.Equal(t, 150.0, body.Addons[0].Total)
}

func TestHandle_Conflict(t *testing.T) {
	stub := &useCaseStub{err: &domain.DoubleBookingConflictError{Conflicts: []domain.ConflictingBooking{{
		ID:        7,
		Date:      time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("20:00"),
		EndTime:   types.TimeString("23:00"),
		Status:    domain.StatusDepositPaid,
	}}}}
	h := NewHandler(stub, logger.NewNop())

	w := do(h, validBody)

	require.Equal(t, http.StatusConflict, w.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, int64(7), body.Conflicts[0].ID)
	assert.Equal(t, "deposit_paid", body.Conflicts[0].Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCalled bool
	}{
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"clientId":1,"venue":"x"}`, wantStatus: http.StatusBadRequest},
		{
			name:       "invalid date",
			body:       `{"clientId":1,"bookingDate":"14.02.2026","startTime":"18:00","endTime":"20:00"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid addon quantity",
			body:       `{"clientId":1,"bookingDate":"2026-02-14","startTime":"18:00","endTime":"20:00","addons":[{"serviceId":1,"quantity":0}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "client not found",
			body:       validBody,
			err:        createBooking.ErrClientNotFound,
			wantStatus: http.StatusNotFound,
			wantCalled: true,
		},
		{
			name:       "addon inactive",
			body:       validBody,
			err:        createBooking.ErrAddonServiceInactive,
			wantStatus: http.StatusBadRequest,
			wantCalled: true,
		},
		{
			name:       "invalid input from use case",
			body:       validBody,
			err:        createBooking.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantCalled: true,
		},
		{
			name:       "internal",
			body:       validBody,
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &useCaseStub{err: tt.err}
			h := NewHandler(stub, logger.NewNop())

			w := do(h, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, stub.got != nil)
		})
	}
}
