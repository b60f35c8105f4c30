package check_overlap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	checkOverlap "github.com/m04kA/SMC-VenueCRM/internal/usecase/check_overlap"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

type useCaseStub struct {
	got *checkOverlap.Request
	err error
}

func (s *useCaseStub) Execute(_ context.Context, req *checkOverlap.Request) (*checkOverlap.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &checkOverlap.Response{
		Date:      req.Date,
		StartTime: types.TimeString(req.StartTime),
		EndTime:   types.TimeString(req.EndTime),
		Overnight: true,
		Available: false,
		Conflicts: []domain.ConflictingBooking{{
			ID:        4,
			Date:      req.Date,
			StartTime: "22:00",
			EndTime:   "02:00",
			Status:    domain.StatusPreliminary,
		}},
	}, nil
}

func TestHandle(t *testing.T) {
	stub := &useCaseStub{}
	h := NewHandler(stub, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/overlap?date=2026-02-14&startTime=20:00&endTime=01:00&excludeId=9", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, stub.got.ExcludeID)
	assert.Equal(t, int64(9), *stub.got.ExcludeID)
	assert.True(t, stub.got.Date.Equal(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)))

	var body OverlapResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Available)
	assert.True(t, body.Overnight)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, "preliminary", body.Conflicts[0].Status)
}

func TestHandle_BadQuery(t *testing.T) {
	for _, q := range []string{
		"",
		"date=2026-02-14&startTime=20:00",
		"date=2026-13-01&startTime=20:00&endTime=22:00",
		"date=2026-02-14&startTime=8pm&endTime=22:00",
		"date=2026-02-14&startTime=20:00&endTime=22:00&excludeId=abc",
	} {
		t.Run(q, func(t *testing.T) {
			stub := &useCaseStub{}
			h := NewHandler(stub, logger.NewNop())

			w := httptest.NewRecorder()
			h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/overlap?"+q, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, stub.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	h := NewHandler(&useCaseStub{err: checkOverlap.ErrInvalidInput}, logger.NewNop())

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/overlap?date=2026-02-14&startTime=20:00&endTime=20:00", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
