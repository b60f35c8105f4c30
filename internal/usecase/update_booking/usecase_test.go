package update_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	addonRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/payment"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-VenueCRM/internal/pricing"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
	"github.com/m04kA/SMC-VenueCRM/internal/usecase/check_overlap"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueCRM/pkg/ptr"
	"github.com/m04kA/SMC-VenueCRM/pkg/txmanager"
)

type conflictCounter struct{ n int }

func (c *conflictCounter) IncBookingConflict() { c.n++ }

type fixture struct {
	uc       *UseCase
	bookings *bookingRepo.Repository
	bus      *events.EventBus
	metrics  *conflictCounter
}

// newFixture: вторник 2026-02-17
//
//	10: 18:00-22:00, аренда 180, оплачено 180 (fully_paid)
//	11: 10:00-12:00, аренда 70
//	12: 13:00-15:00, отменено
//	13: 16:00-17:00, архивное
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.NewSQLite(t)
	builder := storagetest.Builder()

	_, err := db.Exec(`INSERT INTO clients (id, name) VALUES (1, 'Anna')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO bookings (id, client_id, booking_date, start_time, end_time, hours, hourly_rate, rental_cost, deposit_amount, status, is_archived) VALUES
		(10, 1, '2026-02-17', '18:00', '22:00', 4, 45, 180, 45, 'fully_paid', 0),
		(11, 1, '2026-02-17', '10:00', '12:00', 2, 35, 70, 35, 'preliminary', 0),
		(12, 1, '2026-02-17', '13:00', '15:00', 2, 35, 70, 35, 'cancelled', 0),
		(13, 1, '2026-02-17', '16:00', '17:00', 1, 45, 45, 45, 'preliminary', 1)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO payments (booking_id, amount, payment_type, payment_date, payment_method)
		VALUES (10, 180, 'final', '2026-02-01', 'card')`)
	require.NoError(t, err)

	log := logger.NewNop()
	tx := txmanager.NewTransactionManager(db, psqlbuilder.SQLite, nil)
	bookings := bookingRepo.NewRepository(db, builder)
	recalc := status.NewRecalculator(bookings, paymentRepo.NewRepository(db, builder), addonRepo.NewRepository(db, builder), tx, nil, log)
	bus := events.NewEventBus()
	metrics := &conflictCounter{}

	uc := NewUseCase(
		bookings,
		pricing.NewCalculator(),
		check_overlap.NewUseCase(bookings, tx, log),
		recalc,
		tx,
		bus,
		metrics,
		log,
	)
	return &fixture{uc: uc, bookings: bookings, bus: bus, metrics: metrics}
}

func TestExecute_ExtendRepricesAndRecalculatesStatus(t *testing.T) {
	f := newFixture(t)

	var updated []events.BookingEventPayload
	f.bus.Subscribe(events.EventBookingUpdated, func(e *events.Event) error {
		var p events.BookingEventPayload
		require.NoError(t, e.Decode(&p))
		updated = append(updated, p)
		return nil
	})

	resp, err := f.uc.Execute(context.Background(), &Request{ID: 10, EndTime: ptr.Ptr("23:00")})
	require.NoError(t, err)

	assert.True(t, resp.Repriced)
	assert.Equal(t, 225.0, resp.Booking.RentalCost)
	assert.Equal(t, 5.0, resp.Booking.Hours)
	assert.Equal(t, 225.0, resp.GrandTotal)
	assert.Equal(t, 180.0, resp.TotalPaid)
	assert.Equal(t, domain.StatusFullyPaid, resp.PreviousStatus)
	assert.Equal(t, domain.StatusDepositPaid, resp.Booking.Status)

	stored, err := f.bookings.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "23:00", stored.EndTime.String())
	assert.Equal(t, 225.0, stored.RentalCost)
	assert.Equal(t, domain.StatusDepositPaid, stored.Status)
	// задаток не пересчитывается при переносе
	assert.Equal(t, 45.0, stored.DepositAmount)

	require.Len(t, updated, 1)
	assert.Equal(t, "deposit_paid", updated[0].Status)
	assert.Equal(t, "fully_paid", updated[0].PreviousStatus)
}

func TestExecute_OverlapWithItselfIsIgnored(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{ID: 10, StartTime: ptr.Ptr("17:00")})
	require.NoError(t, err)
	assert.Equal(t, "17:00", resp.Booking.StartTime.String())
	assert.Equal(t, 225.0, resp.Booking.RentalCost)
}

func TestExecute_RescheduleOntoTakenSlot(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		ID:        10,
		StartTime: ptr.Ptr("11:00"),
		EndTime:   ptr.Ptr("13:00"),
	})
	require.Error(t, err)

	var conflict *domain.DoubleBookingConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, int64(11), conflict.Conflicts[0].ID)
	assert.Equal(t, 1, f.metrics.n)

	stored, err := f.bookings.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "18:00", stored.StartTime.String())
	assert.Equal(t, 180.0, stored.RentalCost)
}

func TestExecute_CancelledAndArchivedDoNotBlock(t *testing.T) {
	f := newFixture(t)

	// 12 отменено, 13 в архиве
	resp, err := f.uc.Execute(context.Background(), &Request{
		ID:        11,
		StartTime: ptr.Ptr("13:00"),
		EndTime:   ptr.Ptr("17:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, resp.Booking.Hours)
}

func TestExecute_CancelledBookingMovesOntoTakenSlot(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ID:        12,
		StartTime: ptr.Ptr("10:00"),
		EndTime:   ptr.Ptr("12:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
}

func TestExecute_MoveToAnotherDate(t *testing.T) {
	f := newFixture(t)

	// суббота, вечер по выходному тарифу 60/ч
	date := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	resp, err := f.uc.Execute(context.Background(), &Request{ID: 11, Date: &date})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", resp.Booking.BookingDate.Format(domain.DateFormat))
	assert.Equal(t, 120.0, resp.Booking.RentalCost)
}

func TestExecute_DetailsOnly(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		ID:            11,
		GuestCount:    ptr.Ptr(25),
		Notes:         ptr.Ptr("projector"),
		DepositAmount: ptr.Ptr(20.005),
	})
	require.NoError(t, err)
	assert.False(t, resp.Repriced)
	assert.Nil(t, resp.Quote)

	stored, err := f.bookings.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, 70.0, stored.RentalCost)
	assert.Equal(t, 25, *stored.GuestCount)
	assert.Equal(t, "projector", *stored.Notes)
	assert.Equal(t, domain.StatusPreliminary, stored.Status)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		err  error
	}{
		{"not found", Request{ID: 99, Notes: ptr.Ptr("x")}, ErrBookingNotFound},
		{"archived", Request{ID: 13, Notes: ptr.Ptr("x")}, ErrBookingArchived},
		{"bad time", Request{ID: 10, StartTime: ptr.Ptr("25:00")}, ErrInvalidTimeFormat},
		{"zero id", Request{}, ErrInvalidInput},
		{"negative deposit", Request{ID: 10, DepositAmount: ptr.Ptr(-1.0)}, ErrInvalidInput},
		{"too many guests", Request{ID: 10, GuestCount: ptr.Ptr(domain.MaxGuestCount + 1)}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.uc.Execute(ctx, &req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
