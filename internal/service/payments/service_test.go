package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/internal/events"
	addonRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/idempotency"
	paymentRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/payment"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-VenueCRM/internal/service/payments/models"
	"github.com/m04kA/SMC-VenueCRM/internal/service/status"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueCRM/pkg/txmanager"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type recordedEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordedEvents) PublishJSON(eventType string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
	return nil
}

type env struct {
	svc      *Service
	bookings *bookingRepo.Repository
	events   *recordedEvents
	booking  int64
}

// newEnv создаёт бронирование с grand_total = 400 (аренда 400, без доп. услуг)
func newEnv(t *testing.T) *env {
	t.Helper()
	db := storagetest.NewSQLite(t)
	builder := storagetest.Builder()

	_, err := db.Exec(`INSERT INTO clients (id, name) VALUES (1, 'Anna')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO bookings (id, client_id, booking_date, start_time, end_time, hours, hourly_rate, rental_cost, deposit_amount, status)
		VALUES (10, 1, '2026-02-14', '18:00', '22:00', 4, 100, 400, 100, 'preliminary')`)
	require.NoError(t, err)

	log := logger.NewNop()
	tx := txmanager.NewTransactionManager(db, psqlbuilder.SQLite, nil)
	bookings := bookingRepo.NewRepository(db, builder)
	payments := paymentRepo.NewRepository(db, builder)
	recalc := status.NewRecalculator(bookings, payments, addonRepo.NewRepository(db, builder), tx, nil, log)

	rec := &recordedEvents{}
	svc := NewService(bookings, payments, recalc, tx, log,
		WithIdempotency(idempotency.NewMemoryStore(time.Hour)),
		WithEvents(rec),
		WithTimeProvider(fixedClock{time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}),
	)

	return &env{svc: svc, bookings: bookings, events: rec, booking: 10}
}

func (e *env) record(t *testing.T, amount float64, key string) *models.RecordPaymentResponse {
	t.Helper()
	resp, err := e.svc.Record(context.Background(), &models.RecordPaymentRequest{
		BookingID:      e.booking,
		Amount:         amount,
		PaymentType:    string(domain.PaymentTypePartial),
		PaymentMethod:  string(domain.PaymentMethodCard),
		IdempotencyKey: key,
	})
	require.NoError(t, err)
	return resp
}

func (e *env) status(t *testing.T) domain.BookingStatus {
	t.Helper()
	b, err := e.bookings.GetByID(context.Background(), e.booking)
	require.NoError(t, err)
	return b.Status
}

func TestService_DepositThenFullThenDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.record(t, 150, "")
	assert.Equal(t, string(domain.StatusDepositPaid), first.BookingStatus)
	assert.Equal(t, 150.0, first.TotalPaid)
	assert.Equal(t, 400.0, first.GrandTotal)
	assert.Equal(t, "2026-02-01", first.Payment.PaymentDate)

	second := e.record(t, 250, "")
	assert.Equal(t, string(domain.StatusFullyPaid), second.BookingStatus)
	assert.Equal(t, domain.StatusFullyPaid, e.status(t))

	deleted, err := e.svc.Delete(ctx, second.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDepositPaid), deleted.BookingStatus)
	assert.Equal(t, 150.0, deleted.TotalPaid)
	assert.Equal(t, domain.StatusDepositPaid, e.status(t))

	deleted, err = e.svc.Delete(ctx, first.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoDeposit), deleted.BookingStatus)

	list, err := e.svc.ListByBooking(ctx, e.booking)
	require.NoError(t, err)
	assert.Empty(t, list.Payments)
	assert.Zero(t, list.TotalPaid)

	assert.Equal(t, []string{
		events.EventPaymentRecorded,
		events.EventPaymentRecorded,
		events.EventPaymentDeleted,
		events.EventPaymentDeleted,
	}, e.events.types)
}

func TestService_LatePaymentKeepsCancelled(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.bookings.UpdateStatus(context.Background(), e.booking, domain.StatusCancelled))

	resp := e.record(t, 400, "")
	assert.Equal(t, string(domain.StatusCancelled), resp.BookingStatus)
	assert.Equal(t, domain.StatusCancelled, e.status(t))
}

func TestService_IdempotencyKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.record(t, 150, "pay-1")
	replay := e.record(t, 150, "pay-1")

	assert.False(t, first.Replayed)
	assert.True(t, replay.Replayed)
	assert.Equal(t, first.Payment.ID, replay.Payment.ID)
	assert.Equal(t, string(domain.StatusDepositPaid), replay.BookingStatus)

	list, err := e.svc.ListByBooking(ctx, e.booking)
	require.NoError(t, err)
	assert.Len(t, list.Payments, 1)
	assert.Equal(t, 150.0, list.TotalPaid)
}

func TestService_FailedRecordReleasesKey(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Record(ctx, &models.RecordPaymentRequest{
		BookingID:      999,
		Amount:         100,
		PaymentType:    string(domain.PaymentTypeDeposit),
		PaymentMethod:  string(domain.PaymentMethodCash),
		IdempotencyKey: "pay-2",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// ключ освобождён, повтор с корректным бронированием проходит
	resp := e.record(t, 100, "pay-2")
	assert.False(t, resp.Replayed)
}

func TestService_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RecordPaymentRequest
	}{
		{"zero amount", models.RecordPaymentRequest{BookingID: 10, Amount: 0, PaymentType: "deposit", PaymentMethod: "cash"}},
		{"negative amount", models.RecordPaymentRequest{BookingID: 10, Amount: -5, PaymentType: "deposit", PaymentMethod: "cash"}},
		{"unknown type", models.RecordPaymentRequest{BookingID: 10, Amount: 5, PaymentType: "gift", PaymentMethod: "cash"}},
		{"unknown method", models.RecordPaymentRequest{BookingID: 10, Amount: 5, PaymentType: "deposit", PaymentMethod: "crypto"}},
		{"no booking", models.RecordPaymentRequest{Amount: 5, PaymentType: "deposit", PaymentMethod: "cash"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := e.svc.Record(ctx, &req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Equal(t, domain.StatusPreliminary, e.status(t))
}

func TestService_NotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Delete(ctx, 12345)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = e.svc.ListByBooking(ctx, 777)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ConcurrentPaymentsNoLostUpdate(t *testing.T) {
	e := newEnv(t)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.Record(context.Background(), &models.RecordPaymentRequest{
				BookingID:     e.booking,
				Amount:        100,
				PaymentType:   string(domain.PaymentTypePartial),
				PaymentMethod: string(domain.PaymentMethodCash),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, domain.StatusFullyPaid, e.status(t))
}
