package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) SumByBooking(ctx context.Context, bookingID int64) (float64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(float64), args.Error(1)
}

type mockAddonRepo struct{ mock.Mock }

func (m *mockAddonRepo) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingAddon, error) {
	args := m.Called(ctx, bookingID)
	if a := args.Get(0); a != nil {
		return a.([]*domain.BookingAddon), args.Error(1)
	}
	return nil, args.Error(1)
}

type passTx struct{ calls int }

func (p *passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type transitions struct{ got [][2]string }

func (t *transitions) IncStatusTransition(from, to string) {
	t.got = append(t.got, [2]string{from, to})
}

type fixture struct {
	bookings *mockBookingRepo
	payments *mockPaymentRepo
	addons   *mockAddonRepo
	tx       *passTx
	metrics  *transitions
	recalc   *Recalculator
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &mockBookingRepo{},
		payments: &mockPaymentRepo{},
		addons:   &mockAddonRepo{},
		tx:       &passTx{},
		metrics:  &transitions{},
	}
	f.recalc = NewRecalculator(f.bookings, f.payments, f.addons, f.tx, f.metrics, logger.NewNop())
	return f
}

func TestRecalc_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.BookingStatus
		rental   float64
		addons   []*domain.BookingAddon
		paid     float64
		expected domain.BookingStatus
	}{
		{"first deposit", domain.StatusPreliminary, 400, nil, 150, domain.StatusDepositPaid},
		{"full payment", domain.StatusDepositPaid, 400, nil, 400, domain.StatusFullyPaid},
		{"overpayment", domain.StatusDepositPaid, 400, nil, 500, domain.StatusFullyPaid},
		{"addons raise grand total", domain.StatusFullyPaid, 300,
			[]*domain.BookingAddon{{SalePrice: 50, Quantity: 2}}, 300, domain.StatusDepositPaid},
		{"all payments removed", domain.StatusFullyPaid, 400, nil, 0, domain.StatusNoDeposit},
		{"no payments yet", domain.StatusPreliminary, 400, nil, 0, domain.StatusPreliminary},
		{"cancelled is terminal", domain.StatusCancelled, 400, nil, 400, domain.StatusCancelled},
		{"rescheduled kept on partial", domain.StatusRescheduled, 400, nil, 100, domain.StatusRescheduled},
		{"rescheduled left on full", domain.StatusRescheduled, 400, nil, 400, domain.StatusFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			f.bookings.On("GetByID", ctx, int64(7)).
				Return(&domain.Booking{ID: 7, Status: tt.status, RentalCost: tt.rental}, nil)
			f.payments.On("SumByBooking", ctx, int64(7)).Return(tt.paid, nil)
			f.addons.On("ListByBooking", ctx, int64(7)).Return(tt.addons, nil)
			if tt.expected != tt.status {
				f.bookings.On("UpdateStatus", ctx, int64(7), tt.expected).Return(nil)
			}

			result, err := f.recalc.Recalc(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, tt.status, result.Previous)
			assert.Equal(t, tt.expected, result.Current)
			assert.Equal(t, 1, f.tx.calls)

			if tt.expected == tt.status {
				f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				assert.Empty(t, f.metrics.got)
			} else {
				f.bookings.AssertExpectations(t)
				assert.Equal(t, [][2]string{{string(tt.status), string(tt.expected)}}, f.metrics.got)
			}
		})
	}
}

func TestRecalc_BookingNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("GetByID", ctx, int64(9)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := f.recalc.Recalc(ctx, 9)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	f.payments.AssertNotCalled(t, "SumByBooking", mock.Anything, mock.Anything)
}

func TestRecalc_VanishedBeforeUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.bookings.On("GetByID", ctx, int64(3)).
		Return(&domain.Booking{ID: 3, Status: domain.StatusPreliminary, RentalCost: 100}, nil)
	f.payments.On("SumByBooking", ctx, int64(3)).Return(50.0, nil)
	f.addons.On("ListByBooking", ctx, int64(3)).Return(nil, nil)
	f.bookings.On("UpdateStatus", ctx, int64(3), domain.StatusDepositPaid).Return(bookingRepo.ErrBookingNotFound)

	_, err := f.recalc.Recalc(ctx, 3)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, f.metrics.got)
}

func TestRecalc_RepositoryError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dbErr := errors.New("connection reset")
	f.bookings.On("GetByID", ctx, int64(1)).
		Return(&domain.Booking{ID: 1, Status: domain.StatusPreliminary, RentalCost: 100}, nil)
	f.payments.On("SumByBooking", ctx, int64(1)).Return(0.0, dbErr)

	_, err := f.recalc.Recalc(ctx, 1)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, dbErr)
}

func TestRecalc_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	booking := &domain.Booking{ID: 5, Status: domain.StatusPreliminary, RentalCost: 400}
	f.bookings.On("GetByID", ctx, int64(5)).Return(booking, nil)
	f.payments.On("SumByBooking", ctx, int64(5)).Return(150.0, nil)
	f.addons.On("ListByBooking", ctx, int64(5)).Return(nil, nil)
	f.bookings.On("UpdateStatus", ctx, int64(5), domain.StatusDepositPaid).
		Run(func(mock.Arguments) { booking.Status = domain.StatusDepositPaid }).
		Return(nil).Once()

	first, err := f.recalc.Recalc(ctx, 5)
	require.NoError(t, err)
	second, err := f.recalc.Recalc(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDepositPaid, first.Current)
	assert.Equal(t, first.Current, second.Current)
	assert.False(t, second.Changed())
	f.bookings.AssertNumberOfCalls(t, "UpdateStatus", 1)
}
