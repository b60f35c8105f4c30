package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	addonRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	clientRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/client"
	paymentRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/payment"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueCRM/pkg/txmanager"
)

func newExporter(t *testing.T) *Exporter {
	t.Helper()
	db := storagetest.NewSQLite(t)
	builder := storagetest.Builder()

	for _, stmt := range []string{
		`INSERT INTO clients (id, name) VALUES (1, 'Anna'), (2, 'Boris')`,
		`INSERT INTO addon_services (id, name, sale_price, cost_price, is_active) VALUES (1, 'Cake', 50, 20, 1)`,
		`INSERT INTO bookings (id, client_id, booking_date, start_time, end_time, hours, hourly_rate, rental_cost, deposit_amount, status, event_type, guest_count, is_archived) VALUES
			(1, 1, '2026-02-14', '18:00', '22:00', 4, 60, 240, 60, 'deposit_paid', 'wedding', 60, 0),
			(2, 2, '2026-02-15', '10:00', '12:00', 2, 60, 120, 60, 'preliminary', NULL, NULL, 0),
			(3, 1, '2026-02-16', '10:00', '12:00', 2, 35, 70, 35, 'preliminary', NULL, NULL, 1),
			(4, 1, '2026-03-01', '10:00', '12:00', 2, 60, 120, 60, 'preliminary', NULL, NULL, 0)`,
		`INSERT INTO booking_addons (booking_id, service_id, quantity, sale_price, cost_price) VALUES (1, 1, 2, 50, 20)`,
		`INSERT INTO payments (booking_id, amount, payment_type, payment_date, payment_method) VALUES
			(1, 100, 'deposit', '2026-02-01', 'card'),
			(1, 50.5, 'partial', '2026-02-05', 'cash')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return NewExporter(
		bookingRepo.NewRepository(db, builder),
		paymentRepo.NewRepository(db, builder),
		addonRepo.NewRepository(db, builder),
		clientRepo.NewRepository(db, builder),
		txmanager.NewTransactionManager(db, psqlbuilder.SQLite, nil),
		logger.NewNop(),
	)
}

func period(from, to string) Request {
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)
	return Request{StartDate: start, EndDate: end}
}

func TestExporter_Build(t *testing.T) {
	e := newExporter(t)

	report, err := e.Build(context.Background(), period("2026-02-01", "2026-02-28"))
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	first := report.Rows[0]
	assert.Equal(t, int64(1), first.Booking.ID)
	assert.Equal(t, "Anna", first.ClientName)
	assert.Equal(t, 100.0, first.AddonsTotal)
	assert.Equal(t, 340.0, first.GrandTotal)
	assert.Equal(t, 150.5, first.TotalPaid)
	assert.Equal(t, 189.5, first.Outstanding)

	second := report.Rows[1]
	assert.Equal(t, "Boris", second.ClientName)
	assert.Equal(t, 120.0, second.Outstanding)

	assert.Equal(t, 460.0, report.GrandTotal)
	assert.Equal(t, 150.5, report.TotalPaid)
	assert.Equal(t, 309.5, report.Outstanding)
}

func TestExporter_IncludeArchived(t *testing.T) {
	e := newExporter(t)

	req := period("2026-02-01", "2026-02-28")
	req.IncludeArchived = true
	report, err := e.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 3)
}

func TestExporter_InvalidPeriod(t *testing.T) {
	e := newExporter(t)

	_, err := e.Build(context.Background(), period("2026-03-01", "2026-02-01"))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = e.Build(context.Background(), period("2026-01-01", "2027-06-01"))
	assert.ErrorIs(t, err, ErrPeriodTooLong)
}

func TestExporter_WriteXLSX(t *testing.T) {
	e := newExporter(t)

	var buf bytes.Buffer
	req := period("2026-02-01", "2026-02-28")
	_, err := e.WriteXLSX(context.Background(), &buf, req)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	cell := func(ref string) string {
		v, err := f.GetCellValue(sheetName, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Период: 01.02.2026 - 28.02.2026", cell("A1"))
	assert.Equal(t, "ID", cell("A2"))
	assert.Equal(t, "Остаток", cell("N2"))

	assert.Equal(t, "1", cell("A3"))
	assert.Equal(t, "2026-02-14", cell("B3"))
	assert.Equal(t, "Anna", cell("E3"))
	assert.Equal(t, "wedding", cell("F3"))
	assert.Equal(t, "deposit_paid", cell("H3"))
	assert.Equal(t, "340", cell("L3"))
	assert.Equal(t, "189.5", cell("N3"))

	assert.Equal(t, "Boris", cell("E4"))
	assert.Equal(t, "", cell("F4"))

	assert.Equal(t, "Итого", cell("A5"))
	assert.Equal(t, "309.5", cell("N5"))

	assert.Equal(t, "bookings_2026-02-01_to_2026-02-28.xlsx", FileName(req))
}
