package check_overlap

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueCRM/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-VenueCRM/pkg/logger"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueCRM/pkg/ptr"
	"github.com/m04kA/SMC-VenueCRM/pkg/txmanager"
)

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newUseCase(t *testing.T) (*UseCase, *sql.DB) {
	t.Helper()
	db := storagetest.NewSQLite(t)
	_, err := db.Exec(`INSERT INTO clients (id, name) VALUES (1, 'Anna')`)
	require.NoError(t, err)

	uc := NewUseCase(
		bookingRepo.NewRepository(db, storagetest.Builder()),
		txmanager.NewTransactionManager(db, psqlbuilder.SQLite, nil),
		logger.NewNop(),
	)
	return uc, db
}

func insert(t *testing.T, db *sql.DB, id int64, day, start, end, status string, archived bool) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO bookings (id, client_id, booking_date, start_time, end_time, hours, hourly_rate, rental_cost, status, is_archived)
		VALUES (?, 1, ?, ?, ?, 1, 1, 1, ?, ?)`, id, day, start, end, status, archived)
	require.NoError(t, err)
}

func TestExecute_SameDateConflict(t *testing.T) {
	uc, db := newUseCase(t)
	insert(t, db, 1, "2026-02-14", "18:00", "22:00", "deposit_paid", false)

	resp, err := uc.Execute(context.Background(), &Request{Date: date("2026-02-14"), StartTime: "21:00", EndTime: "23:00"})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(1), resp.Conflicts[0].ID)
	assert.Equal(t, domain.StatusDepositPaid, resp.Conflicts[0].Status)

	// касание границ не конфликт
	resp, err = uc.Execute(context.Background(), &Request{Date: date("2026-02-14"), StartTime: "22:00", EndTime: "23:00"})
	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Empty(t, resp.Conflicts)
}

func TestExecute_IgnoresCancelledArchivedAndExcluded(t *testing.T) {
	uc, db := newUseCase(t)
	insert(t, db, 1, "2026-02-14", "18:00", "22:00", "cancelled", false)
	insert(t, db, 2, "2026-02-14", "18:00", "22:00", "fully_paid", true)
	insert(t, db, 3, "2026-02-14", "19:00", "20:00", "preliminary", false)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:      date("2026-02-14"),
		StartTime: "18:00",
		EndTime:   "22:00",
		ExcludeID: ptr.Ptr(int64(3)),
	})
	require.NoError(t, err)
	assert.True(t, resp.Available)
}

func TestExecute_OvernightAcrossDates(t *testing.T) {
	uc, db := newUseCase(t)
	insert(t, db, 1, "2026-02-14", "22:00", "03:00", "no_deposit", false)

	// утро следующего дня пересекается с ночным событием
	resp, err := uc.Execute(context.Background(), &Request{Date: date("2026-02-15"), StartTime: "02:00", EndTime: "05:00"})
	require.NoError(t, err)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(1), resp.Conflicts[0].ID)

	resp, err = uc.Execute(context.Background(), &Request{Date: date("2026-02-15"), StartTime: "03:00", EndTime: "05:00"})
	require.NoError(t, err)
	assert.True(t, resp.Available)

	// ночная заявка накрывает утреннее бронирование следующего дня
	insert(t, db, 2, "2026-02-17", "00:30", "02:00", "preliminary", false)
	resp, err = uc.Execute(context.Background(), &Request{Date: date("2026-02-16"), StartTime: "23:00", EndTime: "01:00"})
	require.NoError(t, err)
	assert.True(t, resp.Overnight)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(2), resp.Conflicts[0].ID)
}

func TestExecute_Symmetry(t *testing.T) {
	intervals := [][2]string{
		{"18:00", "22:00"}, {"21:00", "23:00"}, {"22:00", "23:00"},
		{"10:00", "12:00"}, {"23:00", "02:00"}, {"00:00", "01:00"},
	}

	for _, a := range intervals {
		for _, b := range intervals {
			uc1, db1 := newUseCase(t)
			insert(t, db1, 1, "2026-02-14", a[0], a[1], "preliminary", false)
			r1, err := uc1.Execute(context.Background(), &Request{Date: date("2026-02-14"), StartTime: b[0], EndTime: b[1]})
			require.NoError(t, err)

			uc2, db2 := newUseCase(t)
			insert(t, db2, 1, "2026-02-14", b[0], b[1], "preliminary", false)
			r2, err := uc2.Execute(context.Background(), &Request{Date: date("2026-02-14"), StartTime: a[0], EndTime: a[1]})
			require.NoError(t, err)

			assert.Equal(t, r1.Available, r2.Available, "%v vs %v", a, b)
		}
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Execute(context.Background(), &Request{Date: date("2026-02-14"), StartTime: "25:00", EndTime: "23:00"})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = uc.Execute(context.Background(), &Request{Date: date("2026-02-14"), StartTime: "18:00", EndTime: "7pm"})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = uc.Execute(context.Background(), &Request{StartTime: "18:00", EndTime: "19:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
