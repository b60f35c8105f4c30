package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueCRM/pkg/types"
)

// pgExclusionViolation код нарушения EXCLUDE constraint bookings_no_overlap
const pgExclusionViolation = "23P01"

var columns = []string{
	"id",
	"client_id",
	"booking_date",
	"start_time",
	"end_time",
	"hours",
	"hourly_rate",
	"rental_cost",
	"deposit_amount",
	"status",
	"guest_count",
	"event_type",
	"notes",
	"is_archived",
	"calendar_event_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	builder psqlbuilder.Builder
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, builder psqlbuilder.Builder) *Repository {
	return &Repository{
		db:      db,
		builder: builder,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create создает новое бронирование.
// Проверка пересечений выполняется вызывающим кодом в той же транзакции,
// на Postgres дополнительно срабатывает EXCLUDE constraint.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	query, args, err := r.builder.Insert("bookings").
		Columns(
			"client_id",
			"booking_date",
			"start_time",
			"end_time",
			"hours",
			"hourly_rate",
			"rental_cost",
			"deposit_amount",
			"status",
			"guest_count",
			"event_type",
			"notes",
			"is_archived",
			"created_at",
			"updated_at",
		).
		Values(
			booking.ClientID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime.String(),
			booking.EndTime.String(),
			booking.Hours,
			booking.HourlyRate,
			booking.RentalCost,
			booking.DepositAmount,
			string(booking.Status),
			booking.GuestCount,
			booking.EventType,
			booking.Notes,
			booking.IsArchived,
			now,
			now,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		if isExclusionViolation(err) {
			return nil, fmt.Errorf("%w: Create: %w", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE на Postgres).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) && !dbmetrics.IsReadOnly(ctx) {
		selectBuilder = r.builder.ForUpdate(selectBuilder)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования с фильтрацией.
// Поддерживает фильтрацию по:
// - Клиенту (ClientID)
// - Периоду (StartDate, EndDate), даты включительно
// - Статусу (Status)
// - Только занимающим площадку (BlockingOnly): без отменённых и архивных
//
// Если используется транзакция на запись и BlockingOnly, строки блокируются FOR UPDATE
// (для usecase создания и переноса бронирования).
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(columns...).From("bookings")

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	if filter.BlockingOnly {
		excluded := make([]string, len(domain.BlockingExcludedStatuses))
		for i, s := range domain.BlockingExcludedStatuses {
			excluded[i] = string(s)
		}
		selectBuilder = selectBuilder.
			Where(squirrel.NotEq{"status": excluded}).
			Where(squirrel.Eq{"is_archived": false})
	} else if !filter.IncludeArchived {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_archived": false})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC", "start_time ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) && !dbmetrics.IsReadOnly(ctx) && filter.BlockingOnly {
		selectBuilder = r.builder.ForUpdate(selectBuilder)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update сохраняет изменяемые поля бронирования: время, стоимость, гостей, тип события, заметки
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	query, args, err := r.builder.Update("bookings").
		Set("booking_date", booking.BookingDate.Format(domain.DateFormat)).
		Set("start_time", booking.StartTime.String()).
		Set("end_time", booking.EndTime.String()).
		Set("hours", booking.Hours).
		Set("hourly_rate", booking.HourlyRate).
		Set("rental_cost", booking.RentalCost).
		Set("deposit_amount", booking.DepositAmount).
		Set("guest_count", booking.GuestCount).
		Set("event_type", booking.EventType).
		Set("notes", booking.Notes).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return fmt.Errorf("%w: Update: %w", ErrSlotNotAvailable, err)
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	if err := requireAffected(result, "Update"); err != nil {
		return err
	}

	booking.UpdatedAt = now
	return nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return r.updateFields(ctx, "UpdateStatus", id, map[string]interface{}{
		"status": string(status),
	})
}

// Archive помечает бронирование архивным, архивные не занимают площадку
func (r *Repository) Archive(ctx context.Context, id int64) error {
	return r.updateFields(ctx, "Archive", id, map[string]interface{}{
		"is_archived": true,
	})
}

// SetCalendarEventID сохраняет ID события во внешнем календаре
func (r *Repository) SetCalendarEventID(ctx context.Context, id int64, eventID string) error {
	return r.updateFields(ctx, "SetCalendarEventID", id, map[string]interface{}{
		"calendar_event_id": eventID,
	})
}

// ClearCalendarEventID убирает связь с удалённым событием календаря
func (r *Repository) ClearCalendarEventID(ctx context.Context, id int64) error {
	return r.updateFields(ctx, "ClearCalendarEventID", id, map[string]interface{}{
		"calendar_event_id": nil,
	})
}

func (r *Repository) updateFields(ctx context.Context, op string, id int64, fields map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fields["updated_at"] = r.now()
	query, args, err := r.builder.Update("bookings").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return fmt.Errorf("%w: %s: %w", ErrSlotNotAvailable, op, err)
		}
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	return requireAffected(result, op)
}

func requireAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking         domain.Booking
		bookingDate     string
		startTime       string
		endTime         string
		status          string
		guestCount      sql.NullInt64
		eventType       sql.NullString
		notes           sql.NullString
		calendarEventID sql.NullString
		createdAt       sql.NullTime
		updatedAt       sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&bookingDate,
		&startTime,
		&endTime,
		&booking.Hours,
		&booking.HourlyRate,
		&booking.RentalCost,
		&booking.DepositAmount,
		&status,
		&guestCount,
		&eventType,
		&notes,
		&booking.IsArchived,
		&calendarEventID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, bookingDate)
	if err != nil {
		return nil, fmt.Errorf("parse booking_date %q: %w", bookingDate, err)
	}

	booking.BookingDate = date
	booking.StartTime = types.TimeString(startTime)
	booking.EndTime = types.TimeString(endTime)
	booking.Status = domain.BookingStatus(status)
	if guestCount.Valid {
		v := int(guestCount.Int64)
		booking.GuestCount = &v
	}
	booking.EventType = nullString(eventType)
	booking.Notes = nullString(notes)
	booking.CalendarEventID = nullString(calendarEventID)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgExclusionViolation
}
