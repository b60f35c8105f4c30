package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"booking_id",
	"amount",
	"payment_type",
	"payment_date",
	"payment_method",
	"created_at",
}

// Repository репозиторий платежей. Платежи только добавляются и удаляются.
type Repository struct {
	db      DBExecutor
	builder psqlbuilder.Builder
	now     func() time.Time
}

func NewRepository(db DBExecutor, builder psqlbuilder.Builder) *Repository {
	return &Repository{
		db:      db,
		builder: builder,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет платеж
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	query, args, err := r.builder.Insert("payments").
		Columns("booking_id", "amount", "payment_type", "payment_date", "payment_method", "created_at").
		Values(
			payment.BookingID,
			payment.Amount,
			string(payment.PaymentType),
			payment.PaymentDate.Format(domain.DateFormat),
			string(payment.PaymentMethod),
			now,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	payment.CreatedAt = now
	return payment, nil
}

// GetByID получает платеж по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	payment, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan payment: %w", ErrScanRow, err)
	}

	return payment, nil
}

// ListByBooking возвращает платежи бронирования в порядке поступления
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("payment_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan payment: %w", ErrScanRow, err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}

// SumByBooking возвращает сумму платежей по бронированию
func (r *Repository) SumByBooking(ctx context.Context, bookingID int64) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("COALESCE(SUM(amount), 0)").
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumByBooking - build select query: %v", ErrBuildQuery, err)
	}

	var total float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: SumByBooking - scan sum: %w", ErrScanRow, err)
	}

	return total, nil
}

// Delete удаляет платеж
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("payments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		payment     domain.Payment
		paymentType string
		paymentDate string
		method      string
		createdAt   sql.NullTime
	)

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&paymentType,
		&paymentDate,
		&method,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, paymentDate)
	if err != nil {
		return nil, fmt.Errorf("parse payment_date %q: %w", paymentDate, err)
	}

	payment.PaymentType = domain.PaymentType(paymentType)
	payment.PaymentDate = date
	payment.PaymentMethod = domain.PaymentMethod(method)
	payment.CreatedAt = createdAt.Time

	return &payment, nil
}
