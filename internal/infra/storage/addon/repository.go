package addon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/m04kA/SMC-VenueCRM/internal/domain"
	"github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Repository репозиторий каталога дополнительных услуг и позиций бронирований
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

// CreateService добавляет услугу в каталог
func (r *Repository) CreateService(ctx context.Context, service *domain.AddonService) (*domain.AddonService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	query, args, err := r.builder.Insert("addon_services").
		Columns("name", "sale_price", "cost_price", "is_active", "created_at", "updated_at").
		Values(service.Name, service.SalePrice, service.CostPrice, service.IsActive, now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&service.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateService
		}
		return nil, fmt.Errorf("%w: CreateService - execute insert: %w", ErrExecQuery, err)
	}

	service.CreatedAt = now
	service.UpdatedAt = now
	return service, nil
}

// GetServiceByID получает услугу каталога по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.AddonService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("id", "name", "sale_price", "cost_price", "is_active", "created_at", "updated_at").
		From("addon_services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %w", ErrScanRow, err)
	}

	return service, nil
}

// ListServices возвращает каталог, при activeOnly только активные позиции
func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]*domain.AddonService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select("id", "name", "sale_price", "cost_price", "is_active", "created_at", "updated_at").
		From("addon_services").
		OrderBy("name ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.AddonService, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan service: %w", ErrScanRow, err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}

// AddToBooking добавляет позицию к бронированию
func (r *Repository) AddToBooking(ctx context.Context, line *domain.BookingAddon) (*domain.BookingAddon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	query, args, err := r.builder.Insert("booking_addons").
		Columns("booking_id", "service_id", "quantity", "sale_price", "cost_price", "created_at").
		Values(line.BookingID, line.ServiceID, line.Quantity, line.SalePrice, line.CostPrice, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddToBooking - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&line.ID); err != nil {
		return nil, fmt.Errorf("%w: AddToBooking - execute insert: %w", ErrExecQuery, err)
	}

	line.CreatedAt = now
	return line, nil
}

// GetBookingAddon получает позицию бронирования по ID
func (r *Repository) GetBookingAddon(ctx context.Context, id int64) (*domain.BookingAddon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.lineSelect().
		Where(squirrel.Eq{"ba.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingAddon - build select query: %v", ErrBuildQuery, err)
	}

	line, err := scanLine(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingAddonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingAddon - scan line: %w", ErrScanRow, err)
	}

	return line, nil
}

// ListByBooking возвращает позиции бронирования с названием услуги
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingAddon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.lineSelect().
		Where(squirrel.Eq{"ba.booking_id": bookingID}).
		OrderBy("ba.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	lines := make([]*domain.BookingAddon, 0)
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan line: %w", ErrScanRow, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %w", ErrScanRow, err)
	}

	return lines, nil
}

// DeleteBookingAddon удаляет позицию бронирования
func (r *Repository) DeleteBookingAddon(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("booking_addons").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBookingAddon - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBookingAddon - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBookingAddon - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingAddonNotFound
	}

	return nil
}

func (r *Repository) lineSelect() squirrel.SelectBuilder {
	return r.builder.Select(
		"ba.id",
		"ba.booking_id",
		"ba.service_id",
		"s.name",
		"ba.quantity",
		"ba.sale_price",
		"ba.cost_price",
		"ba.created_at",
	).
		From("booking_addons ba").
		Join("addon_services s ON s.id = ba.service_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.AddonService, error) {
	var (
		service              domain.AddonService
		createdAt, updatedAt sql.NullTime
	)
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.SalePrice,
		&service.CostPrice,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time
	return &service, nil
}

func scanLine(row rowScanner) (*domain.BookingAddon, error) {
	var (
		line      domain.BookingAddon
		createdAt sql.NullTime
	)
	err := row.Scan(
		&line.ID,
		&line.BookingID,
		&line.ServiceID,
		&line.ServiceName,
		&line.Quantity,
		&line.SalePrice,
		&line.CostPrice,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	line.CreatedAt = createdAt.Time
	return &line, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
