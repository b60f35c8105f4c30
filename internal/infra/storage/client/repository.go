package client

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

var columns = []string{"id", "name", "phone", "email", "source", "notes", "created_at", "updated_at"}

// Repository репозиторий клиентов
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

// Create создает клиента
func (r *Repository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now()
	query, args, err := r.builder.Insert("clients").
		Columns("name", "phone", "email", "source", "notes", "created_at", "updated_at").
		Values(client.Name, client.Phone, client.Email, client.Source, client.Notes, now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&client.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	client.CreatedAt = now
	client.UpdatedAt = now
	return client, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	client, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %w", ErrScanRow, err)
	}

	return client, nil
}

// List возвращает клиентов, search ищет по имени и телефону
func (r *Repository) List(ctx context.Context, search string, limit, offset uint64) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(columns...).
		From("clients").
		OrderBy("name ASC", "id ASC")

	if search != "" {
		pattern := "%" + search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Like{"name": pattern},
			squirrel.Like{"phone": pattern},
		})
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(limit).Offset(offset)
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

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan client: %w", ErrScanRow, err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return clients, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var (
		client               domain.Client
		email, source, notes sql.NullString
		createdAt, updatedAt sql.NullTime
	)
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&email,
		&source,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Email = nullString(email)
	client.Source = nullString(source)
	client.Notes = nullString(notes)
	client.CreatedAt = createdAt.Time
	client.UpdatedAt = updatedAt.Time
	return &client, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
