package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

const (
	kindDefault      = "default"
	kindSerializable = "serializable"
	kindReadOnly     = "read_only"

	// DefaultMaxAttempts число попыток сериализуемой транзакции
	DefaultMaxAttempts = 3
)

// ErrTransaction оборачивает ошибки begin/commit
var ErrTransaction = errors.New("txmanager: transaction error")

// Observer принимает метрики транзакций
type Observer interface {
	ObserveTx(kind string, d time.Duration, err error)
	IncTxRetry(kind string)
}

type nopObserver struct{}

func (nopObserver) ObserveTx(string, time.Duration, error) {}
func (nopObserver) IncTxRetry(string)                      {}

// TransactionManager выполняет функции в транзакции, передавая её через контекст
type TransactionManager struct {
	db          *sql.DB
	dialect     psqlbuilder.Dialect
	observer    Observer
	maxAttempts int
	backoff     time.Duration
}

// NewTransactionManager создает менеджер транзакций.
// observer может быть nil.
func NewTransactionManager(db *sql.DB, dialect psqlbuilder.Dialect, observer Observer) *TransactionManager {
	if observer == nil {
		observer = nopObserver{}
	}
	return &TransactionManager{
		db:          db,
		dialect:     dialect,
		observer:    observer,
		maxAttempts: DefaultMaxAttempts,
		backoff:     10 * time.Millisecond,
	}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, kindDefault, nil, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// На Postgres ошибки сериализации (40001, 40P01) приводят к повтору всей fn.
// SQLite сериализует писателей через BEGIN IMMEDIATE (_txlock=immediate в DSN).
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var opts *sql.TxOptions
	if m.dialect == psqlbuilder.Postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		err = m.run(ctx, kindSerializable, opts, fn)
		if err == nil || !IsRetryable(err) || attempt == m.maxAttempts {
			return err
		}

		m.observer.IncTxRetry(kindSerializable)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.backoff * time.Duration(attempt)):
		}
	}
	return err
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	var opts *sql.TxOptions
	if m.dialect == psqlbuilder.Postgres {
		opts = &sql.TxOptions{ReadOnly: true}
	}
	return m.run(ctx, kindReadOnly, opts, fn)
}

func (m *TransactionManager) run(ctx context.Context, kind string, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// вложенный вызов присоединяется к внешней транзакции
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	started := time.Now()
	defer func() { m.observer.ObserveTx(kind, time.Since(started), err) }()

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txCtx := dbmetrics.WithTx(ctx, tx)
	if kind == kindReadOnly {
		txCtx = dbmetrics.WithReadOnly(txCtx)
	}

	if err = fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}
	return nil
}

// IsRetryable сообщает, стоит ли повторить транзакцию целиком
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}
