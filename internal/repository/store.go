package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rekraft-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// DefaultQueryTimeout bounds every repository call when no timeout is configured.
const DefaultQueryTimeout = 10 * time.Second

// Postgres error codes translated into domain error kinds.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"

	// Class 22 covers data exceptions such as values too long for a column
	// or out of range for a numeric type.
	pgDataExceptionClass = "22"
)

type store struct {
	db      *sqlx.DB
	timeout time.Duration
}

func newStore(db *sqlx.DB, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return store{db: db, timeout: timeout}
}

func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// inTx runs fn inside a transaction bounded by the query timeout. fn's error
// rolls the transaction back.
func (s store) inTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err, "failed to begin transaction")
	}

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return translate(err, "failed to commit transaction")
	}
	return nil
}

// translate maps driver errors onto domain error kinds and wraps them with
// the operation description.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domain.ErrTimeout)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrConflict)
		case pgNotNullViolation, pgCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrInvalidInput)
		}
		if strings.HasPrefix(pgErr.Code, pgDataExceptionClass) {
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrInvalidInput)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
