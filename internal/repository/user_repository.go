package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rekraft-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password_hash, phone, role, cart, addresses, created_at, updated_at`

// UserRepository defines the interface for user data access. Cart and address
// mutations are serialized per user by locking the row for the duration of fn.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateCart(ctx context.Context, userID uuid.UUID, fn func(cart *domain.Cart) error) (*domain.Cart, error)
	UpdateAddresses(ctx context.Context, userID uuid.UUID, fn func(book *domain.AddressBook) error) (domain.AddressBook, error)
}

type userRepository struct {
	store
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *sqlx.DB, queryTimeout time.Duration) UserRepository {
	return &userRepository{store: newStore(db, queryTimeout)}
}

// Create inserts a new user. A duplicate email yields domain.ErrConflict.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (:id, :name, :email, :password_hash, :phone, :role, :cart, :addresses, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return translate(err, "failed to create user")
	}
	return nil
}

// FindByEmail retrieves a user by email, case-insensitively.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, user, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, translate(err, "failed to find user by email")
	}
	return user, nil
}

// FindByID retrieves a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, user, query, id); err != nil {
		return nil, translate(err, "failed to find user by ID")
	}
	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return translate(err, "failed to update password")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateCart loads the cart under a row lock, applies fn and writes the
// result back in the same transaction.
func (r *userRepository) UpdateCart(ctx context.Context, userID uuid.UUID, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	var cart domain.Cart

	err := r.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &cart, `SELECT cart FROM users WHERE id = $1 FOR UPDATE`, userID); err != nil {
			return translate(err, "failed to load cart")
		}

		if err := fn(&cart); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET cart = $2 WHERE id = $1`, userID, cart); err != nil {
			return translate(err, "failed to save cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateAddresses loads the address book under a row lock, applies fn and
// writes the result back in the same transaction.
func (r *userRepository) UpdateAddresses(ctx context.Context, userID uuid.UUID, fn func(book *domain.AddressBook) error) (domain.AddressBook, error) {
	var book domain.AddressBook

	err := r.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &book, `SELECT addresses FROM users WHERE id = $1 FOR UPDATE`, userID); err != nil {
			return translate(err, "failed to load addresses")
		}

		if err := fn(&book); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET addresses = $2 WHERE id = $1`, userID, book); err != nil {
			return translate(err, "failed to save addresses")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}
