package repository

import (
	"context"
	"time"

	"rekraft-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const sellColumns = `id, submission_id, user_id, device_type, brand, model, year, condition, processor, ram, storage,
	storage_type, screen_size, graphics, operating_system, scratches, dents, screen_condition, keyboard_condition,
	battery_health, charger_included, original_box, functional_issues, name, email, phone, pincode, city, address,
	images, estimated_price, final_price, status, created_at, updated_at`

// SellRepository defines the interface for sell submission data access
type SellRepository interface {
	Create(ctx context.Context, submission *domain.SellSubmission) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SellSubmission, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SellSubmission, error)
	Update(ctx context.Context, id uuid.UUID, fn func(s *domain.SellSubmission) error) (*domain.SellSubmission, error)
}

type sellRepository struct {
	store
}

// NewSellRepository creates a new instance of SellRepository
func NewSellRepository(db *sqlx.DB, queryTimeout time.Duration) SellRepository {
	return &sellRepository{store: newStore(db, queryTimeout)}
}

func (r *sellRepository) Create(ctx context.Context, submission *domain.SellSubmission) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO sell_submissions (` + sellColumns + `)
		VALUES (:id, :submission_id, :user_id, :device_type, :brand, :model, :year, :condition, :processor, :ram,
		        :storage, :storage_type, :screen_size, :graphics, :operating_system, :scratches, :dents,
		        :screen_condition, :keyboard_condition, :battery_health, :charger_included, :original_box,
		        :functional_issues, :name, :email, :phone, :pincode, :city, :address, :images, :estimated_price,
		        :final_price, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return translate(err, "failed to create sell submission")
	}
	return nil
}

func (r *sellRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SellSubmission, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	submission := &domain.SellSubmission{}
	query := `SELECT ` + sellColumns + ` FROM sell_submissions WHERE id = $1`
	if err := r.db.GetContext(ctx, submission, query, id); err != nil {
		return nil, translate(err, "failed to find sell submission")
	}
	return submission, nil
}

func (r *sellRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SellSubmission, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	submissions := []*domain.SellSubmission{}
	query := `SELECT ` + sellColumns + ` FROM sell_submissions WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &submissions, query, userID); err != nil {
		return nil, translate(err, "failed to list sell submissions")
	}
	return submissions, nil
}

// Update locks the submission, applies fn and persists its status.
func (r *sellRepository) Update(ctx context.Context, id uuid.UUID, fn func(s *domain.SellSubmission) error) (*domain.SellSubmission, error) {
	submission := &domain.SellSubmission{}

	err := r.inTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		query := `SELECT ` + sellColumns + ` FROM sell_submissions WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, submission, query, id); err != nil {
			return translate(err, "failed to load sell submission")
		}

		if err := fn(submission); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE sell_submissions SET status = $2, final_price = $3 WHERE id = $1`,
			id, submission.Status, submission.FinalPrice,
		); err != nil {
			return translate(err, "failed to update sell submission")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}
