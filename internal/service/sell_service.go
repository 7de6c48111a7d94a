package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/pricing"
	"rekraft-backend/internal/repository"
	"rekraft-backend/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SellDraft is a submission as entered on the form. ChargerIncluded is nil
// when the form left it out; Submission.ChargerIncluded is ignored.
type SellDraft struct {
	Submission      domain.SellSubmission
	ChargerIncluded *bool
}

// Stored values for form fields left blank.
const (
	defaultDeviceType        = "laptop"
	defaultStorageType       = "ssd"
	defaultKeyboardCondition = "working"
)

type SellService interface {
	Submit(ctx context.Context, userID uuid.UUID, draft SellDraft) (*domain.SellSubmission, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.SellSubmission, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.SellSubmission, error)
	Cancel(ctx context.Context, userID, id uuid.UUID) (*domain.SellSubmission, error)
}

type sellService struct {
	submissions repository.SellRepository
	users       repository.UserRepository
	estimator   *pricing.Estimator
	publisher   events.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

func NewSellService(
	submissions repository.SellRepository,
	users repository.UserRepository,
	estimator *pricing.Estimator,
	publisher events.Publisher,
	logger *zap.Logger,
) SellService {
	return &sellService{
		submissions: submissions,
		users:       users,
		estimator:   estimator,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit records a device offer. Contact fields left blank are taken from the
// account. The estimate is computed here from the form as entered, before the
// stored defaults for blank fields are applied.
func (s *sellService) Submit(ctx context.Context, userID uuid.UUID, input SellDraft) (*domain.SellSubmission, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	draft := input.Submission
	draft.ChargerIncluded = input.ChargerIncluded != nil && *input.ChargerIncluded
	if strings.TrimSpace(draft.Name) == "" {
		draft.Name = user.Name
	}
	if strings.TrimSpace(draft.Email) == "" {
		draft.Email = user.Email
	}
	if strings.TrimSpace(draft.Phone) == "" {
		draft.Phone = user.Phone
	}
	if err := validateSubmission(draft); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft.ID = uuid.New()
	draft.SubmissionID = domain.NewReference(now)
	draft.UserID = userID
	draft.Status = domain.SellSubmitted
	draft.FinalPrice = nil
	draft.EstimatedPrice = s.estimator.Estimate(AttributesOf(draft))
	draft.CreatedAt = now
	draft.UpdatedAt = now

	if draft.DeviceType == "" {
		draft.DeviceType = defaultDeviceType
	}
	if draft.StorageType == "" {
		draft.StorageType = defaultStorageType
	}
	if draft.KeyboardCondition == "" {
		draft.KeyboardCondition = defaultKeyboardCondition
	}
	if input.ChargerIncluded == nil {
		draft.ChargerIncluded = true
	}

	if err := s.submissions.Create(ctx, &draft); err != nil {
		return nil, fmt.Errorf("failed to save sell submission: %w", err)
	}

	telemetry.SellSubmissionsTotal.Inc()
	telemetry.SellEstimateRupees.Observe(float64(draft.EstimatedPrice))
	s.logger.Info("Sell submission created",
		zap.String("submission_id", draft.SubmissionID),
		zap.String("brand", draft.Brand),
		zap.Int("estimated_price", draft.EstimatedPrice),
	)
	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeSellSubmitted, draft.SubmissionID, draft)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", events.TypeSellSubmitted), zap.Error(err))
	}
	return &draft, nil
}

func (s *sellService) List(ctx context.Context, userID uuid.UUID) ([]*domain.SellSubmission, error) {
	return s.submissions.ListByUser(ctx, userID)
}

func (s *sellService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.SellSubmission, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("sell submission not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if sub.UserID != userID {
		return nil, fmt.Errorf("sell submission not found: %w", domain.ErrNotFound)
	}
	return sub, nil
}

func (s *sellService) Cancel(ctx context.Context, userID, id uuid.UUID) (*domain.SellSubmission, error) {
	sub, err := s.submissions.Update(ctx, id, func(sub *domain.SellSubmission) error {
		if sub.UserID != userID {
			return fmt.Errorf("sell submission not found: %w", domain.ErrNotFound)
		}
		return sub.Cancel(s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sell submission cancelled", zap.String("submission_id", sub.SubmissionID))
	return sub, nil
}

// AttributesOf maps the form fields of a submission onto estimator inputs.
func AttributesOf(sub domain.SellSubmission) pricing.Attributes {
	return pricing.Attributes{
		Brand:           sub.Brand,
		Year:            pricing.ParseLeadingInt(sub.Year),
		Condition:       sub.Condition,
		RAM:             sub.RAM,
		StorageType:     sub.StorageType,
		StorageSize:     pricing.ParseLeadingInt(sub.Storage),
		ChargerIncluded: sub.ChargerIncluded,
		OriginalBox:     sub.OriginalBox,
	}
}

func validateSubmission(sub domain.SellSubmission) error {
	verr := &domain.ValidationError{}
	required := []struct {
		field string
		value string
	}{
		{"brand", sub.Brand},
		{"model", sub.Model},
		{"year", sub.Year},
		{"condition", sub.Condition},
		{"name", sub.Name},
		{"email", sub.Email},
		{"phone", sub.Phone},
		{"pincode", sub.Pincode},
		{"city", sub.City},
		{"address", sub.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, r.field+" is required")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}
