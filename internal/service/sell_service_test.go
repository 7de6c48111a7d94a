package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rekraft-backend/internal/domain"
	"rekraft-backend/internal/events"
	"rekraft-backend/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedYear(year int) func() time.Time {
	return func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
}

func newTestSellService() (SellService, *mockSellRepository, *mockUserRepository, *recordingPublisher) {
	subs := newMockSellRepository()
	users := newMockUserRepository()
	publisher := &recordingPublisher{}
	svc := NewSellService(subs, users, pricing.NewEstimator(fixedYear(2025)), publisher, zap.NewNop())
	return svc, subs, users, publisher
}

func sampleSubmission() domain.SellSubmission {
	return domain.SellSubmission{
		Brand:           "Dell",
		Model:           "Latitude 7490",
		Year:            "2022",
		Condition:       "Good",
		RAM:             "16GB",
		Storage:         "512GB",
		StorageType:     "ssd",
		ChargerIncluded: true,
		Pincode:         "560001",
		City:            "Bengaluru",
		Address:         "12 MG Road",
	}
}

func sampleDraft() SellDraft {
	charger := true
	return SellDraft{Submission: sampleSubmission(), ChargerIncluded: &charger}
}

func TestSellService_SubmitComputesEstimateAndDefaults(t *testing.T) {
	svc, _, users, publisher := newTestSellService()
	user := users.add(newTestUser("asha@example.com"))

	draft := sampleDraft()
	draft.Submission.EstimatedPrice = 999999
	draft.Submission.Status = domain.SellCompleted

	sub, err := svc.Submit(context.Background(), user.ID, draft)
	require.NoError(t, err)

	want := pricing.Estimate(AttributesOf(sampleSubmission()), 2025)
	assert.Equal(t, want, sub.EstimatedPrice)
	assert.Equal(t, domain.SellSubmitted, sub.Status)
	assert.Equal(t, "laptop", sub.DeviceType)
	assert.Equal(t, user.Name, sub.Name)
	assert.Equal(t, user.Email, sub.Email)
	assert.Equal(t, user.Phone, sub.Phone)
	assert.Regexp(t, `^RK\d{13}[0-9A-Z]{5}$`, sub.SubmissionID)
	assert.Equal(t, []string{events.TypeSellSubmitted}, publisher.types())
}

func TestSellService_SubmitStoresDefaultsForBlankFields(t *testing.T) {
	svc, _, users, _ := newTestSellService()
	user := users.add(newTestUser("asha@example.com"))

	raw := sampleSubmission()
	raw.StorageType = ""
	raw.KeyboardCondition = ""
	raw.ChargerIncluded = true // ignored, the form left the field out

	sub, err := svc.Submit(context.Background(), user.ID, SellDraft{Submission: raw})
	require.NoError(t, err)

	assert.Equal(t, "ssd", sub.StorageType)
	assert.Equal(t, "working", sub.KeyboardCondition)
	assert.True(t, sub.ChargerIncluded)

	// The estimate sees the form as entered: no storage type or charger bonus.
	entered := raw
	entered.ChargerIncluded = false
	assert.Equal(t, pricing.Estimate(AttributesOf(entered), 2025), sub.EstimatedPrice)
	assert.Less(t, sub.EstimatedPrice, pricing.Estimate(AttributesOf(sampleSubmission()), 2025))
}

func TestSellService_SubmitKeepsExplicitNoCharger(t *testing.T) {
	svc, _, users, _ := newTestSellService()
	user := users.add(newTestUser("asha@example.com"))

	noCharger := false
	draft := sampleDraft()
	draft.ChargerIncluded = &noCharger

	sub, err := svc.Submit(context.Background(), user.ID, draft)
	require.NoError(t, err)
	assert.False(t, sub.ChargerIncluded)
}

func TestSellService_SubmitMissingFields(t *testing.T) {
	svc, subs, users, _ := newTestSellService()
	user := users.add(newTestUser("asha@example.com"))

	_, err := svc.Submit(context.Background(), user.ID, SellDraft{Submission: domain.SellSubmission{Brand: "HP"}})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["model"])
	assert.True(t, fields["pincode"])
	assert.False(t, fields["email"], "email defaults from the account")
	assert.Empty(t, subs.subs)
}

func TestSellService_OwnershipAndCancel(t *testing.T) {
	svc, _, users, _ := newTestSellService()
	owner := users.add(newTestUser("asha@example.com"))
	ctx := context.Background()

	sub, err := svc.Submit(ctx, owner.ID, sampleDraft())
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), sub.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Cancel(ctx, uuid.New(), sub.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	cancelled, err := svc.Cancel(ctx, owner.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SellCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, owner.ID, sub.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
