package service

import (
	"context"
	"testing"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newPortal(t *testing.T, at time.Time) (ISubscriptionService, unitofwork.RepositoryFactory) {
	t.Helper()
	factory := newTestFactory()

	lifecycle := NewLifecycleService(factory, &fakeGateway{}, nil, testLogger(t))
	lifecycle.(*lifecycleService).now = func() time.Time { return at }

	svc := NewSubscriptionService(factory, lifecycle, testLogger(t))
	svc.(*subscriptionService).now = func() time.Time { return at }
	return svc, factory
}

func TestCancelSubscription(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, factory := newPortal(t, now)
	sub := seedSubscription(t, factory, nil)

	err := svc.CancelSubscription(context.Background(), sub.Id, "tg-1001")
	assert.NoError(t, err)

	stored := findSubscription(t, factory, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)

	// Cancelled is terminal.
	err = svc.CancelSubscription(context.Background(), sub.Id, "tg-1001")
	assert.Error(t, err)
}

func TestCancelSubscriptionRequiresOwner(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, factory := newPortal(t, now)
	sub := seedSubscription(t, factory, nil)

	err := svc.CancelSubscription(context.Background(), sub.Id, "tg-somebody-else")
	assert.Error(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, findSubscription(t, factory, sub.Id).Status)
}

func TestGetStatusProcessesLifecycleOnDemand(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, factory := newPortal(t, now)

	// Lapsed yesterday but no sweep has run since.
	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.CurrentPeriodEnd = now.Add(-24 * time.Hour)
		s.NextBillingDate = s.CurrentPeriodEnd
	})

	res, err := svc.GetSubscriptionStatus(context.Background(), sub.Id)
	assert.NoError(t, err)
	assert.Equal(t, string(entity.SubscriptionStatusExpired), res.Status)
	assert.False(t, res.AccessGranted)
	assert.Equal(t, entity.SubscriptionStatusExpired, findSubscription(t, factory, sub.Id).Status)
}

func TestGetStatusByCode(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, factory := newPortal(t, now)
	sub := seedSubscription(t, factory, nil)

	code := &entity.AccessCode{
		Id:             uuid.New(),
		Code:           "0123456789abcdef0123456789abcdef",
		SubscriptionId: sub.Id,
		ExpiresAt:      now.Add(10 * time.Minute),
		CreatedAt:      now,
	}
	uow := factory.NewUnitOfWork(context.Background())
	assert.NoError(t, uow.AccessRepository().CreateCode(context.Background(), code))

	res, err := svc.GetSubscriptionStatusByCode(context.Background(), code.Code)
	assert.NoError(t, err)
	assert.Equal(t, sub.Id, res.SubscriptionId)
	assert.Equal(t, string(entity.SubscriptionStatusActive), res.Status)

	_, err = svc.GetSubscriptionStatusByCode(context.Background(), "no-such-code")
	assert.Error(t, err)
}
