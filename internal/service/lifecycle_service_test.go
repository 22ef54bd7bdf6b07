package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newLifecycle(t *testing.T, factory unitofwork.RepositoryFactory, gw *fakeGateway, at time.Time) ILifecycleService {
	t.Helper()
	svc := NewLifecycleService(factory, gw, nil, testLogger(t))
	svc.(*lifecycleService).now = func() time.Time { return at }
	return svc
}

func TestSweepExpiresPastDueSubscription(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Autopay = false
		s.CurrentPeriodEnd = now.Add(-2 * time.Hour)
		s.NextBillingDate = now.Add(-2 * time.Hour)
	})

	// Give the subscriber a live grant so we can watch it get revoked.
	uow := factory.NewUnitOfWork(context.Background())
	err := uow.AccessRepository().UpsertGrant(context.Background(), &entity.AccessGrant{
		Id:             uuid.New(),
		SubscriptionId: sub.Id,
		PrincipalId:    *sub.PrincipalId,
		ChannelId:      sub.ChannelId,
		AccessGranted:  true,
		ExpiresAt:      sub.CurrentPeriodEnd,
	})
	assert.NoError(t, err)

	svc := newLifecycle(t, factory, &fakeGateway{}, now)
	res, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Expired)
	assert.Equal(t, 0, res.Renewed)

	got := findSubscription(t, factory, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusExpired, got.Status)

	grant, err := uow.AccessRepository().FindGrant(context.Background(), *sub.PrincipalId, sub.ChannelId)
	assert.NoError(t, err)
	assert.False(t, grant.AccessGranted)
}

func TestSweepSkipsSubscriptionNotYetDue(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.CurrentPeriodEnd = now.Add(72 * time.Hour)
		s.NextBillingDate = now.Add(72 * time.Hour)
	})

	svc := newLifecycle(t, factory, &fakeGateway{}, now)
	res, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Expired)
	assert.Equal(t, 0, res.Renewed)

	got := findSubscription(t, factory, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusActive, got.Status)
}

func TestSweepRenewsAutopaySubscription(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	periodEnd := now.Add(-1 * time.Hour)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Autopay = true
		s.Cadence = entity.CadenceMonthly
		s.CurrentPeriodEnd = periodEnd
		s.NextBillingDate = periodEnd
		s.RenewalReminderSent = true
		s.ExpiryReminderSent = true
	})

	gw := &fakeGateway{}
	svc := newLifecycle(t, factory, gw, now)
	res, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Renewed)
	assert.Equal(t, 0, res.Expired)
	assert.Equal(t, 1, gw.renewalCount())

	got := findSubscription(t, factory, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusActive, got.Status)
	// The new period anchors at the renewal moment: a full cadence from the
	// sweep that charged the renewal.
	assert.True(t, got.CurrentPeriodStart.Equal(now))
	assert.True(t, got.CurrentPeriodEnd.Equal(now.AddDate(0, 1, 0)))
	assert.True(t, got.NextBillingDate.Equal(got.CurrentPeriodEnd))
	// Renewal arms the next round of reminders.
	assert.False(t, got.RenewalReminderSent)
	assert.False(t, got.ExpiryReminderSent)
	assert.False(t, got.GraceReminderSent)

	// The renewal charge is recorded as a successful payment.
	uow := factory.NewUnitOfWork(context.Background())
	payments, err := uow.PaymentRepository().FindAll(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, payments, 1) {
		assert.Equal(t, entity.PaymentStatusSuccess, payments[0].Status)
		assert.True(t, payments[0].Autopay)
		assert.Equal(t, sub.Price, payments[0].Amount)
	}
}

func TestSweepExpiresAutopayWhenChargeFails(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Autopay = true
		s.CurrentPeriodEnd = now.Add(-1 * time.Hour)
		s.NextBillingDate = now.Add(-1 * time.Hour)
	})

	gw := &fakeGateway{renewalErr: errors.New("card declined")}
	svc := newLifecycle(t, factory, gw, now)
	res, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Expired)
	assert.Equal(t, 0, res.Renewed)

	got := findSubscription(t, factory, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusExpired, got.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Autopay = false
		s.CurrentPeriodEnd = now.Add(-1 * time.Hour)
		s.NextBillingDate = now.Add(-1 * time.Hour)
	})

	svc := newLifecycle(t, factory, &fakeGateway{}, now)

	first, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Expired)

	second, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Expired)
	assert.Equal(t, 0, second.Renewed)
}

func TestSweepLeavesPausedSubscriptionAlone(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Status = entity.SubscriptionStatusPaused
		s.CurrentPeriodEnd = now.Add(-48 * time.Hour)
		s.NextBillingDate = now.Add(-48 * time.Hour)
	})

	svc := newLifecycle(t, factory, &fakeGateway{}, now)
	res, err := svc.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Expired)

	got := findSubscription(t, factory, sub.Id)
	assert.Equal(t, entity.SubscriptionStatusPaused, got.Status)
}

func TestProcessSubscriptionRenewalGuardLosesGracefully(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Autopay = true
		s.CurrentPeriodEnd = now.Add(-1 * time.Hour)
		s.NextBillingDate = now.Add(-1 * time.Hour)
	})

	// Simulate a concurrent sweep having renewed already: the stored row
	// advanced, but ProcessSubscription still holds the stale snapshot.
	uow := factory.NewUnitOfWork(context.Background())
	ok, err := uow.SubscriptionRepository().RenewPeriod(context.Background(),
		sub.Id, sub.NextBillingDate, sub.CurrentPeriodEnd, sub.NextPeriodEnd(sub.CurrentPeriodEnd))
	assert.NoError(t, err)
	assert.True(t, ok)

	svc := newLifecycle(t, factory, &fakeGateway{}, now)
	renewed, expired, err := svc.ProcessSubscription(context.Background(), sub)
	assert.NoError(t, err)
	// The stale caller reports success without double-advancing the period.
	assert.True(t, renewed)
	assert.False(t, expired)

	got := findSubscription(t, factory, sub.Id)
	assert.True(t, got.CurrentPeriodEnd.Equal(sub.NextPeriodEnd(sub.CurrentPeriodEnd)))
}
