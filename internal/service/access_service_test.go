package service

import (
	"context"
	"testing"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newAccess(t *testing.T, factory unitofwork.RepositoryFactory, dir *fakeDirectory, at time.Time) IAccessService {
	t.Helper()
	svc := NewAccessService(factory, dir, nil, testLogger(t))
	svc.(*accessService).now = func() time.Time { return at }
	return svc
}

func TestGenerateAccessCode(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sub := seedSubscription(t, factory, nil)

	svc := newAccess(t, factory, nil, now)

	res, err := svc.GenerateAccessCode(context.Background(), sub.Id)
	assert.NoError(t, err)
	assert.Len(t, res.Code, 32)
	assert.True(t, res.ExpiresAt.Equal(now.Add(AccessCodeTTL)))

	t.Run("rejects inactive subscription", func(t *testing.T) {
		expired := seedSubscription(t, factory, func(s *entity.Subscription) {
			s.Status = entity.SubscriptionStatusExpired
		})
		_, err := svc.GenerateAccessCode(context.Background(), expired.Id)
		assert.Error(t, err)
	})

	t.Run("rejects unknown subscription", func(t *testing.T) {
		_, err := svc.GenerateAccessCode(context.Background(), uuid.New())
		assert.Error(t, err)
	})
}

func TestVerifyAccessCodeHappyPath(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ch := seedChannel(t, factory)
	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.PrincipalId = nil // guest checkout
		s.ChannelId = ch.Id
	})

	dir := &fakeDirectory{}
	svc := newAccess(t, factory, dir, now)

	code, err := svc.GenerateAccessCode(context.Background(), sub.Id)
	assert.NoError(t, err)

	res, err := svc.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{
		Code:        code.Code,
		PrincipalId: "tg-2002",
	})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.ResourceLink, "t.me")

	// First redemption pinned the principal onto the guest subscription.
	got := findSubscription(t, factory, sub.Id)
	if assert.NotNil(t, got.PrincipalId) {
		assert.Equal(t, "tg-2002", *got.PrincipalId)
	}

	// And produced a grant mirroring the billing period.
	uow := factory.NewUnitOfWork(context.Background())
	grant, err := uow.AccessRepository().FindGrant(context.Background(), "tg-2002", ch.Id)
	assert.NoError(t, err)
	if assert.NotNil(t, grant) {
		assert.True(t, grant.AccessGranted)
		assert.True(t, grant.ExpiresAt.Equal(sub.CurrentPeriodEnd))
	}
}

func TestVerifyAccessCodeIsSingleUse(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ch := seedChannel(t, factory)
	sub := seedSubscription(t, factory, func(s *entity.Subscription) { s.ChannelId = ch.Id })

	svc := newAccess(t, factory, &fakeDirectory{}, now)
	code, err := svc.GenerateAccessCode(context.Background(), sub.Id)
	assert.NoError(t, err)

	first, err := svc.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{Code: code.Code, PrincipalId: "tg-1"})
	assert.NoError(t, err)
	assert.True(t, first.Success)

	// Even a different principal cannot replay the code.
	second, err := svc.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{Code: code.Code, PrincipalId: "tg-2"})
	assert.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, ErrKindInvalidOrExpiredCode, second.ErrorKind)
}

func TestVerifyAccessCodeFailures(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ch := seedChannel(t, factory)
	sub := seedSubscription(t, factory, func(s *entity.Subscription) { s.ChannelId = ch.Id })

	svc := newAccess(t, factory, nil, now)

	t.Run("unknown code", func(t *testing.T) {
		res, err := svc.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{Code: "deadbeef", PrincipalId: "tg-1"})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, ErrKindInvalidOrExpiredCode, res.ErrorKind)
	})

	t.Run("expired code", func(t *testing.T) {
		code, err := svc.GenerateAccessCode(context.Background(), sub.Id)
		assert.NoError(t, err)

		late := newAccess(t, factory, nil, now.Add(AccessCodeTTL+time.Minute))
		res, err := late.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{Code: code.Code, PrincipalId: "tg-1"})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, ErrKindInvalidOrExpiredCode, res.ErrorKind)
	})

	t.Run("subscription expired after code issue", func(t *testing.T) {
		code, err := svc.GenerateAccessCode(context.Background(), sub.Id)
		assert.NoError(t, err)

		uow := factory.NewUnitOfWork(context.Background())
		ok, err := uow.SubscriptionRepository().TransitionStatus(context.Background(),
			sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusExpired)
		assert.NoError(t, err)
		assert.True(t, ok)

		res, err := svc.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{Code: code.Code, PrincipalId: "tg-1"})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, ErrKindInvalidOrExpiredCode, res.ErrorKind)

		// The code survives the failed redemption untouched.
		found, err := uow.AccessRepository().FindCode(context.Background(), byCode(code.Code))
		assert.NoError(t, err)
		assert.False(t, found.Used)
	})

	t.Run("subscription pointing at a missing channel", func(t *testing.T) {
		orphan := seedSubscription(t, factory, func(s *entity.Subscription) {
			s.ChannelId = uuid.New() // no such channel record
		})
		code, err := svc.GenerateAccessCode(context.Background(), orphan.Id)
		assert.NoError(t, err)

		res, err := svc.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{Code: code.Code, PrincipalId: "tg-7"})
		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, ErrKindInvalidOrExpiredCode, res.ErrorKind)

		// Nothing was mutated: the code is unspent and no grant exists.
		uow := factory.NewUnitOfWork(context.Background())
		found, err := uow.AccessRepository().FindCode(context.Background(), byCode(code.Code))
		assert.NoError(t, err)
		assert.False(t, found.Used)
		grant, err := uow.AccessRepository().FindGrant(context.Background(), "tg-7", orphan.ChannelId)
		assert.NoError(t, err)
		assert.Nil(t, grant)
	})
}

func TestCheckAccessLazyReconciliation(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	ch := seedChannel(t, factory)
	principal := "tg-3003"
	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.PrincipalId = &principal
		s.ChannelId = ch.Id
		s.CurrentPeriodEnd = now.Add(10 * 24 * time.Hour)
		s.NextBillingDate = s.CurrentPeriodEnd
	})

	uow := factory.NewUnitOfWork(context.Background())
	err := uow.AccessRepository().UpsertGrant(context.Background(), &entity.AccessGrant{
		SubscriptionId: sub.Id,
		PrincipalId:    principal,
		ChannelId:      ch.Id,
		AccessGranted:  true,
		ExpiresAt:      now.Add(-1 * time.Hour), // stale: written last period
	})
	assert.NoError(t, err)

	t.Run("stale grant with live subscription is refreshed", func(t *testing.T) {
		svc := newAccess(t, factory, nil, now)
		res, err := svc.CheckAccess(context.Background(), principal, ch.Id)
		assert.NoError(t, err)
		assert.True(t, res.AccessGranted)
		assert.True(t, res.ExpiresAt.Equal(sub.CurrentPeriodEnd))
	})

	t.Run("stale grant with expired subscription is revoked", func(t *testing.T) {
		ok, err := uow.SubscriptionRepository().TransitionStatus(context.Background(),
			sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusExpired)
		assert.NoError(t, err)
		assert.True(t, ok)

		svc := newAccess(t, factory, nil, now.Add(11*24*time.Hour))
		res, err := svc.CheckAccess(context.Background(), principal, ch.Id)
		assert.NoError(t, err)
		assert.False(t, res.AccessGranted)

		grant, err := uow.AccessRepository().FindGrant(context.Background(), principal, ch.Id)
		assert.NoError(t, err)
		assert.False(t, grant.AccessGranted)
	})

	t.Run("no grant means no access", func(t *testing.T) {
		svc := newAccess(t, factory, nil, now)
		res, err := svc.CheckAccess(context.Background(), "tg-nobody", ch.Id)
		assert.NoError(t, err)
		assert.False(t, res.AccessGranted)
	})
}
