package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
)

func newReminder(t *testing.T, factory unitofwork.RepositoryFactory, mail *fakeMailer, at time.Time) IReminderService {
	t.Helper()
	svc := NewReminderService(factory, mail, testLogger(t), "https://portal.example")
	svc.(*reminderService).now = func() time.Time { return at }
	return svc
}

func TestReminderSevenDayTierSentOncePerPeriod(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.CurrentPeriodEnd = now.Add(5 * 24 * time.Hour)
		s.NextBillingDate = s.CurrentPeriodEnd
	})

	mail := &fakeMailer{}
	svc := newReminder(t, factory, mail, now)

	sent, err := svc.RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, string(contract.TierExpiringSoon), mail.lastSent().TemplateKind)
	assert.Equal(t, sub.Contact, mail.lastSent().To)

	// Same window again: the flag suppresses a second mail.
	sent, err = svc.RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 1, mail.sentCount())
}

func TestReminderTiersEscalate(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	periodEnd := now.Add(6 * 24 * time.Hour)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.CurrentPeriodEnd = periodEnd
		s.NextBillingDate = periodEnd
	})

	mail := &fakeMailer{}

	// Day 0: seven-day reminder.
	sent, err := newReminder(t, factory, mail, now).RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, string(contract.TierExpiringSoon), mail.lastSent().TemplateKind)

	// Just inside the last day: expiry reminder.
	sent, err = newReminder(t, factory, mail, periodEnd.Add(-12*time.Hour)).RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, string(contract.TierExpiringTomorrow), mail.lastSent().TemplateKind)

	// Expire the subscription, then the grace tier fires once.
	uow := factory.NewUnitOfWork(context.Background())
	ok, err := uow.SubscriptionRepository().TransitionStatus(context.Background(),
		sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusExpired)
	assert.NoError(t, err)
	assert.True(t, ok)

	sent, err = newReminder(t, factory, mail, periodEnd.Add(24*time.Hour)).RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, string(contract.TierGracePeriod), mail.lastSent().TemplateKind)

	sent, err = newReminder(t, factory, mail, periodEnd.Add(36*time.Hour)).RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 3, mail.sentCount())
}

func TestReminderGraceWindowCloses(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	periodEnd := now.Add(-5 * 24 * time.Hour) // lapsed beyond the win-back window

	seedSubscription(t, factory, func(s *entity.Subscription) {
		s.Status = entity.SubscriptionStatusExpired
		s.CurrentPeriodEnd = periodEnd
		s.NextBillingDate = periodEnd
	})

	mail := &fakeMailer{}
	sent, err := newReminder(t, factory, mail, now).RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestReminderFailedSendStillMarksTier(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.CurrentPeriodEnd = now.Add(3 * 24 * time.Hour)
		s.NextBillingDate = s.CurrentPeriodEnd
	})

	mail := &fakeMailer{err: errors.New("smtp down")}
	svc := newReminder(t, factory, mail, now)

	sent, err := svc.RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, sent)

	// The flag is stamped anyway so a flapping mailer cannot spam the
	// buyer on every tick.
	got := findSubscription(t, factory, sub.Id)
	assert.True(t, got.RenewalReminderSent)
}

func TestRenewalRearmsReminders(t *testing.T) {
	factory := newTestFactory()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	periodEnd := now.Add(2 * 24 * time.Hour)

	sub := seedSubscription(t, factory, func(s *entity.Subscription) {
		s.CurrentPeriodEnd = periodEnd
		s.NextBillingDate = periodEnd
		s.RenewalReminderSent = true
		s.ExpiryReminderSent = true
	})

	uow := factory.NewUnitOfWork(context.Background())
	ok, err := uow.SubscriptionRepository().RenewPeriod(context.Background(),
		sub.Id, periodEnd, periodEnd, sub.NextPeriodEnd(periodEnd))
	assert.NoError(t, err)
	assert.True(t, ok)

	// A week before the NEW period end, the seven-day tier fires again.
	newEnd := sub.NextPeriodEnd(periodEnd)
	mail := &fakeMailer{}
	sent, err := newReminder(t, factory, mail, newEnd.Add(-6*24*time.Hour)).RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, string(contract.TierExpiringSoon), mail.lastSent().TemplateKind)
}
