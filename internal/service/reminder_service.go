package service

import (
	"context"
	"fmt"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/pkg/mailer"
	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"
)

// Reminder windows. A subscription gets at most one mail per tier per
// billing period; renewal resets all three flags together.
const (
	renewalReminderWindow = 7 * 24 * time.Hour
	expiryReminderWindow  = 24 * time.Hour
	graceReminderWindow   = 3 * 24 * time.Hour
)

type IReminderService interface {
	RunDispatch(ctx context.Context) (int, error)
}

type reminderService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
	frontendURL  string

	now func() time.Time
}

func NewReminderService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
	frontendURL string,
) IReminderService {
	return &reminderService{
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
		frontendURL:  frontendURL,
		now:          time.Now,
	}
}

// RunDispatch sends every reminder currently due across the three tiers and
// returns how many mails went out. The sent flag is stamped after the send
// attempt, success or not, so a flapping SMTP server cannot spam a buyer on
// every tick.
func (s *reminderService) RunDispatch(ctx context.Context) (int, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SubscriptionRepository()

	sent := 0

	// Tier 1: active subscriptions expiring within a week.
	upcoming, err := repo.GetSubscriptionsExpiringBetween(ctx, now, now.Add(renewalReminderWindow))
	if err != nil {
		return sent, fmt.Errorf("failed to load expiring subscriptions: %w", err)
	}
	for _, sub := range upcoming {
		if sub.Status != entity.SubscriptionStatusActive {
			continue
		}
		if !sub.RenewalReminderSent {
			sent += s.dispatch(ctx, repo, sub, contract.TierExpiringSoon)
			continue
		}
		// Tier 2: the last day before expiry.
		if !sub.ExpiryReminderSent && sub.CurrentPeriodEnd.Sub(now) <= expiryReminderWindow {
			sent += s.dispatch(ctx, repo, sub, contract.TierExpiringTomorrow)
		}
	}

	// Tier 3: recently expired, still inside the win-back window.
	lapsed, err := repo.GetExpiredSubscriptionsInGracePeriod(ctx, now.Add(-graceReminderWindow), now)
	if err != nil {
		return sent, fmt.Errorf("failed to load lapsed subscriptions: %w", err)
	}
	for _, sub := range lapsed {
		if !sub.GraceReminderSent {
			sent += s.dispatch(ctx, repo, sub, contract.TierGracePeriod)
		}
	}

	if sent > 0 {
		s.logger.Info("Reminder", "Dispatch finished", map[string]interface{}{"sent": sent})
	}
	return sent, nil
}

func (s *reminderService) dispatch(ctx context.Context, repo contract.SubscriptionRepository, sub *entity.Subscription, tier contract.ReminderTier) int {
	channelName := s.channelName(ctx, sub)
	renewalLink := fmt.Sprintf("%s/renew?subscription=%s", s.frontendURL, sub.Id)

	sendErr := s.emailService.SendReminder(sub.Contact, string(tier), channelName, sub.CurrentPeriodEnd, renewalLink)
	if sendErr != nil {
		s.logger.Error("Reminder", "Failed to send reminder", map[string]interface{}{
			"subscription_id": sub.Id,
			"tier":            string(tier),
			"error":           sendErr.Error(),
		})
	}

	if err := repo.MarkReminderSent(ctx, sub.Id, tier); err != nil {
		s.logger.Error("Reminder", "Failed to mark reminder sent", map[string]interface{}{
			"subscription_id": sub.Id,
			"tier":            string(tier),
			"error":           err.Error(),
		})
		return 0
	}
	if sendErr != nil {
		return 0
	}
	return 1
}

func (s *reminderService) channelName(ctx context.Context, sub *entity.Subscription) string {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	channel, err := uow.ChannelRepository().FindOne(ctx, specification.ByID{ID: sub.ChannelId})
	if err != nil || channel == nil {
		return "your channel"
	}
	return channel.Name
}
