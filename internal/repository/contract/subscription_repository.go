package contract

import (
	"context"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ReminderTier names the three reminder thresholds. The values double as
// mail template kinds.
type ReminderTier string

const (
	TierExpiringSoon     ReminderTier = "expiring_soon"
	TierExpiringTomorrow ReminderTier = "expiring_tomorrow"
	TierGracePeriod      ReminderTier = "grace_period"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	Update(ctx context.Context, sub *entity.Subscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// Ledger verbs consumed by the lifecycle engine and the reminder
	// dispatcher.
	GetActiveSubscriptions(ctx context.Context) ([]*entity.Subscription, error)
	GetSubscriptionsExpiringBetween(ctx context.Context, start, end time.Time) ([]*entity.Subscription, error)
	GetExpiredSubscriptionsInGracePeriod(ctx context.Context, since, until time.Time) ([]*entity.Subscription, error)

	// TransitionStatus flips status from -> to for one subscription. The
	// write carries the from-guard so that concurrent sweeps and on-demand
	// transitions cannot resurrect a record from a stale snapshot; false
	// means the guard did not match and nothing was written. A transition
	// into cancelled also stamps cancelled_at.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SubscriptionStatus) (bool, error)

	// RenewPeriod advances the billing period, guarded on the next billing
	// date the caller read (dueAt), and resets all reminder flags. false
	// means another caller already renewed this period.
	RenewPeriod(ctx context.Context, id uuid.UUID, dueAt time.Time, start, end time.Time) (bool, error)

	// MarkReminderSent sets the sent flag for one reminder tier.
	MarkReminderSent(ctx context.Context, id uuid.UUID, tier ReminderTier) error

	// Admin projections.
	CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int64, error)
	CountExpiringWithin(ctx context.Context, from, until time.Time) (int64, error)
}
