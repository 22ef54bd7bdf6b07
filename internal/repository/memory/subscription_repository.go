package memory

import (
	"context"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	store *Store
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if sub.Id == uuid.Nil {
		sub.Id = uuid.New()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	cp := *sub
	r.store.subscriptions[sub.Id] = &cp
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub.UpdatedAt = time.Now()
	cp := *sub
	r.store.subscriptions[sub.Id] = &cp
	return nil
}

func (r *subscriptionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *subscriptionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Subscription
	for _, s := range r.store.subscriptions {
		ok := true
		for _, spec := range specs {
			if !matchSubscription(spec, s) {
				ok = false
				break
			}
		}
		if ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	out = applyOrdering(out, specs, func(s *entity.Subscription) int64 { return s.CreatedAt.UnixNano() })
	return out, nil
}

func (r *subscriptionRepository) GetActiveSubscriptions(ctx context.Context) ([]*entity.Subscription, error) {
	return r.FindAll(ctx, specification.StatusIs{Status: string(entity.SubscriptionStatusActive)})
}

func (r *subscriptionRepository) GetSubscriptionsExpiringBetween(ctx context.Context, start, end time.Time) ([]*entity.Subscription, error) {
	return r.FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
		specification.ExpiringBetween{Start: start, End: end},
	)
}

func (r *subscriptionRepository) GetExpiredSubscriptionsInGracePeriod(ctx context.Context, since, until time.Time) ([]*entity.Subscription, error) {
	return r.FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusExpired)},
		specification.ExpiringBetween{Start: since, End: until},
	)
}

func (r *subscriptionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SubscriptionStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.subscriptions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	s.UpdatedAt = time.Now()
	if to == entity.SubscriptionStatusCancelled {
		now := time.Now()
		s.CancelledAt = &now
	}
	return true, nil
}

func (r *subscriptionRepository) RenewPeriod(ctx context.Context, id uuid.UUID, dueAt time.Time, start, end time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.subscriptions[id]
	if !ok || s.Status != entity.SubscriptionStatusActive || !s.NextBillingDate.Equal(dueAt) {
		return false, nil
	}
	s.CurrentPeriodStart = start
	s.CurrentPeriodEnd = end
	s.NextBillingDate = end
	s.RenewalReminderSent = false
	s.ExpiryReminderSent = false
	s.GraceReminderSent = false
	s.UpdatedAt = time.Now()
	return true, nil
}

func (r *subscriptionRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, tier contract.ReminderTier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.subscriptions[id]
	if !ok {
		return nil
	}
	switch tier {
	case contract.TierExpiringSoon:
		s.RenewalReminderSent = true
	case contract.TierExpiringTomorrow:
		s.ExpiryReminderSent = true
	case contract.TierGracePeriod:
		s.GraceReminderSent = true
	}
	return nil
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int64, error) {
	subs, err := r.FindAll(ctx, specification.StatusIs{Status: string(status)})
	return int64(len(subs)), err
}

func (r *subscriptionRepository) CountExpiringWithin(ctx context.Context, from, until time.Time) (int64, error) {
	subs, err := r.GetSubscriptionsExpiringBetween(ctx, from, until)
	return int64(len(subs)), err
}
