package service

import (
	"context"
	"fmt"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/unitofwork"

	"channelpass-be/pkg/events"
	"channelpass-be/pkg/gateway"
	pktNats "channelpass-be/pkg/nats"

	"github.com/google/uuid"
)

// ILifecycleService is the subscription lifecycle engine: the periodic sweep
// that renews autopay subscriptions past their billing date and expires the
// rest, revoking their grants.
type ILifecycleService interface {
	RunSweep(ctx context.Context) (*dto.SweepResponse, error)
	ProcessSubscription(ctx context.Context, sub *entity.Subscription) (renewed bool, expired bool, err error)
}

type lifecycleService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        gateway.PaymentGateway
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger

	// now is swappable so the sweep can be driven through synthetic time.
	now func() time.Time
}

func NewLifecycleService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.PaymentGateway,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ILifecycleService {
	return &lifecycleService{
		uowFactory:     uowFactory,
		gateway:        gw,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

// RunSweep walks every active subscription once. Each subscription is
// processed independently: a failure on one is logged and does not stop the
// sweep. Running the sweep twice in a row is a no-op because every write is
// guarded on the state the sweep read.
func (s *lifecycleService) RunSweep(ctx context.Context) (*dto.SweepResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().GetActiveSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	res := &dto.SweepResponse{}
	for _, sub := range subs {
		renewed, expired, err := s.ProcessSubscription(ctx, sub)
		if err != nil {
			s.logger.Error("Lifecycle", "Failed to process subscription", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
			continue
		}
		if renewed {
			res.Renewed++
		}
		if expired {
			res.Expired++
		}
	}

	if res.Renewed > 0 || res.Expired > 0 {
		s.logger.Info("Lifecycle", "Sweep finished", map[string]interface{}{
			"renewed": res.Renewed,
			"expired": res.Expired,
		})
	}
	return res, nil
}

// ProcessSubscription decides what happens to one subscription at the
// current instant. Subscriptions whose billing date has not arrived, and
// paused ones, are left alone. Autopay subscriptions get one renewal charge
// attempt; everything else past due expires.
func (s *lifecycleService) ProcessSubscription(ctx context.Context, sub *entity.Subscription) (bool, bool, error) {
	now := s.now()

	if sub.Status != entity.SubscriptionStatusActive {
		return false, false, nil
	}
	if now.Before(sub.NextBillingDate) {
		return false, false, nil
	}

	if sub.Autopay {
		if err := s.renew(ctx, sub, now); err != nil {
			s.logger.Warn("Lifecycle", "Autopay renewal failed, expiring subscription", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
			if err := s.expire(ctx, sub, now); err != nil {
				return false, false, err
			}
			return false, true, nil
		}
		return true, false, nil
	}

	if err := s.expire(ctx, sub, now); err != nil {
		return false, false, err
	}
	return false, true, nil
}

func (s *lifecycleService) renew(ctx context.Context, sub *entity.Subscription, now time.Time) error {
	orderId := uuid.New()
	if err := s.gateway.ChargeRenewal(ctx, orderId.String(), sub.Price, sub.Contact); err != nil {
		return fmt.Errorf("gateway renewal charge: %w", err)
	}

	// The new period anchors at the renewal moment, so a buyer whose charge
	// went through late still gets a full cadence from here.
	start := now
	end := sub.NextPeriodEnd(start)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	ok, err := uow.SubscriptionRepository().RenewPeriod(ctx, sub.Id, sub.NextBillingDate, start, end)
	if err != nil {
		return err
	}
	if !ok {
		// Another sweep already advanced this period; the charge above is
		// the duplicate, flag it loudly.
		s.logger.Warn("Lifecycle", "Renewal lost the period guard, charge may need refund", map[string]interface{}{
			"subscription_id": sub.Id,
			"order_id":        orderId,
		})
		return nil
	}

	payment := &entity.Payment{
		Id:             orderId,
		SubscriptionId: &sub.Id,
		ChannelId:      sub.ChannelId,
		PrincipalId:    sub.PrincipalId,
		Contact:        sub.Contact,
		Cadence:        sub.Cadence,
		Amount:         sub.Price,
		Autopay:        true,
		Method:         entity.PaymentMethodCard,
		Status:         entity.PaymentStatusSuccess,
		GatewayOrderId: orderId.String(),
		CreatedAt:      now,
		CompletedAt:    &now,
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		s.logger.Error("Lifecycle", "Renewed but failed to record renewal payment", map[string]interface{}{
			"subscription_id": sub.Id,
			"error":           err.Error(),
		})
	}

	s.publish(ctx, events.TypeSubscriptionRenewed, sub, map[string]interface{}{
		"amount":         sub.Price,
		"new_period_end": end,
	})
	return nil
}

func (s *lifecycleService) expire(ctx context.Context, sub *entity.Subscription, now time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ok, err := uow.SubscriptionRepository().TransitionStatus(ctx, sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusExpired)
	if err != nil {
		return err
	}
	if !ok {
		// Someone else moved it first (a concurrent sweep, or a cancel).
		return nil
	}

	revoked, err := uow.AccessRepository().RevokeGrantsBySubscription(ctx, sub.Id)
	if err != nil {
		return fmt.Errorf("subscription expired but grant revocation failed: %w", err)
	}

	s.logger.Info("Lifecycle", "Subscription expired", map[string]interface{}{
		"subscription_id": sub.Id,
		"grants_revoked":  revoked,
	})
	s.publish(ctx, events.TypeSubscriptionExpired, sub, map[string]interface{}{
		"period_end": sub.CurrentPeriodEnd,
	})
	return nil
}

func (s *lifecycleService) publish(ctx context.Context, eventType string, sub *entity.Subscription, extra map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"subscription_id": sub.Id,
		"channel_id":      sub.ChannelId,
		"occurred_at":     s.now(),
	}
	for k, v := range extra {
		data[k] = v
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: s.now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Lifecycle", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
