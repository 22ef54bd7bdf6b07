package service

import (
	"context"
	"errors"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ISubscriptionService is the self-serve portal surface: a buyer inspects
// and cancels their own subscriptions.
type ISubscriptionService interface {
	GetSubscriptionStatus(ctx context.Context, subscriptionId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	GetSubscriptionStatusByCode(ctx context.Context, code string) (*dto.SubscriptionStatusResponse, error)
	GetSubscriptionsByPrincipal(ctx context.Context, principalId string) ([]*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, subscriptionId uuid.UUID, principalId string) error
}

type subscriptionService struct {
	uowFactory       unitofwork.RepositoryFactory
	lifecycleService ILifecycleService
	logger           logger.ILogger

	now func() time.Time
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, lifecycleService ILifecycleService, log logger.ILogger) ISubscriptionService {
	return &subscriptionService{
		uowFactory:       uowFactory,
		lifecycleService: lifecycleService,
		logger:           log,
		now:              time.Now,
	}
}

// GetSubscriptionStatus runs the lifecycle rules for this one record before
// answering, so a buyer loading the portal right after their period lapsed
// sees the expired state instead of waiting for the next sweep tick.
func (s *subscriptionService) GetSubscriptionStatus(ctx context.Context, subscriptionId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subscriptionId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("subscription not found")
	}

	renewed, expired, err := s.lifecycleService.ProcessSubscription(ctx, sub)
	if err != nil {
		s.logger.Warn("Subscription", "On-demand lifecycle pass failed, answering from stored state", map[string]interface{}{
			"subscription_id": sub.Id,
			"error":           err.Error(),
		})
	}
	if renewed || expired {
		sub, err = uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subscriptionId})
		if err != nil {
			return nil, err
		}
	}
	return s.toStatus(ctx, uow, sub), nil
}

// GetSubscriptionStatusByCode resolves a status lookup through an access
// code; spent and expired codes still resolve, they just no longer grant
// anything.
func (s *subscriptionService) GetSubscriptionStatusByCode(ctx context.Context, code string) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ac, err := uow.AccessRepository().FindCode(ctx, specification.ByCode{Code: code})
	if err != nil {
		return nil, err
	}
	if ac == nil {
		return nil, errors.New("subscription not found")
	}
	return s.GetSubscriptionStatus(ctx, ac.SubscriptionId)
}

func (s *subscriptionService) GetSubscriptionsByPrincipal(ctx context.Context, principalId string) ([]*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.OwnedByPrincipal{PrincipalId: principalId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SubscriptionStatusResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, s.toStatus(ctx, uow, sub))
	}
	return res, nil
}

// CancelSubscription moves the subscription to its terminal cancelled state.
// The sweep skips cancelled records, and the paid-for access runs out on its
// own at the grant's expiry. Only the owning principal may cancel.
func (s *subscriptionService) CancelSubscription(ctx context.Context, subscriptionId uuid.UUID, principalId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.New("subscription not found")
	}
	if sub.PrincipalId == nil || *sub.PrincipalId != principalId {
		return errors.New("subscription not found")
	}

	ok, err := uow.SubscriptionRepository().TransitionStatus(ctx, sub.Id, entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("subscription is not active")
	}

	s.logger.Info("Subscription", "Cancelled at user request", map[string]interface{}{
		"subscription_id": sub.Id,
		"period_end":      sub.CurrentPeriodEnd,
	})
	return nil
}

func (s *subscriptionService) toStatus(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription) *dto.SubscriptionStatusResponse {
	now := s.now()

	channelName := ""
	channel, err := uow.ChannelRepository().FindOne(ctx, specification.ByID{ID: sub.ChannelId})
	if err == nil && channel != nil {
		channelName = channel.Name
	}

	accessGranted := false
	if sub.PrincipalId != nil {
		grant, err := uow.AccessRepository().FindGrant(ctx, *sub.PrincipalId, sub.ChannelId)
		if err == nil && grant != nil {
			accessGranted = grant.AccessGranted && !now.After(grant.ExpiresAt)
		}
	}

	days := int(sub.CurrentPeriodEnd.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}

	return &dto.SubscriptionStatusResponse{
		SubscriptionId:   sub.Id,
		ChannelName:      channelName,
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		AccessGranted:    accessGranted,
		DaysUntilExpiry:  days,
		RenewalRequired:  sub.Status == entity.SubscriptionStatusActive && !sub.Autopay,
	}
}
