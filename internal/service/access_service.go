package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"

	"channelpass-be/pkg/events"
	pktNats "channelpass-be/pkg/nats"
	"channelpass-be/pkg/telegram"

	"github.com/google/uuid"
)

// AccessCodeTTL is how long a generated code stays redeemable.
const AccessCodeTTL = 10 * time.Minute

// ErrKindInvalidOrExpiredCode is the one failure kind redemption surfaces.
// Every precondition failure collapses into it so the response does not
// reveal whether a guessed code exists, was spent, or lapsed.
const ErrKindInvalidOrExpiredCode = "invalid_or_expired_code"

type IAccessService interface {
	GenerateAccessCode(ctx context.Context, subscriptionId uuid.UUID) (*dto.GenerateAccessCodeResponse, error)
	VerifyAccessCode(ctx context.Context, req *dto.VerifyAccessRequest) (*dto.VerifyAccessResponse, error)
	CheckAccess(ctx context.Context, principalId string, channelId uuid.UUID) (*dto.CheckAccessResponse, error)
}

type accessService struct {
	uowFactory     unitofwork.RepositoryFactory
	directory      telegram.ChannelDirectory
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger

	now func() time.Time
}

func NewAccessService(
	uowFactory unitofwork.RepositoryFactory,
	directory telegram.ChannelDirectory,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAccessService {
	return &accessService{
		uowFactory:     uowFactory,
		directory:      directory,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            time.Now,
	}
}

// GenerateAccessCode mints a fresh single-use code for an active
// subscription. Issuing a new code does not invalidate earlier unspent ones;
// they die on their own TTL.
func (s *accessService) GenerateAccessCode(ctx context.Context, subscriptionId uuid.UUID) (*dto.GenerateAccessCodeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: subscriptionId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errors.New("subscription not found")
	}
	if sub.Status != entity.SubscriptionStatusActive {
		return nil, errors.New("subscription is not active")
	}

	raw, err := randomCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now()
	code := &entity.AccessCode{
		Id:             uuid.New(),
		Code:           raw,
		SubscriptionId: subscriptionId,
		ExpiresAt:      now.Add(AccessCodeTTL),
		Used:           false,
		CreatedAt:      now,
	}
	if err := uow.AccessRepository().CreateCode(ctx, code); err != nil {
		return nil, err
	}

	return &dto.GenerateAccessCodeResponse{
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
	}, nil
}

// VerifyAccessCode redeems a code into a durable grant. Preconditions are
// checked in a fixed order (existence, reuse, TTL, subscription state,
// channel existence) and any failure leaves every record untouched. The
// consume and the grant upsert land in one transaction: a code is never
// burned without its grant.
func (s *accessService) VerifyAccessCode(ctx context.Context, req *dto.VerifyAccessRequest) (*dto.VerifyAccessResponse, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	denied := &dto.VerifyAccessResponse{Success: false, ErrorKind: ErrKindInvalidOrExpiredCode}

	code, err := uow.AccessRepository().FindCode(ctx, specification.ByCode{Code: req.Code})
	if err != nil {
		return nil, err
	}
	if code == nil || code.Used || now.After(code.ExpiresAt) {
		return denied, nil
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: code.SubscriptionId})
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.Status != entity.SubscriptionStatusActive || now.After(sub.CurrentPeriodEnd) {
		return denied, nil
	}

	channel, err := uow.ChannelRepository().FindOne(ctx, specification.ByID{ID: sub.ChannelId})
	if err != nil {
		return nil, err
	}
	if channel == nil {
		s.logger.Warn("Access", "Redemption refused, subscription points at a missing channel", map[string]interface{}{
			"subscription_id": sub.Id,
			"channel_id":      sub.ChannelId,
		})
		return denied, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	consumed, err := uow.AccessRepository().ConsumeCode(ctx, code.Id)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Lost the race to a concurrent redemption of the same code.
		return denied, nil
	}

	// First redemption pins the guest subscription to a principal.
	if sub.PrincipalId == nil {
		sub.PrincipalId = &req.PrincipalId
		sub.UpdatedAt = now
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return nil, err
		}
	}

	grant := &entity.AccessGrant{
		Id:             uuid.New(),
		SubscriptionId: sub.Id,
		PrincipalId:    req.PrincipalId,
		ChannelId:      sub.ChannelId,
		AccessGranted:  true,
		ExpiresAt:      sub.CurrentPeriodEnd,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.AccessRepository().UpsertGrant(ctx, grant); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	link := ""
	if s.directory != nil {
		link, err = s.directory.CreateInviteLink(ctx, channel.TelegramChatId)
		if err != nil {
			// Access is already granted; the portal can re-request the link.
			s.logger.Warn("Access", "Grant created but invite link failed", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeAccessRedeemed,
			Data: map[string]interface{}{
				"subscription_id": sub.Id,
				"channel_id":      sub.ChannelId,
				"principal_id":    req.PrincipalId,
				"occurred_at":     now,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Access", "Failed to publish ACCESS_REDEEMED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.VerifyAccessResponse{Success: true, ResourceLink: link}, nil
}

// CheckAccess answers whether a principal can enter a channel right now.
// Stale grants are reconciled lazily on read: an expired grant whose backing
// subscription renewed in the meantime is refreshed, anything else is
// revoked.
func (s *accessService) CheckAccess(ctx context.Context, principalId string, channelId uuid.UUID) (*dto.CheckAccessResponse, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	grant, err := uow.AccessRepository().FindGrant(ctx, principalId, channelId)
	if err != nil {
		return nil, err
	}
	if grant == nil || !grant.AccessGranted {
		return &dto.CheckAccessResponse{AccessGranted: false}, nil
	}

	if !now.After(grant.ExpiresAt) {
		return &dto.CheckAccessResponse{AccessGranted: true, ExpiresAt: &grant.ExpiresAt}, nil
	}

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByID{ID: grant.SubscriptionId})
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.Status == entity.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(now) {
		grant.ExpiresAt = sub.CurrentPeriodEnd
		grant.UpdatedAt = now
		if err := uow.AccessRepository().UpsertGrant(ctx, grant); err != nil {
			return nil, err
		}
		return &dto.CheckAccessResponse{AccessGranted: true, ExpiresAt: &grant.ExpiresAt}, nil
	}

	if _, err := uow.AccessRepository().RevokeGrant(ctx, principalId, channelId); err != nil {
		return nil, err
	}
	return &dto.CheckAccessResponse{AccessGranted: false}, nil
}

func randomCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
