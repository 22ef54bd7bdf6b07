package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"

	"channelpass-be/pkg/events"
	"channelpass-be/pkg/gateway"
	pktNats "channelpass-be/pkg/nats"

	"github.com/google/uuid"
)

type ICheckoutService interface {
	InitiateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.GatewayWebhookRequest) error
}

type checkoutService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          gateway.PaymentGateway
	accessService    IAccessService
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger

	now func() time.Time
}

func NewCheckoutService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.PaymentGateway,
	accessService IAccessService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ICheckoutService {
	return &checkoutService{
		uowFactory:       uowFactory,
		gateway:          gw,
		accessService:    accessService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		now:              time.Now,
	}
}

// InitiateCheckout records a pending payment for the chosen channel and
// cadence and opens a hosted charge for it. No subscription exists yet; that
// only happens when the gateway confirms the money.
func (s *checkoutService) InitiateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	channel, err := uow.ChannelRepository().FindOne(ctx, specification.ByID{ID: req.ChannelId})
	if err != nil {
		return nil, err
	}
	if channel == nil || !channel.IsActive {
		return nil, errors.New("channel not found")
	}

	cadence := entity.BillingCadence(req.Cadence)
	amount := channel.PriceFor(cadence)

	var principalId *string
	if req.PrincipalId != "" {
		principalId = &req.PrincipalId
	}

	paymentId := uuid.New()
	payment := &entity.Payment{
		Id:             paymentId,
		ChannelId:      channel.Id,
		PrincipalId:    principalId,
		Contact:        req.Contact,
		Cadence:        cadence,
		Amount:         amount,
		Autopay:        req.Autopay,
		Method:         entity.PaymentMethod(req.Method),
		Status:         entity.PaymentStatusPending,
		GatewayOrderId: paymentId.String(),
		CreatedAt:      s.now(),
	}
	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("%s (%s)", channel.Name, req.Cadence)
	charge, err := s.gateway.CreateCharge(ctx, payment.GatewayOrderId, amount, description, req.Contact)
	if err != nil {
		return nil, fmt.Errorf("gateway error: %w", err)
	}

	return &dto.CheckoutResponse{
		PaymentId:     paymentId,
		PaymentHandle: charge.Token,
		RedirectUrl:   charge.RedirectUrl,
		Amount:        amount,
		Currency:      channel.Currency,
	}, nil
}

// HandleNotification processes the gateway's server-to-server callback. The
// signature is checked before anything is read, and the pending->terminal
// payment flip is the idempotency gate: a replayed notification finds the
// payment already completed and stops there.
func (s *checkoutService) HandleNotification(ctx context.Context, req *dto.GatewayWebhookRequest) error {
	if !s.gateway.VerifySignature(req.OrderId, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		s.logger.Warn("Checkout", "Webhook signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return errors.New("invalid signature")
	}

	paymentId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return errors.New("invalid order id format")
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		return s.confirm(ctx, paymentId, req)
	case "deny", "cancel", "expire":
		return s.fail(ctx, paymentId, req)
	case "pending":
		return nil
	default:
		s.logger.Warn("Checkout", "Unknown transaction status, ignoring", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}
}

func (s *checkoutService) confirm(ctx context.Context, paymentId uuid.UUID, req *dto.GatewayWebhookRequest) error {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: paymentId})
	if err != nil {
		return err
	}
	if payment == nil {
		return errors.New("payment not found")
	}

	rawPayload, _ := json.Marshal(req)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	ok, err := uow.PaymentRepository().Complete(ctx, paymentId, entity.PaymentStatusSuccess, req.TransactionId, req.SignatureKey, rawPayload, now)
	if err != nil {
		return err
	}
	if !ok {
		// Duplicate notification; the first one already did the work.
		s.logger.Info("Checkout", "Payment already completed, skipping", map[string]interface{}{"payment_id": paymentId})
		return nil
	}

	sub := &entity.Subscription{
		Id:                 uuid.New(),
		PrincipalId:        payment.PrincipalId,
		ChannelId:          payment.ChannelId,
		Contact:            payment.Contact,
		Status:             entity.SubscriptionStatusActive,
		Cadence:            payment.Cadence,
		Price:              payment.Amount,
		Autopay:            payment.Autopay,
		CurrentPeriodStart: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	sub.CurrentPeriodEnd = sub.NextPeriodEnd(now)
	sub.NextBillingDate = sub.CurrentPeriodEnd

	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return err
	}
	if err := uow.PaymentRepository().AttachSubscription(ctx, paymentId, sub.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// The code is minted after the commit: a confirmed payment without a
	// code can be recovered by regenerating, the reverse cannot.
	code, err := s.accessService.GenerateAccessCode(ctx, sub.Id)
	if err != nil {
		s.logger.Error("Checkout", "Payment confirmed but code generation failed", map[string]interface{}{
			"subscription_id": sub.Id,
			"error":           err.Error(),
		})
		return nil
	}

	s.notifyConfirmed(ctx, payment, sub, code)
	return nil
}

func (s *checkoutService) fail(ctx context.Context, paymentId uuid.UUID, req *dto.GatewayWebhookRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rawPayload, _ := json.Marshal(req)
	ok, err := uow.PaymentRepository().Complete(ctx, paymentId, entity.PaymentStatusFailed, req.TransactionId, req.SignatureKey, rawPayload, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypePaymentFailed,
			Data: map[string]interface{}{
				"payment_id":  paymentId,
				"status":      req.TransactionStatus,
				"occurred_at": s.now(),
			},
			OccurredAt: s.now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Checkout", "Failed to publish PAYMENT_FAILED event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *checkoutService) notifyConfirmed(ctx context.Context, payment *entity.Payment, sub *entity.Subscription, code *dto.GenerateAccessCodeResponse) {
	channelName := s.channelName(ctx, payment.ChannelId)

	msg := dto.PaymentConfirmedMessage{
		PaymentId:      payment.Id,
		SubscriptionId: sub.Id,
		Contact:        payment.Contact,
		ChannelName:    channelName,
		AccessCode:     code.Code,
		CodeExpiresAt:  code.ExpiresAt,
		PeriodEnd:      sub.CurrentPeriodEnd,
	}
	payload, err := json.Marshal(msg)
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Error("Checkout", "Failed to queue access code mail", map[string]interface{}{
				"payment_id": payment.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypePaymentConfirmed,
			Data: map[string]interface{}{
				"payment_id":      payment.Id,
				"subscription_id": sub.Id,
				"channel_id":      payment.ChannelId,
				"channel_name":    channelName,
				"amount":          payment.Amount,
				"occurred_at":     s.now(),
			},
			OccurredAt: s.now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Checkout", "Failed to publish PAYMENT_CONFIRMED event", map[string]interface{}{"error": err.Error()})
		}
		evtSub := events.BaseEvent{
			Type: events.TypeSubscriptionCreated,
			Data: map[string]interface{}{
				"subscription_id": sub.Id,
				"channel_id":      sub.ChannelId,
				"cadence":         string(sub.Cadence),
				"amount":          sub.Price,
				"occurred_at":     s.now(),
			},
			OccurredAt: s.now(),
		}
		if err := s.eventPublisher.Publish(ctx, evtSub); err != nil {
			s.logger.Warn("Checkout", "Failed to publish SUBSCRIPTION_CREATED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *checkoutService) channelName(ctx context.Context, channelId uuid.UUID) string {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	channel, err := uow.ChannelRepository().FindOne(ctx, specification.ByID{ID: channelId})
	if err != nil || channel == nil {
		return "your channel"
	}
	return channel.Name
}
