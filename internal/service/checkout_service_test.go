package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
)

type checkoutFixture struct {
	factory unitofwork.RepositoryFactory
	gateway *fakeGateway
	bus     *fakeBusPublisher
	svc     ICheckoutService
}

func newCheckout(t *testing.T, at time.Time) *checkoutFixture {
	t.Helper()
	factory := newTestFactory()
	gw := &fakeGateway{signatureOK: true}
	bus := &fakeBusPublisher{}

	access := NewAccessService(factory, &fakeDirectory{}, nil, testLogger(t))
	access.(*accessService).now = func() time.Time { return at }

	svc := NewCheckoutService(factory, gw, access, bus, nil, testLogger(t))
	svc.(*checkoutService).now = func() time.Time { return at }

	return &checkoutFixture{factory: factory, gateway: gw, bus: bus, svc: svc}
}

func TestInitiateCheckoutCreatesPendingPayment(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newCheckout(t, now)
	ch := seedChannel(t, fx.factory)

	res, err := fx.svc.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId: ch.Id,
		Contact:   "buyer@example.com",
		Cadence:   "yearly",
		Method:    "card",
		Autopay:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, ch.YearlyPrice, res.Amount)
	assert.NotEmpty(t, res.PaymentHandle)

	uow := fx.factory.NewUnitOfWork(context.Background())
	payment, err := uow.PaymentRepository().FindOne(context.Background(), byID(res.PaymentId))
	assert.NoError(t, err)
	if assert.NotNil(t, payment) {
		assert.Equal(t, entity.PaymentStatusPending, payment.Status)
		assert.True(t, payment.Autopay)
		assert.Nil(t, payment.SubscriptionId)
	}

	// No subscription exists until money is confirmed.
	subs, err := uow.SubscriptionRepository().FindAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, subs)
}

func TestInitiateCheckoutRejectsUnknownChannel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newCheckout(t, now)

	ch := seedChannel(t, fx.factory)
	inactive := *ch
	inactive.Id = ch.Id // same record, flipped off
	inactive.IsActive = false
	uow := fx.factory.NewUnitOfWork(context.Background())
	assert.NoError(t, uow.ChannelRepository().Update(context.Background(), &inactive))

	_, err := fx.svc.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId: ch.Id,
		Contact:   "buyer@example.com",
		Cadence:   "monthly",
		Method:    "upi",
	})
	assert.Error(t, err)
}

func TestWebhookSettlementActivatesSubscription(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newCheckout(t, now)
	ch := seedChannel(t, fx.factory)

	res, err := fx.svc.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId:   ch.Id,
		Contact:     "buyer@example.com",
		Cadence:     "monthly",
		Method:      "upi",
		PrincipalId: "tg-5005",
	})
	assert.NoError(t, err)

	err = fx.svc.HandleNotification(context.Background(), &dto.GatewayWebhookRequest{
		OrderId:           res.PaymentId.String(),
		StatusCode:        "200",
		GrossAmount:       "29.00",
		SignatureKey:      "sig",
		TransactionStatus: "settlement",
		TransactionId:     "mid-123",
	})
	assert.NoError(t, err)

	uow := fx.factory.NewUnitOfWork(context.Background())

	payment, err := uow.PaymentRepository().FindOne(context.Background(), byID(res.PaymentId))
	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusSuccess, payment.Status)
	assert.NotNil(t, payment.CompletedAt)

	subs, err := uow.SubscriptionRepository().FindAll(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, subs, 1) {
		sub := subs[0]
		assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
		assert.True(t, sub.CurrentPeriodEnd.Equal(now.AddDate(0, 1, 0)))
		assert.True(t, sub.NextBillingDate.Equal(sub.CurrentPeriodEnd))
		if assert.NotNil(t, sub.PrincipalId) {
			assert.Equal(t, "tg-5005", *sub.PrincipalId)
		}
		if assert.NotNil(t, payment.SubscriptionId) {
			assert.Equal(t, sub.Id, *payment.SubscriptionId)
		}
	}

	// The mail pipeline got exactly one confirmation with a redeemable code.
	if assert.Len(t, fx.bus.payloads, 1) {
		var msg dto.PaymentConfirmedMessage
		assert.NoError(t, json.Unmarshal(fx.bus.payloads[0], &msg))
		assert.Equal(t, "buyer@example.com", msg.Contact)
		assert.Equal(t, ch.Name, msg.ChannelName)
		assert.Len(t, msg.AccessCode, 32)

		code, err := uow.AccessRepository().FindCode(context.Background(), specification.ByCode{Code: msg.AccessCode})
		assert.NoError(t, err)
		assert.NotNil(t, code)
	}
}

func TestWebhookDuplicateNotificationIsNoOp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newCheckout(t, now)
	ch := seedChannel(t, fx.factory)

	res, err := fx.svc.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId: ch.Id,
		Contact:   "buyer@example.com",
		Cadence:   "monthly",
		Method:    "card",
	})
	assert.NoError(t, err)

	notif := &dto.GatewayWebhookRequest{
		OrderId:           res.PaymentId.String(),
		StatusCode:        "200",
		GrossAmount:       "29.00",
		SignatureKey:      "sig",
		TransactionStatus: "settlement",
		TransactionId:     "mid-123",
	}
	assert.NoError(t, fx.svc.HandleNotification(context.Background(), notif))
	assert.NoError(t, fx.svc.HandleNotification(context.Background(), notif))

	uow := fx.factory.NewUnitOfWork(context.Background())
	subs, err := uow.SubscriptionRepository().FindAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Len(t, fx.bus.payloads, 1)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newCheckout(t, now)
	fx.gateway.signatureOK = false
	ch := seedChannel(t, fx.factory)

	res, err := fx.svc.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId: ch.Id,
		Contact:   "buyer@example.com",
		Cadence:   "monthly",
		Method:    "card",
	})
	assert.NoError(t, err)

	err = fx.svc.HandleNotification(context.Background(), &dto.GatewayWebhookRequest{
		OrderId:           res.PaymentId.String(),
		TransactionStatus: "settlement",
	})
	assert.Error(t, err)

	uow := fx.factory.NewUnitOfWork(context.Background())
	payment, err := uow.PaymentRepository().FindOne(context.Background(), byID(res.PaymentId))
	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
}

func TestWebhookDenyMarksPaymentFailed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	fx := newCheckout(t, now)
	ch := seedChannel(t, fx.factory)

	res, err := fx.svc.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId: ch.Id,
		Contact:   "buyer@example.com",
		Cadence:   "monthly",
		Method:    "card",
	})
	assert.NoError(t, err)

	err = fx.svc.HandleNotification(context.Background(), &dto.GatewayWebhookRequest{
		OrderId:           res.PaymentId.String(),
		TransactionStatus: "deny",
		SignatureKey:      "sig",
	})
	assert.NoError(t, err)

	uow := fx.factory.NewUnitOfWork(context.Background())
	payment, err := uow.PaymentRepository().FindOne(context.Background(), byID(res.PaymentId))
	assert.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, payment.Status)

	subs, err := uow.SubscriptionRepository().FindAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, subs)
}
