package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/memory"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"
	"channelpass-be/internal/service"
	"channelpass-be/pkg/gateway"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// These tests run the purchase and lifecycle flow end to end through the
// real services over the in-memory store, with only the outermost edges
// (payment gateway, Telegram bot) stubbed.

type stubGateway struct {
	renewals int
}

func (g *stubGateway) CreateCharge(ctx context.Context, orderId string, amount float64, description, customerEmail string) (*gateway.Charge, error) {
	return &gateway.Charge{
		OrderRef:    orderId,
		Token:       "tok-" + orderId,
		RedirectUrl: "https://pay.example.com/" + orderId,
	}, nil
}

func (g *stubGateway) VerifySignature(orderId, statusCode, grossAmount, signature string) bool {
	return true
}

func (g *stubGateway) ChargeRenewal(ctx context.Context, orderId string, amount float64, customerEmail string) error {
	g.renewals++
	return nil
}

func (g *stubGateway) CreatePayout(ctx context.Context, amount float64, bankAccount, bankCode, notes string) (string, error) {
	return "payout-ref", nil
}

type stubDirectory struct{}

func (stubDirectory) CreateInviteLink(ctx context.Context, chatId string) (string, error) {
	return "https://t.me/+integration-" + chatId, nil
}

type world struct {
	factory   unitofwork.RepositoryFactory
	gateway   *stubGateway
	checkout  service.ICheckoutService
	access    service.IAccessService
	lifecycle service.ILifecycleService
	mails     <-chan *dto.PaymentConfirmedMessage
}

func newWorld(t *testing.T) *world {
	t.Helper()

	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "integration.log"))
	factory := memory.NewFactory(memory.NewStore())
	gw := &stubGateway{}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	t.Cleanup(func() { pubSub.Close() })

	const topic = "PAYMENT_CONFIRMED"
	messages, err := pubSub.Subscribe(context.Background(), topic)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	mails := make(chan *dto.PaymentConfirmedMessage, 8)
	go func() {
		for msg := range messages {
			var m dto.PaymentConfirmedMessage
			if json.Unmarshal(msg.Payload, &m) == nil {
				mails <- &m
			}
			msg.Ack()
		}
	}()

	access := service.NewAccessService(factory, stubDirectory{}, nil, log)
	checkout := service.NewCheckoutService(factory, gw, access, service.NewPublisherService(pubSub, topic), nil, log)
	lifecycle := service.NewLifecycleService(factory, gw, nil, log)

	return &world{
		factory:   factory,
		gateway:   gw,
		checkout:  checkout,
		access:    access,
		lifecycle: lifecycle,
		mails:     mails,
	}
}

func (w *world) seedChannel(t *testing.T) *entity.Channel {
	t.Helper()
	ch := &entity.Channel{
		Id:             uuid.New(),
		Name:           "Signals Pro",
		Slug:           "signals-pro",
		TelegramChatId: "-1001234567890",
		MonthlyPrice:   29,
		YearlyPrice:    299,
		Currency:       "USD",
		IsActive:       true,
	}
	uow := w.factory.NewUnitOfWork(context.Background())
	if err := uow.ChannelRepository().Create(context.Background(), ch); err != nil {
		t.Fatalf("seed channel: %v", err)
	}
	return ch
}

// purchase runs checkout and the settlement webhook and returns the
// confirmed-payment message carrying the access code.
func (w *world) purchase(t *testing.T, channelId uuid.UUID, autopay bool) *dto.PaymentConfirmedMessage {
	t.Helper()

	res, err := w.checkout.InitiateCheckout(context.Background(), &dto.CheckoutRequest{
		ChannelId: channelId,
		Contact:   "buyer@example.com",
		Cadence:   "monthly",
		Method:    "card",
		Autopay:   autopay,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	err = w.checkout.HandleNotification(context.Background(), &dto.GatewayWebhookRequest{
		OrderId:           res.PaymentId.String(),
		StatusCode:        "200",
		GrossAmount:       "29.00",
		SignatureKey:      "sig",
		TransactionStatus: "settlement",
		TransactionId:     "txn-" + res.PaymentId.String()[:8],
	})
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}

	select {
	case m := <-w.mails:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no confirmed-payment message arrived")
		return nil
	}
}

// pushPastDue rewinds a subscription's billing clock so the next sweep sees
// it as due.
func (w *world) pushPastDue(t *testing.T, subId uuid.UUID) {
	t.Helper()
	uow := w.factory.NewUnitOfWork(context.Background())
	sub, err := uow.SubscriptionRepository().FindOne(context.Background(), specification.ByID{ID: subId})
	if err != nil || sub == nil {
		t.Fatalf("load subscription: %v", err)
	}
	sub.CurrentPeriodEnd = time.Now().Add(-time.Hour)
	sub.NextBillingDate = sub.CurrentPeriodEnd
	if err := uow.SubscriptionRepository().Update(context.Background(), sub); err != nil {
		t.Fatalf("rewind subscription: %v", err)
	}
}

func TestPurchaseRedeemAndExpire(t *testing.T) {
	w := newWorld(t)
	ch := w.seedChannel(t)

	mail := w.purchase(t, ch.Id, false)
	assert.Len(t, mail.AccessCode, 32)
	assert.Equal(t, "buyer@example.com", mail.Contact)

	verified, err := w.access.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{
		Code:        mail.AccessCode,
		PrincipalId: "tg-9001",
	})
	assert.NoError(t, err)
	assert.True(t, verified.Success)
	assert.Contains(t, verified.ResourceLink, "t.me")

	check, err := w.access.CheckAccess(context.Background(), "tg-9001", ch.Id)
	assert.NoError(t, err)
	assert.True(t, check.AccessGranted)

	// A spent code cannot be replayed, even by its owner.
	replay, err := w.access.VerifyAccessCode(context.Background(), &dto.VerifyAccessRequest{
		Code:        mail.AccessCode,
		PrincipalId: "tg-9001",
	})
	assert.NoError(t, err)
	assert.False(t, replay.Success)
	assert.Equal(t, service.ErrKindInvalidOrExpiredCode, replay.ErrorKind)

	w.pushPastDue(t, mail.SubscriptionId)

	swept, err := w.lifecycle.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, swept.Expired)

	check, err = w.access.CheckAccess(context.Background(), "tg-9001", ch.Id)
	assert.NoError(t, err)
	assert.False(t, check.AccessGranted)
}

func TestAutopayPurchaseRenewsOnSweep(t *testing.T) {
	w := newWorld(t)
	ch := w.seedChannel(t)

	mail := w.purchase(t, ch.Id, true)
	w.pushPastDue(t, mail.SubscriptionId)

	swept, err := w.lifecycle.RunSweep(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, swept.Renewed)
	assert.Equal(t, 0, swept.Expired)
	assert.Equal(t, 1, w.gateway.renewals)

	uow := w.factory.NewUnitOfWork(context.Background())
	sub, err := uow.SubscriptionRepository().FindOne(context.Background(), specification.ByID{ID: mail.SubscriptionId})
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.True(t, sub.NextBillingDate.After(time.Now()))
}
