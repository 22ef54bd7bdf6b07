package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/memory"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"

	"channelpass-be/pkg/gateway"

	"github.com/google/uuid"
)

// Shared fixtures for the service tests. Everything runs against the
// in-memory store with a pinned clock, so the lifecycle can be driven
// through synthetic time.

func testLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "test.log"))
}

type fakeGateway struct {
	mu          sync.Mutex
	renewalErr  error
	renewals    []string
	charges     []string
	signatureOK bool
}

func (f *fakeGateway) CreateCharge(ctx context.Context, orderId string, amount float64, description, customerEmail string) (*gateway.Charge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.charges = append(f.charges, orderId)
	return &gateway.Charge{
		OrderRef:    orderId,
		Token:       "tok-" + orderId,
		RedirectUrl: "https://pay.example/" + orderId,
	}, nil
}

func (f *fakeGateway) VerifySignature(orderId, statusCode, grossAmount, signature string) bool {
	return f.signatureOK
}

func (f *fakeGateway) ChargeRenewal(ctx context.Context, orderId string, amount float64, customerEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renewals = append(f.renewals, orderId)
	return f.renewalErr
}

func (f *fakeGateway) CreatePayout(ctx context.Context, amount float64, bankAccount, bankCode, notes string) (string, error) {
	return "payout-ref-1", nil
}

func (f *fakeGateway) renewalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renewals)
}

type sentMail struct {
	To           string
	TemplateKind string
	ChannelName  string
	Code         string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (f *fakeMailer) SendAccessCode(toEmail, channelName, code string, codeExpiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: toEmail, ChannelName: channelName, Code: code})
	return nil
}

func (f *fakeMailer) SendReminder(toEmail, templateKind, channelName string, periodEnd time.Time, renewalLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: toEmail, TemplateKind: templateKind, ChannelName: channelName})
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMailer) lastSent() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fakeBusPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakeBusPublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeDirectory struct {
	links int
}

func (f *fakeDirectory) CreateInviteLink(ctx context.Context, chatId string) (string, error) {
	f.links++
	return "https://t.me/+invite-" + chatId, nil
}

func newTestFactory() unitofwork.RepositoryFactory {
	return memory.NewFactory(memory.NewStore())
}

func seedChannel(t *testing.T, factory unitofwork.RepositoryFactory) *entity.Channel {
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
	uow := factory.NewUnitOfWork(context.Background())
	if err := uow.ChannelRepository().Create(context.Background(), ch); err != nil {
		t.Fatalf("seed channel: %v", err)
	}
	return ch
}

func seedSubscription(t *testing.T, factory unitofwork.RepositoryFactory, mutate func(*entity.Subscription)) *entity.Subscription {
	t.Helper()
	principal := "tg-1001"
	now := time.Now()
	sub := &entity.Subscription{
		Id:                 uuid.New(),
		PrincipalId:        &principal,
		ChannelId:          uuid.New(),
		Contact:            "buyer@example.com",
		Status:             entity.SubscriptionStatusActive,
		Cadence:            entity.CadenceMonthly,
		Price:              29,
		CurrentPeriodStart: now.AddDate(0, -1, 0),
		CurrentPeriodEnd:   now.AddDate(0, 0, 14),
		NextBillingDate:    now.AddDate(0, 0, 14),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if mutate != nil {
		mutate(sub)
	}
	uow := factory.NewUnitOfWork(context.Background())
	if err := uow.SubscriptionRepository().Create(context.Background(), sub); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return sub
}

func byID(id uuid.UUID) specification.Specification {
	return specification.ByID{ID: id}
}

func byCode(code string) specification.Specification {
	return specification.ByCode{Code: code}
}

func findSubscription(t *testing.T, factory unitofwork.RepositoryFactory, id uuid.UUID) *entity.Subscription {
	t.Helper()
	uow := factory.NewUnitOfWork(context.Background())
	sub, err := uow.SubscriptionRepository().FindOne(context.Background(), byID(id))
	if err != nil {
		t.Fatalf("find subscription: %v", err)
	}
	return sub
}
