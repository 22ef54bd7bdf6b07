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

	"channelpass-be/pkg/gateway"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	GetTransactions(ctx context.Context, page, limit int, status string) ([]*dto.TransactionListResponse, error)
	CreatePayout(ctx context.Context, req *dto.PayoutRequest) (*dto.PayoutResponse, error)

	// Channel management
	CreateChannel(ctx context.Context, req *dto.ChannelRequest) (*dto.ChannelResponse, error)
	UpdateChannel(ctx context.Context, id uuid.UUID, req *dto.ChannelRequest) (*dto.ChannelResponse, error)
	DeleteChannel(ctx context.Context, id uuid.UUID) error

	// Subscription management
	PauseSubscription(ctx context.Context, id uuid.UUID) error
	ResumeSubscription(ctx context.Context, id uuid.UUID) error
	TriggerSweep(ctx context.Context) (*dto.SweepResponse, error)

	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          gateway.PaymentGateway
	lifecycleService ILifecycleService
	channelService   IChannelService
	logger           logger.ILogger

	now func() time.Time
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.PaymentGateway,
	lifecycleService ILifecycleService,
	channelService IChannelService,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		uowFactory:       uowFactory,
		gateway:          gw,
		lifecycleService: lifecycleService,
		channelService:   channelService,
		logger:           log,
		now:              time.Now,
	}
}

// GetDashboardStats derives every number from the ledger at read time;
// nothing here is a maintained counter that can drift.
func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	now := s.now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	revenue, err := uow.PaymentRepository().GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	active, err := uow.SubscriptionRepository().CountByStatus(ctx, entity.SubscriptionStatusActive)
	if err != nil {
		return nil, err
	}
	expiring, err := uow.SubscriptionRepository().CountExpiringWithin(ctx, now, now.Add(7*24*time.Hour))
	if err != nil {
		return nil, err
	}
	expired, err := uow.SubscriptionRepository().CountByStatus(ctx, entity.SubscriptionStatusExpired)
	if err != nil {
		return nil, err
	}

	recent, err := s.GetTransactions(ctx, 1, 10, "")
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardStats{
		TotalRevenue:       revenue,
		ActiveSubscribers:  active,
		ExpiringThisWeek:   expiring,
		ExpiredCount:       expired,
		RecentTransactions: derefTransactions(recent),
	}, nil
}

func (s *adminService) GetTransactions(ctx context.Context, page, limit int, status string) ([]*dto.TransactionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.PaymentRepository().GetTransactions(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TransactionListResponse, 0, len(rows))
	for _, t := range rows {
		res = append(res, &dto.TransactionListResponse{
			Id:             t.Id,
			SubscriptionId: t.SubscriptionId,
			ChannelName:    t.ChannelName,
			Contact:        t.Contact,
			Amount:         t.Amount,
			Method:         string(t.Method),
			Status:         string(t.Status),
			GatewayOrderId: t.GatewayOrderId,
			CreatedAt:      t.CreatedAt,
			CompletedAt:    t.CompletedAt,
		})
	}
	return res, nil
}

func (s *adminService) CreatePayout(ctx context.Context, req *dto.PayoutRequest) (*dto.PayoutResponse, error) {
	ref, err := s.gateway.CreatePayout(ctx, req.Amount, req.BankAccount, req.BankCode, req.Notes)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin", "Payout created", map[string]interface{}{
		"payout_ref": ref,
		"amount":     req.Amount,
	})
	return &dto.PayoutResponse{PayoutRef: ref, Status: "queued"}, nil
}

func (s *adminService) CreateChannel(ctx context.Context, req *dto.ChannelRequest) (*dto.ChannelResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ChannelRepository().FindOne(ctx, specification.BySlug{Slug: req.Slug})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("slug already in use")
	}

	now := s.now()
	ch := &entity.Channel{
		Id:             uuid.New(),
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		TelegramChatId: req.TelegramChatId,
		MonthlyPrice:   req.MonthlyPrice,
		YearlyPrice:    req.YearlyPrice,
		Currency:       req.Currency,
		IsActive:       req.IsActive,
		SortOrder:      req.SortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if ch.Currency == "" {
		ch.Currency = "USD"
	}
	if err := uow.ChannelRepository().Create(ctx, ch); err != nil {
		return nil, err
	}

	s.channelService.InvalidateCatalog(ctx)
	return channelToResponse(ch), nil
}

func (s *adminService) UpdateChannel(ctx context.Context, id uuid.UUID, req *dto.ChannelRequest) (*dto.ChannelResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ch, err := uow.ChannelRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, errors.New("channel not found")
	}

	ch.Name = req.Name
	ch.Slug = req.Slug
	ch.Description = req.Description
	ch.TelegramChatId = req.TelegramChatId
	ch.MonthlyPrice = req.MonthlyPrice
	ch.YearlyPrice = req.YearlyPrice
	if req.Currency != "" {
		ch.Currency = req.Currency
	}
	ch.IsActive = req.IsActive
	ch.SortOrder = req.SortOrder
	ch.UpdatedAt = s.now()

	if err := uow.ChannelRepository().Update(ctx, ch); err != nil {
		return nil, err
	}

	s.channelService.InvalidateCatalog(ctx)
	return channelToResponse(ch), nil
}

func (s *adminService) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	active, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.Filter("channel_id", id),
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
	)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return errors.New("channel has active subscriptions")
	}

	if err := uow.ChannelRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.channelService.InvalidateCatalog(ctx)
	return nil
}

// PauseSubscription freezes a subscription: the sweep and the reminder
// dispatcher skip it until an admin resumes it. The billing clock is not
// rewound; pause is an operational hold, not free time.
func (s *adminService) PauseSubscription(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ok, err := uow.SubscriptionRepository().TransitionStatus(ctx, id, entity.SubscriptionStatusActive, entity.SubscriptionStatusPaused)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("subscription is not active")
	}
	return nil
}

func (s *adminService) ResumeSubscription(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ok, err := uow.SubscriptionRepository().TransitionStatus(ctx, id, entity.SubscriptionStatusPaused, entity.SubscriptionStatusActive)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("subscription is not paused")
	}
	return nil
}

func (s *adminService) TriggerSweep(ctx context.Context) (*dto.SweepResponse, error) {
	return s.lifecycleService.RunSweep(ctx)
}

// GetSystemLogs reads back the structured log file for the back-office.
func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]logger.LogEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.logger.GetLogs(level, limit, (page-1)*limit)
}

func channelToResponse(ch *entity.Channel) *dto.ChannelResponse {
	return &dto.ChannelResponse{
		Id:           ch.Id,
		Name:         ch.Name,
		Slug:         ch.Slug,
		Description:  ch.Description,
		MonthlyPrice: ch.MonthlyPrice,
		YearlyPrice:  ch.YearlyPrice,
		Currency:     ch.Currency,
	}
}

func derefTransactions(in []*dto.TransactionListResponse) []dto.TransactionListResponse {
	out := make([]dto.TransactionListResponse, 0, len(in))
	for _, t := range in {
		out = append(out, *t)
	}
	return out
}
