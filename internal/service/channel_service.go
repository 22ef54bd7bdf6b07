package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/specification"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/redis/go-redis/v9"
)

const (
	catalogCacheKey = "catalog:channels"
	catalogCacheTTL = 5 * time.Minute
)

// IChannelService is the public storefront catalog. The channel list is
// read-heavy and changes only through the admin surface, so it sits behind a
// short redis cache that admin writes invalidate.
type IChannelService interface {
	GetCatalog(ctx context.Context) ([]*dto.ChannelResponse, error)
	GetChannelBySlug(ctx context.Context, slug string) (*dto.ChannelResponse, error)
	InvalidateCatalog(ctx context.Context)
}

type channelService struct {
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewChannelService(uowFactory unitofwork.RepositoryFactory, rdb *redis.Client, log logger.ILogger) IChannelService {
	return &channelService{
		uowFactory: uowFactory,
		rdb:        rdb,
		logger:     log,
	}
}

func (s *channelService) GetCatalog(ctx context.Context) ([]*dto.ChannelResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var res []*dto.ChannelResponse
			if json.Unmarshal(cached, &res) == nil {
				return res, nil
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	channels, err := uow.ChannelRepository().FindAll(ctx,
		specification.ActiveChannels{},
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		res = append(res, &dto.ChannelResponse{
			Id:           ch.Id,
			Name:         ch.Name,
			Slug:         ch.Slug,
			Description:  ch.Description,
			MonthlyPrice: ch.MonthlyPrice,
			YearlyPrice:  ch.YearlyPrice,
			Currency:     ch.Currency,
		})
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := s.rdb.Set(ctx, catalogCacheKey, payload, catalogCacheTTL).Err(); err != nil {
				s.logger.Warn("Channel", "Failed to cache catalog", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return res, nil
}

func (s *channelService) GetChannelBySlug(ctx context.Context, slug string) (*dto.ChannelResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ch, err := uow.ChannelRepository().FindOne(ctx, specification.BySlug{Slug: slug})
	if err != nil {
		return nil, err
	}
	if ch == nil || !ch.IsActive {
		return nil, errors.New("channel not found")
	}

	return &dto.ChannelResponse{
		Id:           ch.Id,
		Name:         ch.Name,
		Slug:         ch.Slug,
		Description:  ch.Description,
		MonthlyPrice: ch.MonthlyPrice,
		YearlyPrice:  ch.YearlyPrice,
		Currency:     ch.Currency,
	}, nil
}

func (s *channelService) InvalidateCatalog(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.Warn("Channel", "Failed to invalidate catalog cache", map[string]interface{}{"error": err.Error()})
	}
}
