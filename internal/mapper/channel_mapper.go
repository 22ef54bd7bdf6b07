package mapper

import (
	"channelpass-be/internal/entity"
	"channelpass-be/internal/model"
)

type ChannelMapper struct{}

func NewChannelMapper() *ChannelMapper {
	return &ChannelMapper{}
}

func (m *ChannelMapper) ToEntity(c *model.Channel) *entity.Channel {
	if c == nil {
		return nil
	}
	return &entity.Channel{
		Id:             c.Id,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		TelegramChatId: c.TelegramChatId,
		MonthlyPrice:   c.MonthlyPrice,
		YearlyPrice:    c.YearlyPrice,
		Currency:       c.Currency,
		IsActive:       c.IsActive,
		SortOrder:      c.SortOrder,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *ChannelMapper) ToModel(c *entity.Channel) *model.Channel {
	if c == nil {
		return nil
	}
	return &model.Channel{
		Id:             c.Id,
		Name:           c.Name,
		Slug:           c.Slug,
		Description:    c.Description,
		TelegramChatId: c.TelegramChatId,
		MonthlyPrice:   c.MonthlyPrice,
		YearlyPrice:    c.YearlyPrice,
		Currency:       c.Currency,
		IsActive:       c.IsActive,
		SortOrder:      c.SortOrder,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
