package mapper

import (
	"channelpass-be/internal/entity"
	"channelpass-be/internal/model"
)

type AccessMapper struct{}

func NewAccessMapper() *AccessMapper {
	return &AccessMapper{}
}

func (m *AccessMapper) CodeToEntity(c *model.AccessCode) *entity.AccessCode {
	if c == nil {
		return nil
	}
	return &entity.AccessCode{
		Id:             c.Id,
		Code:           c.Code,
		SubscriptionId: c.SubscriptionId,
		ExpiresAt:      c.ExpiresAt,
		Used:           c.Used,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *AccessMapper) CodeToModel(c *entity.AccessCode) *model.AccessCode {
	if c == nil {
		return nil
	}
	return &model.AccessCode{
		Id:             c.Id,
		Code:           c.Code,
		SubscriptionId: c.SubscriptionId,
		ExpiresAt:      c.ExpiresAt,
		Used:           c.Used,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *AccessMapper) GrantToEntity(g *model.AccessGrant) *entity.AccessGrant {
	if g == nil {
		return nil
	}
	return &entity.AccessGrant{
		Id:             g.Id,
		SubscriptionId: g.SubscriptionId,
		PrincipalId:    g.PrincipalId,
		ChannelId:      g.ChannelId,
		AccessGranted:  g.AccessGranted,
		ExpiresAt:      g.ExpiresAt,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func (m *AccessMapper) GrantToModel(g *entity.AccessGrant) *model.AccessGrant {
	if g == nil {
		return nil
	}
	return &model.AccessGrant{
		Id:             g.Id,
		SubscriptionId: g.SubscriptionId,
		PrincipalId:    g.PrincipalId,
		ChannelId:      g.ChannelId,
		AccessGranted:  g.AccessGranted,
		ExpiresAt:      g.ExpiresAt,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}
