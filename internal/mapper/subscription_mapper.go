package mapper

import (
	"channelpass-be/internal/entity"
	"channelpass-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                  s.Id,
		PrincipalId:         s.PrincipalId,
		ChannelId:           s.ChannelId,
		Contact:             s.Contact,
		Status:              entity.SubscriptionStatus(s.Status),
		Cadence:             entity.BillingCadence(s.Cadence),
		Price:               s.Price,
		Autopay:             s.Autopay,
		CurrentPeriodStart:  s.CurrentPeriodStart,
		CurrentPeriodEnd:    s.CurrentPeriodEnd,
		NextBillingDate:     s.NextBillingDate,
		RenewalReminderSent: s.RenewalReminderSent,
		ExpiryReminderSent:  s.ExpiryReminderSent,
		GraceReminderSent:   s.GraceReminderSent,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		CancelledAt:         s.CancelledAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                  s.Id,
		PrincipalId:         s.PrincipalId,
		ChannelId:           s.ChannelId,
		Contact:             s.Contact,
		Status:              string(s.Status),
		Cadence:             string(s.Cadence),
		Price:               s.Price,
		Autopay:             s.Autopay,
		CurrentPeriodStart:  s.CurrentPeriodStart,
		CurrentPeriodEnd:    s.CurrentPeriodEnd,
		NextBillingDate:     s.NextBillingDate,
		RenewalReminderSent: s.RenewalReminderSent,
		ExpiryReminderSent:  s.ExpiryReminderSent,
		GraceReminderSent:   s.GraceReminderSent,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		CancelledAt:         s.CancelledAt,
	}
}
