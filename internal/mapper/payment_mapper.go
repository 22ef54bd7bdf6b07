package mapper

import (
	"channelpass-be/internal/entity"
	"channelpass-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:               p.Id,
		SubscriptionId:   p.SubscriptionId,
		ChannelId:        p.ChannelId,
		PrincipalId:      p.PrincipalId,
		Contact:          p.Contact,
		Cadence:          entity.BillingCadence(p.Cadence),
		Amount:           p.Amount,
		Autopay:          p.Autopay,
		Method:           entity.PaymentMethod(p.Method),
		Status:           entity.PaymentStatus(p.Status),
		GatewayOrderId:   p.GatewayOrderId,
		GatewayPaymentId: p.GatewayPaymentId,
		GatewaySignature: p.GatewaySignature,
		RawPayload:       []byte(p.RawPayload),
		CreatedAt:        p.CreatedAt,
		CompletedAt:      p.CompletedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:               p.Id,
		SubscriptionId:   p.SubscriptionId,
		ChannelId:        p.ChannelId,
		PrincipalId:      p.PrincipalId,
		Contact:          p.Contact,
		Cadence:          string(p.Cadence),
		Amount:           p.Amount,
		Autopay:          p.Autopay,
		Method:           string(p.Method),
		Status:           string(p.Status),
		GatewayOrderId:   p.GatewayOrderId,
		GatewayPaymentId: p.GatewayPaymentId,
		GatewaySignature: p.GatewaySignature,
		RawPayload:       datatypes.JSON(p.RawPayload),
		CreatedAt:        p.CreatedAt,
		CompletedAt:      p.CompletedAt,
	}
}
