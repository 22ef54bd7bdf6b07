package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Payment struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId   *uuid.UUID     `gorm:"type:uuid;index"`
	ChannelId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	PrincipalId      *string        `gorm:"type:varchar(64)"`
	Contact          string         `gorm:"type:varchar(255);not null"`
	Cadence          string         `gorm:"type:varchar(20);not null"`
	Amount           float64        `gorm:"type:decimal(10,2);not null"`
	Autopay          bool           `gorm:"default:false"`
	Method           string         `gorm:"type:varchar(20);not null"`
	Status           string         `gorm:"type:varchar(20);not null;index"`
	GatewayOrderId   string         `gorm:"type:varchar(255);uniqueIndex"`
	GatewayPaymentId *string        `gorm:"type:varchar(255)"`
	GatewaySignature *string        `gorm:"type:varchar(512)"`
	RawPayload       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	CompletedAt      *time.Time
}

func (Payment) TableName() string {
	return "payments"
}
