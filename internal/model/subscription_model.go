package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrincipalId         *string   `gorm:"type:varchar(255);index"`
	ChannelId           uuid.UUID `gorm:"type:uuid;not null;index"`
	Contact             string    `gorm:"type:varchar(255);not null"`
	Status              string    `gorm:"type:varchar(50);not null;index"`
	Cadence             string    `gorm:"type:varchar(20);not null"`
	Price               float64   `gorm:"type:decimal(10,2);not null"`
	Autopay             bool      `gorm:"default:false"`
	CurrentPeriodStart  time.Time `gorm:"not null"`
	CurrentPeriodEnd    time.Time `gorm:"not null;index"`
	NextBillingDate     time.Time `gorm:"not null;index"`
	RenewalReminderSent bool      `gorm:"default:false"`
	ExpiryReminderSent  bool      `gorm:"default:false"`
	GraceReminderSent   bool      `gorm:"default:false"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
	CancelledAt         *time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}
