package model

import (
	"time"

	"github.com/google/uuid"
)

type AccessCode struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code           string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	SubscriptionId uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt      time.Time `gorm:"not null"`
	Used           bool      `gorm:"default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (AccessCode) TableName() string {
	return "access_codes"
}

type AccessGrant struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId uuid.UUID `gorm:"type:uuid;not null;index"`
	PrincipalId    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_grant_principal_channel"`
	ChannelId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grant_principal_channel"`
	AccessGranted  bool      `gorm:"default:false"`
	ExpiresAt      time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (AccessGrant) TableName() string {
	return "access_grants"
}
