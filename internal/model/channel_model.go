package model

import (
	"time"

	"github.com/google/uuid"
)

type Channel struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Slug           string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description    string    `gorm:"type:text"`
	TelegramChatId string    `gorm:"type:varchar(64);not null"`
	MonthlyPrice   float64   `gorm:"type:decimal(10,2);not null"`
	YearlyPrice    float64   `gorm:"type:decimal(10,2);not null"`
	Currency       string    `gorm:"type:varchar(10);default:'INR'"`
	IsActive       bool      `gorm:"default:true"`
	SortOrder      int       `gorm:"default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Channel) TableName() string {
	return "channels"
}
