package entity

import (
	"time"

	"github.com/google/uuid"
)

// Channel is the gated resource a subscription grants access to.
type Channel struct {
	Id             uuid.UUID
	Name           string
	Slug           string
	Description    string
	TelegramChatId string
	MonthlyPrice   float64
	YearlyPrice    float64
	Currency       string
	IsActive       bool
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceFor returns the charge amount for the given cadence.
func (c *Channel) PriceFor(cadence BillingCadence) float64 {
	if cadence == CadenceYearly {
		return c.YearlyPrice
	}
	return c.MonthlyPrice
}
