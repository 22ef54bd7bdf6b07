package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatusResponse struct {
	SubscriptionId   uuid.UUID `json:"subscription_id"`
	ChannelName      string    `json:"channel_name"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	AccessGranted    bool      `json:"access_granted"`
	DaysUntilExpiry  int       `json:"days_until_expiry"`
	RenewalRequired  bool      `json:"renewal_required"`
}

type SweepResponse struct {
	Expired int `json:"expired"`
	Renewed int `json:"renewed"`
}
