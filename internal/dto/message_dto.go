package dto

import (
	"time"

	"github.com/google/uuid"
)

// PaymentConfirmedMessage travels over the in-process pubsub from the
// checkout confirmation to the consumer that emails the access code.
type PaymentConfirmedMessage struct {
	PaymentId      uuid.UUID `json:"payment_id"`
	SubscriptionId uuid.UUID `json:"subscription_id"`
	Contact        string    `json:"contact"`
	ChannelName    string    `json:"channel_name"`
	AccessCode     string    `json:"access_code"`
	CodeExpiresAt  time.Time `json:"code_expires_at"`
	PeriodEnd      time.Time `json:"period_end"`
}
