package dto

import (
	"github.com/google/uuid"
)

type CheckoutRequest struct {
	ChannelId   uuid.UUID `json:"channel_id" validate:"required"`
	Contact     string    `json:"contact" validate:"required,email"`
	Cadence     string    `json:"cadence" validate:"required,oneof=monthly yearly"`
	Method      string    `json:"method" validate:"required,oneof=upi card"`
	Autopay     bool      `json:"autopay"`
	PrincipalId string    `json:"principal_id"` // optional, guest checkout allowed
}

type CheckoutResponse struct {
	PaymentId     uuid.UUID `json:"payment_id"`
	PaymentHandle string    `json:"payment_handle"`
	RedirectUrl   string    `json:"redirect_url"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
}

// GatewayWebhookRequest is the payment gateway's server-to-server
// notification payload.
type GatewayWebhookRequest struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	TransactionId     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
}
