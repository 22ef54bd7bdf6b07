package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string
type PaymentMethod string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"

	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

// Payment is one attempted charge. It is created pending at checkout and
// flipped exactly once to success or failed by the confirmation step;
// after that it is immutable. SubscriptionId is nil until the payment is
// confirmed and the subscription is created.
type Payment struct {
	Id               uuid.UUID
	SubscriptionId   *uuid.UUID
	ChannelId        uuid.UUID
	PrincipalId      *string // optional at checkout, copied onto the subscription
	Contact          string
	Cadence          BillingCadence
	Amount           float64
	Autopay          bool
	Method           PaymentMethod
	Status           PaymentStatus
	GatewayOrderId   string
	GatewayPaymentId *string
	GatewaySignature *string
	RawPayload       []byte // raw gateway notification, kept for audit
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
