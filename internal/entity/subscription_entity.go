package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingCadence string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"

	CadenceMonthly BillingCadence = "monthly"
	CadenceYearly  BillingCadence = "yearly"
)

// Subscription is the billing relationship between a principal (possibly a
// guest identified only by contact email) and a channel. Rows are never
// deleted; cancellation and expiry are status transitions.
type Subscription struct {
	Id                  uuid.UUID
	PrincipalId         *string // nil for guest checkout until first redemption
	ChannelId           uuid.UUID
	Contact             string
	Status              SubscriptionStatus
	Cadence             BillingCadence
	Price               float64
	Autopay             bool
	CurrentPeriodStart  time.Time
	CurrentPeriodEnd    time.Time
	NextBillingDate     time.Time
	RenewalReminderSent bool // 7-day tier, reset when a new period starts
	ExpiryReminderSent  bool // 1-day tier
	GraceReminderSent   bool // post-expiry tier
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CancelledAt         *time.Time
}

// NextPeriodEnd returns the end of a period starting at from for this
// subscription's cadence.
func (s *Subscription) NextPeriodEnd(from time.Time) time.Time {
	if s.Cadence == CadenceYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// SubscriptionTransaction is a read-model row joining a payment with its
// channel, used by the admin transaction list.
type SubscriptionTransaction struct {
	Id             uuid.UUID
	SubscriptionId *uuid.UUID
	ChannelName    string
	Contact        string
	Amount         float64
	Method         PaymentMethod
	Status         PaymentStatus
	GatewayOrderId string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
