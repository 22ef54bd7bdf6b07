package events

import "time"

// Event is the contract for everything that crosses the event bus.
type Event interface {
	// EventType returns the unique code for this event
	// (e.g. "SUBSCRIPTION_EXPIRED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used throughout the codebase.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the lifecycle engine and checkout flow.
const (
	TypeSubscriptionCreated = "SUBSCRIPTION_CREATED"
	TypeSubscriptionRenewed = "SUBSCRIPTION_RENEWED"
	TypeSubscriptionExpired = "SUBSCRIPTION_EXPIRED"
	TypePaymentConfirmed    = "PAYMENT_CONFIRMED"
	TypePaymentFailed       = "PAYMENT_FAILED"
	TypeAccessRedeemed      = "ACCESS_REDEEMED"
)
