package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccessCode is a single-use, short-TTL credential bridging a confirmed
// payment to a durable grant. A code is valid iff !Used && now <= ExpiresAt.
// Once Used is set it is never cleared, even if the redemption that set it
// failed afterwards.
type AccessCode struct {
	Id             uuid.UUID
	Code           string
	SubscriptionId uuid.UUID
	ExpiresAt      time.Time
	Used           bool
	CreatedAt      time.Time
}

func (c *AccessCode) IsValid(now time.Time) bool {
	return !c.Used && !now.After(c.ExpiresAt)
}

// AccessGrant records whether a principal currently has access to a channel.
// One grant exists per (principal, channel) pair; a new redemption overwrites
// it. ExpiresAt mirrors the subscription's period end at grant time.
type AccessGrant struct {
	Id             uuid.UUID
	SubscriptionId uuid.UUID
	PrincipalId    string
	ChannelId      uuid.UUID
	AccessGranted  bool
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
