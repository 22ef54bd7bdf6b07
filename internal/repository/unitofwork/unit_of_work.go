package unitofwork

import (
	"context"

	"channelpass-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin/Commit
// bracket writes that must land atomically (code consumption + grant upsert);
// outside a transaction the repositories operate directly on the store.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubscriptionRepository() contract.SubscriptionRepository
	PaymentRepository() contract.PaymentRepository
	AccessRepository() contract.AccessRepository
	ChannelRepository() contract.ChannelRepository
}
