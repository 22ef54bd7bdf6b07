package contract

import (
	"context"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AccessRepository interface {
	CreateCode(ctx context.Context, code *entity.AccessCode) error
	FindCode(ctx context.Context, specs ...specification.Specification) (*entity.AccessCode, error)

	// ConsumeCode marks a code used, guarded on used = false. false means
	// the code was already consumed.
	ConsumeCode(ctx context.Context, id uuid.UUID) (bool, error)

	// UpsertGrant creates or overwrites the grant for the grant's
	// (principal, channel) pair. Redemptions never produce duplicates.
	UpsertGrant(ctx context.Context, grant *entity.AccessGrant) error

	FindGrant(ctx context.Context, principalId string, channelId uuid.UUID) (*entity.AccessGrant, error)

	// RevokeGrant clears access_granted for one (principal, channel) pair.
	RevokeGrant(ctx context.Context, principalId string, channelId uuid.UUID) (bool, error)

	// RevokeGrantsBySubscription clears every grant backed by the given
	// subscription; used by the expiry sweep.
	RevokeGrantsBySubscription(ctx context.Context, subscriptionId uuid.UUID) (int64, error)
}
