package contract

import (
	"context"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)

	// Complete moves a pending payment to its terminal status exactly once
	// (guarded on status = pending). false means the payment was already
	// completed, which callers treat as a duplicate notification.
	Complete(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, gatewayPaymentId, signature string, rawPayload []byte, at time.Time) (bool, error)

	// AttachSubscription links a confirmed payment to the subscription it
	// produced.
	AttachSubscription(ctx context.Context, id uuid.UUID, subscriptionId uuid.UUID) error

	// Admin projections.
	GetTotalRevenue(ctx context.Context) (float64, error)
	GetTransactions(ctx context.Context, status string, limit, offset int) ([]*entity.SubscriptionTransaction, error)
}
