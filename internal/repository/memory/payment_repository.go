package memory

import (
	"context"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type paymentRepository struct {
	store *Store
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if payment.Id == uuid.Nil {
		payment.Id = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	cp := *payment
	r.store.payments[payment.Id] = &cp
	return nil
}

func (r *paymentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *paymentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Payment
	for _, p := range r.store.payments {
		ok := true
		for _, spec := range specs {
			if !matchPayment(spec, p) {
				ok = false
				break
			}
		}
		if ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	out = applyOrdering(out, specs, func(p *entity.Payment) int64 { return p.CreatedAt.UnixNano() })
	return out, nil
}

func (r *paymentRepository) Complete(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, gatewayPaymentId, signature string, rawPayload []byte, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.GatewayPaymentId = &gatewayPaymentId
	p.GatewaySignature = &signature
	p.RawPayload = rawPayload
	p.CompletedAt = &at
	return true, nil
}

func (r *paymentRepository) AttachSubscription(ctx context.Context, id uuid.UUID, subscriptionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.payments[id]; ok {
		sid := subscriptionId
		p.SubscriptionId = &sid
	}
	return nil
}

func (r *paymentRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var total float64
	for _, p := range r.store.payments {
		if p.Status == entity.PaymentStatusSuccess {
			total += p.Amount
		}
	}
	return total, nil
}

func (r *paymentRepository) GetTransactions(ctx context.Context, status string, limit, offset int) ([]*entity.SubscriptionTransaction, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if status != "" {
		specs = append(specs, specification.StatusIs{Status: status})
	}
	payments, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.SubscriptionTransaction, 0, len(payments))
	for _, p := range payments {
		channelName := ""
		if ch, ok := r.store.channels[p.ChannelId]; ok {
			channelName = ch.Name
		}
		out = append(out, &entity.SubscriptionTransaction{
			Id:             p.Id,
			SubscriptionId: p.SubscriptionId,
			ChannelName:    channelName,
			Contact:        p.Contact,
			Amount:         p.Amount,
			Method:         p.Method,
			Status:         p.Status,
			GatewayOrderId: p.GatewayOrderId,
			CreatedAt:      p.CreatedAt,
			CompletedAt:    p.CompletedAt,
		})
	}
	return out, nil
}
