package implementation

import (
	"context"
	"errors"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/mapper"
	"channelpass-be/internal/model"
	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *entity.Payment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*payment = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var models []*model.Payment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Payment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PaymentRepositoryImpl) Complete(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, gatewayPaymentId, signature string, rawPayload []byte, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, string(entity.PaymentStatusPending)).
		Updates(map[string]interface{}{
			"status":             string(status),
			"gateway_payment_id": gatewayPaymentId,
			"gateway_signature":  signature,
			"raw_payload":        rawPayload,
			"completed_at":       at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepositoryImpl) AttachSubscription(ctx context.Context, id uuid.UUID, subscriptionId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", id).
		Update("subscription_id", subscriptionId).Error
}

func (r *PaymentRepositoryImpl) GetTotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ?", string(entity.PaymentStatusSuccess)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *PaymentRepositoryImpl) GetTransactions(ctx context.Context, status string, limit, offset int) ([]*entity.SubscriptionTransaction, error) {
	var results []*entity.SubscriptionTransaction

	query := r.db.WithContext(ctx).Table("payments").
		Select(`
			payments.id,
			payments.subscription_id,
			channels.name as channel_name,
			payments.contact,
			payments.amount,
			payments.method,
			payments.status,
			payments.gateway_order_id,
			payments.created_at,
			payments.completed_at
		`).
		Joins("JOIN channels ON payments.channel_id = channels.id")

	if status != "" {
		query = query.Where("payments.status = ?", status)
	}

	err := query.Order("payments.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
