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

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.Subscription) error {
	m := r.mapper.ToModel(sub)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sub = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) GetActiveSubscriptions(ctx context.Context) ([]*entity.Subscription, error) {
	return r.FindAll(ctx, specification.StatusIs{Status: string(entity.SubscriptionStatusActive)})
}

func (r *SubscriptionRepositoryImpl) GetSubscriptionsExpiringBetween(ctx context.Context, start, end time.Time) ([]*entity.Subscription, error) {
	return r.FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusActive)},
		specification.ExpiringBetween{Start: start, End: end},
	)
}

func (r *SubscriptionRepositoryImpl) GetExpiredSubscriptionsInGracePeriod(ctx context.Context, since, until time.Time) ([]*entity.Subscription, error) {
	return r.FindAll(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusExpired)},
		specification.ExpiringBetween{Start: since, End: until},
	)
}

func (r *SubscriptionRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SubscriptionStatus) (bool, error) {
	updates := map[string]interface{}{"status": string(to)}
	if to == entity.SubscriptionStatusCancelled {
		updates["cancelled_at"] = time.Now()
	}
	res := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SubscriptionRepositoryImpl) RenewPeriod(ctx context.Context, id uuid.UUID, dueAt time.Time, start, end time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND status = ? AND next_billing_date = ?", id, string(entity.SubscriptionStatusActive), dueAt).
		Updates(map[string]interface{}{
			"current_period_start":  start,
			"current_period_end":    end,
			"next_billing_date":     end,
			"renewal_reminder_sent": false,
			"expiry_reminder_sent":  false,
			"grace_reminder_sent":   false,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SubscriptionRepositoryImpl) MarkReminderSent(ctx context.Context, id uuid.UUID, tier contract.ReminderTier) error {
	column := map[contract.ReminderTier]string{
		contract.TierExpiringSoon:     "renewal_reminder_sent",
		contract.TierExpiringTomorrow: "expiry_reminder_sent",
		contract.TierGracePeriod:      "grace_reminder_sent",
	}[tier]
	return r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ?", id).
		Update(column, true).Error
}

func (r *SubscriptionRepositoryImpl) CountByStatus(ctx context.Context, status entity.SubscriptionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

func (r *SubscriptionRepositoryImpl) CountExpiringWithin(ctx context.Context, from, until time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("status = ? AND current_period_end >= ? AND current_period_end < ?",
			string(entity.SubscriptionStatusActive), from, until).
		Count(&count).Error
	return count, err
}
