package implementation

import (
	"context"
	"errors"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/mapper"
	"channelpass-be/internal/model"
	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AccessMapper
}

func NewAccessRepository(db *gorm.DB) contract.AccessRepository {
	return &AccessRepositoryImpl{
		db:     db,
		mapper: mapper.NewAccessMapper(),
	}
}

func (r *AccessRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AccessRepositoryImpl) CreateCode(ctx context.Context, code *entity.AccessCode) error {
	m := r.mapper.CodeToModel(code)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*code = *r.mapper.CodeToEntity(m)
	return nil
}

func (r *AccessRepositoryImpl) FindCode(ctx context.Context, specs ...specification.Specification) (*entity.AccessCode, error) {
	var m model.AccessCode
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CodeToEntity(&m), nil
}

func (r *AccessRepositoryImpl) ConsumeCode(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AccessCode{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AccessRepositoryImpl) UpsertGrant(ctx context.Context, grant *entity.AccessGrant) error {
	m := r.mapper.GrantToModel(grant)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "principal_id"}, {Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id", "access_granted", "expires_at", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*grant = *r.mapper.GrantToEntity(m)
	return nil
}

func (r *AccessRepositoryImpl) FindGrant(ctx context.Context, principalId string, channelId uuid.UUID) (*entity.AccessGrant, error) {
	var m model.AccessGrant
	err := r.db.WithContext(ctx).
		Where("principal_id = ? AND channel_id = ?", principalId, channelId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.GrantToEntity(&m), nil
}

func (r *AccessRepositoryImpl) RevokeGrant(ctx context.Context, principalId string, channelId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AccessGrant{}).
		Where("principal_id = ? AND channel_id = ? AND access_granted = ?", principalId, channelId, true).
		Update("access_granted", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AccessRepositoryImpl) RevokeGrantsBySubscription(ctx context.Context, subscriptionId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.AccessGrant{}).
		Where("subscription_id = ? AND access_granted = ?", subscriptionId, true).
		Update("access_granted", false)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
