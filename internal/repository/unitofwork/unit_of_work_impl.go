package unitofwork

import (
	"context"
	"fmt"

	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil when not in one
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) SubscriptionRepository() contract.SubscriptionRepository {
	return implementation.NewSubscriptionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PaymentRepository() contract.PaymentRepository {
	return implementation.NewPaymentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AccessRepository() contract.AccessRepository {
	return implementation.NewAccessRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChannelRepository() contract.ChannelRepository {
	return implementation.NewChannelRepository(u.getDB())
}
