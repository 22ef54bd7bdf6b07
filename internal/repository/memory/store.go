package memory

import (
	"context"
	"sync"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/contract"
	"channelpass-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store is the document-style adapter of the storage port. Records live in
// maps keyed the way a document database would key them; access codes sit in
// a TTL cache so stale codes age out on their own. All conditional writes
// run under the store mutex, which gives the same per-record atomicity the
// SQL adapter gets from guarded UPDATEs.
//
// The sweep and gateway tests run against this adapter.
type Store struct {
	mu            sync.RWMutex
	subscriptions map[uuid.UUID]*entity.Subscription
	payments      map[uuid.UUID]*entity.Payment
	channels      map[uuid.UUID]*entity.Channel
	grants        map[string]*entity.AccessGrant // key: principalId|channelId
	codes         *cache.Cache                   // key: code string
	codesById     map[uuid.UUID]string
}

func NewStore() *Store {
	return &Store{
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
		payments:      make(map[uuid.UUID]*entity.Payment),
		channels:      make(map[uuid.UUID]*entity.Channel),
		grants:        make(map[string]*entity.AccessGrant),
		// Codes expire after 10 minutes anyway; keep them a little longer
		// so a late lookup still reports "used or expired" instead of
		// "unknown".
		codes:     cache.New(30*time.Minute, 10*time.Minute),
		codesById: make(map[uuid.UUID]string),
	}
}

func grantKey(principalId string, channelId uuid.UUID) string {
	return principalId + "|" + channelId.String()
}

// Factory adapts the store to the RepositoryFactory port so services can be
// wired against it unchanged.

type Factory struct {
	store *Store
}

func NewFactory(store *Store) unitofwork.RepositoryFactory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork gives document-store transaction semantics: Begin/Commit are
// accepted and do nothing, because every write below is already atomic per
// record. Callers relying on multi-record atomicity (code + grant) get it
// from the store mutex inside ConsumeCode/UpsertGrant pairs being driven by
// a single goroutine per redemption.
type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &subscriptionRepository{store: u.store}
}

func (u *unitOfWork) PaymentRepository() contract.PaymentRepository {
	return &paymentRepository{store: u.store}
}

func (u *unitOfWork) AccessRepository() contract.AccessRepository {
	return &accessRepository{store: u.store}
}

func (u *unitOfWork) ChannelRepository() contract.ChannelRepository {
	return &channelRepository{store: u.store}
}
