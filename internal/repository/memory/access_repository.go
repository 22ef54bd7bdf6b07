package memory

import (
	"context"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type accessRepository struct {
	store *Store
}

func (r *accessRepository) CreateCode(ctx context.Context, code *entity.AccessCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if code.Id == uuid.Nil {
		code.Id = uuid.New()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	cp := *code
	r.store.codes.Set(code.Code, &cp, cache.DefaultExpiration)
	r.store.codesById[code.Id] = code.Code
	return nil
}

func (r *accessRepository) FindCode(ctx context.Context, specs ...specification.Specification) (*entity.AccessCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByCode:
			if x, found := r.store.codes.Get(sp.Code); found {
				cp := *(x.(*entity.AccessCode))
				return &cp, nil
			}
			return nil, nil
		case specification.ByID:
			if code, ok := r.store.codesById[sp.ID]; ok {
				if x, found := r.store.codes.Get(code); found {
					cp := *(x.(*entity.AccessCode))
					return &cp, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *accessRepository) ConsumeCode(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	code, ok := r.store.codesById[id]
	if !ok {
		return false, nil
	}
	x, found := r.store.codes.Get(code)
	if !found {
		return false, nil
	}
	c := x.(*entity.AccessCode)
	if c.Used {
		return false, nil
	}
	c.Used = true
	return true, nil
}

func (r *accessRepository) UpsertGrant(ctx context.Context, grant *entity.AccessGrant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := grantKey(grant.PrincipalId, grant.ChannelId)
	now := time.Now()
	if existing, ok := r.store.grants[key]; ok {
		grant.Id = existing.Id
		grant.CreatedAt = existing.CreatedAt
	} else {
		if grant.Id == uuid.Nil {
			grant.Id = uuid.New()
		}
		grant.CreatedAt = now
	}
	grant.UpdatedAt = now
	cp := *grant
	r.store.grants[key] = &cp
	return nil
}

func (r *accessRepository) FindGrant(ctx context.Context, principalId string, channelId uuid.UUID) (*entity.AccessGrant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if g, ok := r.store.grants[grantKey(principalId, channelId)]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (r *accessRepository) RevokeGrant(ctx context.Context, principalId string, channelId uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	g, ok := r.store.grants[grantKey(principalId, channelId)]
	if !ok || !g.AccessGranted {
		return false, nil
	}
	g.AccessGranted = false
	g.UpdatedAt = time.Now()
	return true, nil
}

func (r *accessRepository) RevokeGrantsBySubscription(ctx context.Context, subscriptionId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, g := range r.store.grants {
		if g.SubscriptionId == subscriptionId && g.AccessGranted {
			g.AccessGranted = false
			g.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}
