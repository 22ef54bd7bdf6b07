package memory

import (
	"context"
	"time"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type channelRepository struct {
	store *Store
}

func (r *channelRepository) Create(ctx context.Context, channel *entity.Channel) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if channel.Id == uuid.Nil {
		channel.Id = uuid.New()
	}
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now()
	}
	cp := *channel
	r.store.channels[channel.Id] = &cp
	return nil
}

func (r *channelRepository) Update(ctx context.Context, channel *entity.Channel) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	channel.UpdatedAt = time.Now()
	cp := *channel
	r.store.channels[channel.Id] = &cp
	return nil
}

func (r *channelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.channels, id)
	return nil
}

func (r *channelRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Channel, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *channelRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Channel, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Channel
	for _, c := range r.store.channels {
		ok := true
		for _, spec := range specs {
			if !matchChannel(spec, c) {
				ok = false
				break
			}
		}
		if ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	out = applyOrdering(out, specs, func(c *entity.Channel) int64 { return c.CreatedAt.UnixNano() })
	return out, nil
}
