package memory

import (
	"sort"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

// The document adapter interprets the shared specification vocabulary
// instead of building SQL from it. Specs that make no sense for a record
// type simply never match, which surfaces wiring mistakes in tests.

func matchSubscription(spec specification.Specification, s *entity.Subscription) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return s.Id == sp.ID
	case specification.StatusIs:
		return string(s.Status) == sp.Status
	case specification.OwnedByPrincipal:
		return s.PrincipalId != nil && *s.PrincipalId == sp.PrincipalId
	case specification.ExpiringBetween:
		return !s.CurrentPeriodEnd.Before(sp.Start) && s.CurrentPeriodEnd.Before(sp.End)
	case specification.FilterBy:
		if sp.Field == "channel_id" {
			cid, ok := sp.Value.(uuid.UUID)
			return ok && s.ChannelId == cid
		}
		return false
	case specification.OrderBy, specification.Pagination:
		return true // applied after filtering
	default:
		return false
	}
}

func matchPayment(spec specification.Specification, p *entity.Payment) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return p.Id == sp.ID
	case specification.StatusIs:
		return string(p.Status) == sp.Status
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		return false
	}
}

func matchChannel(spec specification.Specification, c *entity.Channel) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return c.Id == sp.ID
	case specification.BySlug:
		return c.Slug == sp.Slug
	case specification.ActiveChannels:
		return c.IsActive
	case specification.OrderBy, specification.Pagination:
		return true
	default:
		return false
	}
}

func applyOrdering[T any](items []T, specs []specification.Specification, createdAt func(T) int64) []T {
	for _, spec := range specs {
		if ob, ok := spec.(specification.OrderBy); ok && ob.Field == "created_at" {
			sort.SliceStable(items, func(i, j int) bool {
				if ob.Desc {
					return createdAt(items[i]) > createdAt(items[j])
				}
				return createdAt(items[i]) < createdAt(items[j])
			})
		}
	}
	for _, spec := range specs {
		if pg, ok := spec.(specification.Pagination); ok {
			start := pg.Offset
			if start > len(items) {
				start = len(items)
			}
			end := start + pg.Limit
			if pg.Limit <= 0 || end > len(items) {
				end = len(items)
			}
			items = items[start:end]
		}
	}
	return items
}
