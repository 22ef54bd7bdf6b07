package contract

import (
	"context"

	"channelpass-be/internal/entity"
	"channelpass-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChannelRepository interface {
	Create(ctx context.Context, channel *entity.Channel) error
	Update(ctx context.Context, channel *entity.Channel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Channel, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Channel, error)
}
