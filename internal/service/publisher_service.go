package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService pushes raw payloads onto the in-process pubsub topic the
// mail consumer listens on.
type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (ps *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.pubSub.Publish(ps.topicName, msg)
}
