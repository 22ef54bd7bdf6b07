package service

import (
	"context"
	"encoding/json"

	"channelpass-be/internal/dto"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the payment-confirmed topic and mails each buyer
// their access code. Mail sits behind the pubsub so a slow SMTP server never
// stalls the webhook handler.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PaymentConfirmedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack malformed messages, retrying cannot fix them.
		msg.Ack()
		return
	}

	err := cs.emailService.SendAccessCode(payload.Contact, payload.ChannelName, payload.AccessCode, payload.CodeExpiresAt)
	if err != nil {
		cs.logger.Error("Consumer", "Failed to send access code mail", map[string]interface{}{
			"payment_id": payload.PaymentId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "Access code mailed", map[string]interface{}{
		"payment_id":      payload.PaymentId,
		"subscription_id": payload.SubscriptionId,
	})
	msg.Ack()
}
