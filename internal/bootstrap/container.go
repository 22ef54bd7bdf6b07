package bootstrap

import (
	"context"
	"log"

	"channelpass-be/internal/config"
	"channelpass-be/internal/controller"
	"channelpass-be/internal/handler"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/pkg/mailer"
	"channelpass-be/internal/repository/unitofwork"
	"channelpass-be/internal/scheduler"
	"channelpass-be/internal/service"
	"channelpass-be/internal/websocket"

	"channelpass-be/pkg/gateway"
	pktNats "channelpass-be/pkg/nats"
	"channelpass-be/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChannelController      controller.IChannelController
	CheckoutController     controller.ICheckoutController
	AccessController       controller.IAccessController
	SubscriptionController controller.ISubscriptionController
	AdminController        controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService  service.IConsumerService
	LifecycleService service.ILifecycleService
	ReminderService  service.IReminderService
	Scheduler        scheduler.Scheduler

	// WebSocket live feed
	LiveFeedHandler *handler.LiveFeedHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Payment gateway and channel directory
	paymentGateway := gateway.NewMidtransGateway(
		cfg.Gateway.ServerKey,
		cfg.Gateway.IrisKey,
		cfg.Gateway.IsProduction,
		cfg.App.ClientURL+"/checkout/finish",
	)
	channelDirectory := telegram.NewClient(cfg.Telegram.BotToken)

	// WebSocket hub for the admin live feed
	wsLogger := logger.NewIsolatedLogger("logs/livefeed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.MailTopicName)
	consumerService := service.NewConsumerService(pubSub, cfg.App.MailTopicName, emailService, sysLogger)

	channelService := service.NewChannelService(uowFactory, rdb, sysLogger)
	accessService := service.NewAccessService(uowFactory, channelDirectory, natsPub, sysLogger)
	checkoutService := service.NewCheckoutService(uowFactory, paymentGateway, accessService, publisherService, natsPub, sysLogger)
	lifecycleService := service.NewLifecycleService(uowFactory, paymentGateway, natsPub, sysLogger)
	subscriptionService := service.NewSubscriptionService(uowFactory, lifecycleService, sysLogger)
	reminderService := service.NewReminderService(uowFactory, emailService, sysLogger, cfg.App.ClientURL)
	adminService := service.NewAdminService(uowFactory, paymentGateway, lifecycleService, channelService, sysLogger)

	// 4. Live feed bridge
	liveFeedHandler := handler.NewLiveFeedHandler(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		if err := liveFeedHandler.Start(); err != nil {
			log.Printf("[WARN] Failed to start live feed consumer: %v", err)
		}
	}

	return &Container{
		ChannelController:      controller.NewChannelController(channelService),
		CheckoutController:     controller.NewCheckoutController(checkoutService),
		AccessController:       controller.NewAccessController(accessService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
		AdminController:        controller.NewAdminController(adminService),

		ConsumerService:  consumerService,
		LifecycleService: lifecycleService,
		ReminderService:  reminderService,
		Scheduler:        scheduler.NewTickerScheduler(sysLogger),

		LiveFeedHandler: liveFeedHandler,
		WebSocketHub:    wsHub,
	}
}
