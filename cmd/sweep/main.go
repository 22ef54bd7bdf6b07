// One-shot lifecycle sweep for cron-style deployments: runs renewals and
// expirations once and exits, instead of keeping a process alive on a ticker.
package main

import (
	"context"
	"log"

	"channelpass-be/internal/config"
	"channelpass-be/internal/pkg/logger"
	"channelpass-be/internal/repository/unitofwork"
	"channelpass-be/internal/service"
	"channelpass-be/pkg/database"
	"channelpass-be/pkg/gateway"
	pktNats "channelpass-be/pkg/nats"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" || cfg.Gateway.ServerKey == "" {
		log.Fatal("DB_CONNECTION_STRING and MIDTRANS_SERVER_KEY are required")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	paymentGateway := gateway.NewMidtransGateway(
		cfg.Gateway.ServerKey,
		cfg.Gateway.IrisKey,
		cfg.Gateway.IsProduction,
		cfg.App.ClientURL+"/checkout/finish",
	)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	lifecycle := service.NewLifecycleService(uowFactory, paymentGateway, natsPub, sysLogger)

	res, err := lifecycle.RunSweep(context.Background())
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	log.Printf("Sweep finished: renewed=%d expired=%d", res.Renewed, res.Expired)
}
