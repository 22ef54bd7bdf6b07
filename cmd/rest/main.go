package main

import (
	"context"
	"log"

	"channelpass-be/internal/bootstrap"
	"channelpass-be/internal/config"
	"channelpass-be/internal/server"
	"channelpass-be/internal/tracer"
	"channelpass-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background: mail consumer plus the lifecycle sweep and reminder
	// dispatcher on their tickers.
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	container.Scheduler.Every(cfg.Engine.SweepInterval, "lifecycle-sweep", func(ctx context.Context) {
		if _, err := container.LifecycleService.RunSweep(ctx); err != nil {
			log.Printf("Background Sweep Error: %v", err)
		}
	})
	container.Scheduler.Every(cfg.Engine.ReminderInterval, "reminder-dispatch", func(ctx context.Context) {
		if _, err := container.ReminderService.RunDispatch(ctx); err != nil {
			log.Printf("Background Reminder Error: %v", err)
		}
	})
	defer container.Scheduler.Stop()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
