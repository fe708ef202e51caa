package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/alakhotiya/dhtmon/internal/report"
	"github.com/alakhotiya/dhtmon/internal/watch"
	"github.com/alakhotiya/dhtmon/pkg/dedup"
	"github.com/alakhotiya/dhtmon/pkg/mqtt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := watch.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqtt.Connect(ctx, &mqtt.Config{
		Host:     cfg.Broker.Host,
		Port:     cfg.Broker.Port,
		User:     cfg.Broker.User,
		Password: cfg.Broker.Password,
		ClientID: cfg.Broker.ClientID,
	})
	if err != nil {
		log.Fatalf("mqtt connect: %v", err)
	}

	consumer := mqtt.NewConsumer(client, cfg.Topic, 1, nil)
	deduper := dedup.New(time.Duration(cfg.DedupTTLMin)*time.Minute, cfg.DedupCap)
	svc := watch.New(consumer, report.NewConsole(os.Stdout), deduper)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		log.Println("watch: shutting down...")
		cancel()
	}()

	svc.Start(ctx)
}
