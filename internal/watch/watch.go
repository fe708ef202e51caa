// Package watch mirrors the monitor's console stream on another host by
// following the MQTT reading feed.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/alakhotiya/dhtmon/internal/model"
	"github.com/alakhotiya/dhtmon/internal/report"
	"github.com/alakhotiya/dhtmon/pkg/dedup"
	"github.com/alakhotiya/dhtmon/pkg/mqtt"
)

type Service struct {
	consumer mqtt.IConsumer
	reporter report.Reporter
	deduper  *dedup.Deduper
}

func New(consumer mqtt.IConsumer, reporter report.Reporter, deduper *dedup.Deduper) *Service {
	return &Service{consumer: consumer, reporter: reporter, deduper: deduper}
}

// Start subscribes and renders readings until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(s.Handle)
	if err := s.reporter.Start(ctx); err != nil {
		log.Printf("watch: reporter start: %v", err)
	}
	s.consumer.Consume(ctx)
}

// Handle decodes one envelope and emits its reading. QoS 1 redeliveries
// share the envelope ID and are dropped.
func (s *Service) Handle(_ string, msg paho.Message) error {
	var env model.Envelope
	if err := json.Unmarshal(msg.Payload(), &env); err != nil {
		return fmt.Errorf("invalid reading envelope: %w", err)
	}
	if s.deduper != nil && !s.deduper.FirstSeen(env.ID) {
		return nil
	}
	if !env.Reading.Valid() {
		return s.reporter.ReadError(context.Background())
	}
	return s.reporter.Report(context.Background(), env.Reading)
}
