package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/alakhotiya/dhtmon/internal/model"
	"github.com/alakhotiya/dhtmon/pkg/mqtt"
)

// MQTT publishes each good reading as a JSON envelope. Failed reads are
// not put on the wire; the consumer sees them only as a gap.
type MQTT struct {
	publisher mqtt.IPublisher
}

func NewMQTT(publisher mqtt.IPublisher) *MQTT {
	return &MQTT{publisher: publisher}
}

func (m *MQTT) Start(context.Context) error { return nil }

func (m *MQTT) Report(_ context.Context, r model.Reading) error {
	env := model.Envelope{ID: uuid.NewString(), Reading: r}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	return m.publisher.Publish(payload)
}

func (m *MQTT) ReadError(context.Context) error { return nil }
