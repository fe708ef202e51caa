package watch_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alakhotiya/dhtmon/internal/model"
	"github.com/alakhotiya/dhtmon/internal/report"
	"github.com/alakhotiya/dhtmon/internal/watch"
	"github.com/alakhotiya/dhtmon/pkg/dedup"
)

type fakeMessage struct {
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return "sensor/reading/dht11" }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func envelopeMsg(t *testing.T, id string, h, c float64) *fakeMessage {
	t.Helper()
	payload, err := json.Marshal(model.Envelope{
		ID: id,
		Reading: model.Reading{
			SensorID:    "dht11",
			Humidity:    h,
			Temperature: c,
			Timestamp:   time.Now().UTC(),
		},
	})
	require.NoError(t, err)
	return &fakeMessage{payload: payload}
}

func newService(buf *bytes.Buffer) *watch.Service {
	return watch.New(nil, report.NewConsole(buf), dedup.New(time.Minute, 100))
}

func TestHandleRendersReading(t *testing.T) {
	var buf bytes.Buffer
	s := newService(&buf)

	require.NoError(t, s.Handle("", envelopeMsg(t, "id-1", 55.0, 22.0)))
	assert.Equal(t, "Humidity: 55.00 %\tTemperature: 22.00 *C\n", buf.String())
}

func TestHandleDropsRedelivery(t *testing.T) {
	var buf bytes.Buffer
	s := newService(&buf)

	require.NoError(t, s.Handle("", envelopeMsg(t, "id-1", 55.0, 22.0)))
	require.NoError(t, s.Handle("", envelopeMsg(t, "id-1", 55.0, 22.0)))
	require.NoError(t, s.Handle("", envelopeMsg(t, "id-2", 56.0, 22.0)))

	want := "Humidity: 55.00 %\tTemperature: 22.00 *C\n" +
		"Humidity: 56.00 %\tTemperature: 22.00 *C\n"
	assert.Equal(t, want, buf.String())
}

func TestHandleRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	s := newService(&buf)

	err := s.Handle("", &fakeMessage{payload: []byte("not json")})
	assert.ErrorContains(t, err, "invalid reading envelope")
	assert.Empty(t, buf.String())
}
