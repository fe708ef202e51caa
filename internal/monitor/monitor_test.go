package monitor_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alakhotiya/dhtmon/internal/model"
	"github.com/alakhotiya/dhtmon/internal/monitor"
	"github.com/alakhotiya/dhtmon/internal/report"
)

// scriptedSensor replays a fixed sequence of readings, then cancels the
// loop's context.
type scriptedSensor struct {
	mu     sync.Mutex
	script []model.Reading
	idx    int
	cancel context.CancelFunc
}

func (s *scriptedSensor) Describe() string { return "scripted" }

func (s *scriptedSensor) Read(ctx context.Context) (model.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx >= len(s.script) {
		s.cancel()
		return model.Reading{}, ctx.Err()
	}
	r := s.script[s.idx]
	s.idx++
	return r, nil
}

// brokenSensor fails every read with an error.
type brokenSensor struct {
	mu    sync.Mutex
	reads int
}

func (s *brokenSensor) Describe() string { return "broken" }

func (s *brokenSensor) Read(context.Context) (model.Reading, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return model.Reading{}, errors.New("no response from sensor")
}

func pair(h, t float64) model.Reading {
	return model.Reading{SensorID: "dht11", Humidity: h, Temperature: t, Timestamp: time.Now().UTC()}
}

func TestRunEmitsSerialStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &scriptedSensor{
		script: []model.Reading{
			pair(55.0, 22.0),
			pair(math.NaN(), 22.0),
			pair(55.0, math.NaN()),
			pair(41.0, 19.0),
		},
		cancel: cancel,
	}
	var buf bytes.Buffer
	m := monitor.New(s, report.NewConsole(&buf), time.Millisecond)

	m.Run(ctx)

	want := "DHT11 OK\n" +
		"Humidity: 55.00 %\tTemperature: 22.00 *C\n" +
		"Humidity or temperature read error\n" +
		"Humidity or temperature read error\n" +
		"Humidity: 41.00 %\tTemperature: 19.00 *C\n"
	assert.Equal(t, want, buf.String())
}

func TestRunSurvivesReadErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := &brokenSensor{}
	var buf bytes.Buffer
	m := monitor.New(s, report.NewConsole(&buf), time.Millisecond)

	m.Run(ctx)

	s.mu.Lock()
	reads := s.reads
	s.mu.Unlock()
	assert.Greater(t, reads, 3, "loop should keep retrying after failures")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "DHT11 OK" {
			continue
		}
		assert.Equal(t, "Humidity or temperature read error", line)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &brokenSensor{}
	m := monitor.New(s, report.NewConsole(&bytes.Buffer{}), time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on context cancellation")
	}
}

func TestLastGoodAge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &scriptedSensor{script: []model.Reading{pair(55, 22)}, cancel: cancel}
	m := monitor.New(s, report.NewConsole(&bytes.Buffer{}), time.Millisecond)

	assert.Greater(t, m.LastGoodAge(), time.Hour, "no reading yet")

	m.Run(ctx)
	assert.Less(t, m.LastGoodAge(), time.Minute)
}
