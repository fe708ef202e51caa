// Package sim provides a stand-in sensor for development on machines
// without a DHT11 attached.
package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/alakhotiya/dhtmon/internal/model"
)

const (
	defaultHumidity    = 55.0
	defaultTemperature = 22.0

	humidityStep    = 1.5
	temperatureStep = 0.4
)

// Generator produces a slow random walk around ambient indoor values.
// FailureRate (0..1) makes the given fraction of reads come back as NaN
// pairs, the same shape a wiring or checksum failure has on real hardware.
type Generator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	sensorID    string
	failureRate float64
	humidity    float64
	temperature float64
}

func NewGenerator(sensorID string, seed int64, failureRate float64) *Generator {
	return &Generator{
		rng:         rand.New(rand.NewSource(seed)),
		sensorID:    sensorID,
		failureRate: clamp(failureRate, 0, 1),
		humidity:    defaultHumidity,
		temperature: defaultTemperature,
	}
}

func (g *Generator) Describe() string {
	return "simulated dht11"
}

func (g *Generator) Read(_ context.Context) (model.Reading, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	if g.rng.Float64() < g.failureRate {
		return model.Reading{
			SensorID:    g.sensorID,
			Humidity:    math.NaN(),
			Temperature: math.NaN(),
			Timestamp:   now,
		}, nil
	}

	g.humidity = clamp(g.humidity+(g.rng.Float64()*2-1)*humidityStep, 20, 90)
	g.temperature = clamp(g.temperature+(g.rng.Float64()*2-1)*temperatureStep, 0, 50)

	return model.Reading{
		SensorID:    g.sensorID,
		Humidity:    g.humidity,
		Temperature: g.temperature,
		Timestamp:   now,
	}, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
