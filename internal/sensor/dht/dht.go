// Package dht drives a DHT11 sensor over its single-wire protocol on a
// GPIO pin. The exchange is: hold the line low for at least 18 ms, release
// it, wait for the sensor's ack, then time 40 high pulses. Each bit is a
// ~50 us low followed by a high whose width encodes the value (~26 us for
// 0, ~70 us for 1). Five bytes follow: humidity int/dec, temperature
// int/dec, checksum.
package dht

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"

	"github.com/alakhotiya/dhtmon/internal/model"
)

const (
	// minReadInterval is the shortest spacing between raw reads the
	// DHT11 tolerates. Reads requested sooner block until it elapses.
	minReadInterval = 2 * time.Second

	startSignalLow = 18 * time.Millisecond

	// maxLevelCycles bounds the busy-wait for a line transition; hitting
	// it means the sensor stopped talking mid-frame.
	maxLevelCycles = 16000

	levelTimeout = time.Minute
)

// Driver reads a DHT11 wired to a single GPIO pin.
type Driver struct {
	mu       sync.Mutex
	pin      gpio.PinIO
	sensorID string
	lastRead time.Time
}

// New prepares the pin and returns a driver. The line is parked high so
// the sensor is ready for the first start signal.
func New(pin gpio.PinIO, sensorID string) (*Driver, error) {
	d := &Driver{
		pin:      pin,
		sensorID: sensorID,
		lastRead: time.Now().Add(-minReadInterval),
	}
	if err := pin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("park pin high: %w", err)
	}
	return d, nil
}

func (d *Driver) Describe() string {
	return fmt.Sprintf("dht11 on %s", d.pin.Name())
}

// Read performs one sensor exchange. It waits out the part's minimum
// read spacing first, so back-to-back calls are paced automatically.
func (d *Driver) Read(ctx context.Context) (model.Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if wait := minReadInterval - time.Since(d.lastRead); wait > 0 {
		select {
		case <-ctx.Done():
			return model.Reading{}, ctx.Err()
		case <-time.After(wait):
		}
	}
	d.lastRead = time.Now()

	frame, err := d.readFrame()
	if err != nil {
		return model.Reading{}, err
	}
	humidity, temperature, err := decodeFrame(frame)
	if err != nil {
		return model.Reading{}, err
	}
	return model.Reading{
		SensorID:    d.sensorID,
		Humidity:    humidity,
		Temperature: temperature,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// waitLevel busy-waits until the line reaches level, returning how long
// it took. The bit widths are tens of microseconds, far below what a
// sleeping wait could resolve.
func (d *Driver) waitLevel(level gpio.Level) time.Duration {
	start := time.Now()
	for i := 0; i < maxLevelCycles; i++ {
		if d.pin.Read() == level {
			return time.Since(start)
		}
	}
	return levelTimeout
}

// readFrame runs the start signal and captures the 40 data bits as 5 bytes.
func (d *Driver) readFrame() ([5]byte, error) {
	var frame [5]byte

	// GC pauses during the capture window corrupt the pulse timing.
	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	if err := d.pin.Out(gpio.Low); err != nil {
		return frame, fmt.Errorf("start signal: %w", err)
	}
	time.Sleep(startSignalLow)
	if err := d.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return frame, fmt.Errorf("release line: %w", err)
	}
	defer func() {
		// Park the line high for the next exchange.
		_ = d.pin.Out(gpio.High)
	}()

	// Sensor ack: low ~80 us, high ~80 us, then the first bit's low.
	d.waitLevel(gpio.Low)
	d.waitLevel(gpio.High)
	d.waitLevel(gpio.Low)

	var pulses [40]pulse
	for i := range pulses {
		pulses[i].low = d.waitLevel(gpio.High)
		pulses[i].high = d.waitLevel(gpio.Low)
	}

	return framePulses(pulses[:])
}

type pulse struct {
	low, high time.Duration
}

// framePulses turns timed pulses into the 5-byte frame. A bit is 1 when
// its high phase outlasts the fixed ~50 us low that precedes it.
func framePulses(pulses []pulse) ([5]byte, error) {
	var frame [5]byte
	if len(pulses) != 40 {
		return frame, fmt.Errorf("short frame: %d bits", len(pulses))
	}
	for i, p := range pulses {
		if p.low >= levelTimeout || p.high >= levelTimeout {
			return frame, fmt.Errorf("line timeout at bit %d", i)
		}
		frame[i/8] <<= 1
		if p.high > p.low {
			frame[i/8] |= 1
		}
	}
	return frame, nil
}

// decodeFrame validates the checksum and value ranges, and converts to
// humidity percent and temperature Celsius. The DHT11 reports integral
// values; the decimal bytes are kept for the checksum only.
func decodeFrame(frame [5]byte) (humidity, temperature float64, err error) {
	sum := byte(int(frame[0]) + int(frame[1]) + int(frame[2]) + int(frame[3]))
	if sum != frame[4] {
		return 0, 0, fmt.Errorf("checksum mismatch: got %#x want %#x", frame[4], sum)
	}
	h, t := int(frame[0]), int(frame[2])
	if h > 100 {
		return 0, 0, fmt.Errorf("humidity out of range: %d", h)
	}
	if t > 50 {
		return 0, 0, fmt.Errorf("temperature out of range: %d", t)
	}
	return float64(h), float64(t), nil
}
