package model

import (
	"math"
	"time"
)

// Reading is a single humidity/temperature pair taken from the sensor.
// One is produced per polling iteration and discarded after reporting.
type Reading struct {
	SensorID    string    `json:"sensor_id"`
	Humidity    float64   `json:"humidity"`    // percent, 0..100
	Temperature float64   `json:"temperature"` // Celsius
	Timestamp   time.Time `json:"timestamp"`
}

// Valid reports whether both values are defined. A NaN in either one
// means the sensor read failed (wiring, timing or checksum — the DHT11
// protocol does not let us tell them apart).
func (r Reading) Valid() bool {
	return !math.IsNaN(r.Humidity) && !math.IsNaN(r.Temperature)
}
