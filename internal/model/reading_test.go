package model_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alakhotiya/dhtmon/internal/model"
)

func TestReadingValid(t *testing.T) {
	tests := []struct {
		name    string
		reading model.Reading
		valid   bool
	}{
		{"both defined", model.Reading{Humidity: 55, Temperature: 22}, true},
		{"zero values are defined", model.Reading{}, true},
		{"humidity NaN", model.Reading{Humidity: math.NaN(), Temperature: 22}, false},
		{"temperature NaN", model.Reading{Humidity: 55, Temperature: math.NaN()}, false},
		{"both NaN", model.Reading{Humidity: math.NaN(), Temperature: math.NaN()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.reading.Valid())
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := model.Envelope{
		ID: "b3a6c7d8",
		Reading: model.Reading{
			SensorID:    "dht11",
			Humidity:    55,
			Temperature: 22,
			Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	payload, err := json.Marshal(env)
	require.NoError(t, err)

	var got model.Envelope
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, env, got)
}
