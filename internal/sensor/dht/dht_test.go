package dht

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pulsesFor encodes the given frame bytes as 40 timed pulses.
func pulsesFor(frame [5]byte) []pulse {
	pulses := make([]pulse, 0, 40)
	for _, b := range frame {
		for bit := 7; bit >= 0; bit-- {
			p := pulse{low: 50 * time.Microsecond, high: 26 * time.Microsecond}
			if b&(1<<uint(bit)) != 0 {
				p.high = 70 * time.Microsecond
			}
			pulses = append(pulses, p)
		}
	}
	return pulses
}

func TestFramePulses(t *testing.T) {
	want := [5]byte{55, 0, 22, 0, 77}
	got, err := framePulses(pulsesFor(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFramePulsesShortFrame(t *testing.T) {
	_, err := framePulses(pulsesFor([5]byte{1, 2, 3, 4, 10})[:39])
	assert.ErrorContains(t, err, "short frame")
}

func TestFramePulsesLineTimeout(t *testing.T) {
	pulses := pulsesFor([5]byte{55, 0, 22, 0, 77})
	pulses[13].high = levelTimeout
	_, err := framePulses(pulses)
	assert.ErrorContains(t, err, "timeout at bit 13")
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name     string
		frame    [5]byte
		humidity float64
		temp     float64
		wantErr  string
	}{
		{name: "typical", frame: [5]byte{55, 0, 22, 0, 77}, humidity: 55, temp: 22},
		{name: "with decimals in checksum", frame: [5]byte{60, 3, 25, 7, 95}, humidity: 60, temp: 25},
		{name: "checksum mismatch", frame: [5]byte{55, 0, 22, 0, 78}, wantErr: "checksum mismatch"},
		{name: "humidity out of range", frame: [5]byte{101, 0, 22, 0, 123}, wantErr: "humidity out of range"},
		{name: "temperature out of range", frame: [5]byte{55, 0, 51, 0, 106}, wantErr: "temperature out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, c, err := decodeFrame(tt.frame)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.humidity, h)
			assert.Equal(t, tt.temp, c)
		})
	}
}
