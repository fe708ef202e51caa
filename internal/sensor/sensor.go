package sensor

import (
	"context"

	"github.com/alakhotiya/dhtmon/internal/model"
)

// Sensor is a single humidity/temperature source. Read blocks until a
// reading is available or the context is cancelled. A failed read may
// surface either as an error or as a Reading with NaN values; callers
// must treat both the same way.
type Sensor interface {
	Read(ctx context.Context) (model.Reading, error)
	Describe() string
}
