package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/alakhotiya/dhtmon/internal/model"
)

// Serial line format. The watcher renders the identical lines from the
// MQTT feed, so a remote console is indistinguishable from a local one.
const (
	Banner       = "DHT11 OK"
	ReadErrLine  = "Humidity or temperature read error"
	readingLineF = "Humidity: %.2f %%\tTemperature: %.2f *C\n"
)

// Console writes the fixed-format text stream to w, typically stdout or
// a serial device file.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Start(context.Context) error {
	return c.println(Banner)
}

func (c *Console) Report(_ context.Context, r model.Reading) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, readingLineF, r.Humidity, r.Temperature); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}

func (c *Console) ReadError(context.Context) error {
	return c.println(ReadErrLine)
}

func (c *Console) println(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.w, line); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}
