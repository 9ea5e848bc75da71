// Package driver provides pixel.Driver implementations: the SPI NRZ driver
// for the physical strip, a null sink, and an in-memory recorder for tests
// and development.
package driver

import (
	"time"

	"github.com/marcwingduck/solar-map/internal/metrics"
	"github.com/marcwingduck/solar-map/internal/pixel"
)

// Instrumented wraps a driver and records a write counter and latency
// histogram for every frame pushed to the strip.
type Instrumented struct {
	next pixel.Driver
}

// Instrument wraps d with Prometheus instrumentation.
func Instrument(d pixel.Driver) *Instrumented {
	return &Instrumented{next: d}
}

func (d *Instrumented) Write(frame []byte) error {
	start := time.Now()
	err := d.next.Write(frame)
	metrics.RecordFrameWrite(time.Since(start), err == nil)
	return err
}

func (d *Instrumented) Close() error {
	return d.next.Close()
}
