package driver

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/marcwingduck/solar-map/internal/pixel"
)

// NRZ drives an SK6812-style strip over SPI using NRZ bit encoding. The
// caller must run host.Init() once before opening the port.
type NRZ struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	n    int
}

// NewNRZ opens the named SPI port (empty string selects the first available)
// and prepares it for n GRBW pixels.
func NewNRZ(portName string, n int) (*NRZ, error) {
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("opening SPI port %q: %w", portName, err)
	}

	d, err := newNRZ(port, n)
	if err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

// newNRZ wires an already-open port. Each 800 kHz strip bit is expanded into
// SPI symbols, so nrzled requires the port to run at exactly the 2.5 MHz
// symbol rate.
func newNRZ(port spi.PortCloser, n int) (*NRZ, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: n,
		Channels:  pixel.Channels,
		Freq:      2500 * physic.KiloHertz,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing NRZ LED device: %w", err)
	}

	return &NRZ{port: port, dev: dev, n: n}, nil
}

func (d *NRZ) Write(frame []byte) error {
	if len(frame) != d.n*pixel.Channels {
		return fmt.Errorf("frame size %d, want %d", len(frame), d.n*pixel.Channels)
	}
	if _, err := d.dev.Write(frame); err != nil {
		return fmt.Errorf("writing frame to strip: %w", err)
	}
	return nil
}

// Close darkens the strip and releases the SPI port.
func (d *NRZ) Close() error {
	if err := d.dev.Halt(); err != nil {
		d.port.Close()
		return fmt.Errorf("halting strip: %w", err)
	}
	return d.port.Close()
}
