package driver

import (
	"testing"

	"periph.io/x/conn/v3/spi/spitest"

	"github.com/marcwingduck/solar-map/internal/pixel"
)

// The SPI symbol rate is the one value nrzled.NewSPI rejects outright, so a
// failing construction here means no real strip would ever light up.
func TestNRZInit(t *testing.T) {
	d, err := newNRZ(&spitest.Record{}, 8)
	if err != nil {
		t.Fatalf("newNRZ: %v", err)
	}

	if err := d.Write(make([]byte, 8*pixel.Channels)); err != nil {
		t.Errorf("Write: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNRZWriteRejectsWrongFrameSize(t *testing.T) {
	d, err := newNRZ(&spitest.Record{}, 8)
	if err != nil {
		t.Fatalf("newNRZ: %v", err)
	}

	for _, size := range []int{0, 3, 8, 8*pixel.Channels - 1, 8*pixel.Channels + 1} {
		if err := d.Write(make([]byte, size)); err == nil {
			t.Errorf("frame of %d bytes accepted, want %d", size, 8*pixel.Channels)
		}
	}
}
