package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/marcwingduck/solar-map/internal/ephemeris"
	"github.com/marcwingduck/solar-map/internal/frame"
	"github.com/marcwingduck/solar-map/internal/geom"
)

// diag computes the solar position and the mapped LED index for a location
// and time without touching any hardware.
func main() {
	lat := flag.Float64("lat", 48.860536, "observer latitude in degrees")
	lon := flag.Float64("lon", 2.332237, "observer longitude in degrees")
	at := flag.String("time", "", "UTC time as RFC3339 (default: now)")
	flag.Parse()

	t := time.Now().UTC()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Println("ERROR parsing -time:", err)
			os.Exit(1)
		}
		t = parsed.UTC()
	}

	layout, err := frame.NewLayout(frame.Config{
		Cols:        54,
		Rows:        36,
		WidthCm:     89.5,
		HeightCm:    60.5,
		LEDsPerCm:   0.6,
		IndexOffset: -1,
	})
	if err != nil {
		fmt.Println("ERROR building frame layout:", err)
		os.Exit(1)
	}

	pos := ephemeris.SolarPosition(*lat, *lon, t)
	azDeg := pos.Azimuth * 180 / math.Pi
	elDeg := pos.Elevation * 180 / math.Pi

	fmt.Printf("Time:      %s\n", t.Format(time.RFC3339))
	fmt.Printf("Location:  %.6f°, %.6f°\n", *lat, *lon)
	fmt.Printf("Azimuth:   %8.3f° (north-clockwise)\n", azDeg)
	fmt.Printf("Elevation: %8.3f°\n", elDeg)

	marker := "moon"
	if pos.Elevation > 0 {
		marker = "sun"
	}
	fmt.Printf("Marker:    %s\n", marker)

	idx, ok := layout.AngleToIndex(geom.NorthClockwiseToMath(pos.Azimuth))
	if !ok {
		fmt.Println("LED index: none (no frame intersection)")
		os.Exit(1)
	}
	fmt.Printf("LED index: %d of %d\n", idx, layout.N)
}
