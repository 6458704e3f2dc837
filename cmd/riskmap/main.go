// Command riskmap generates an outbreak probability map offline from known
// weather conditions and writes the contours as GeoJSON. It uses the same
// domain package as the server, so the output matches the API exactly.
//
// Usage:
//
//	go run ./cmd/riskmap \
//	  -lat 35.6895 -lng 139.6917 \
//	  -temp 25 -rh 85 \
//	  -o riskmap.geojson
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/turf-risk/internal/domain"
	"github.com/couchcryptid/turf-risk/internal/geojson"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	lat := flag.Float64("lat", 0, "center latitude")
	lng := flag.Float64("lng", 0, "center longitude")
	temp := flag.Float64("temp", 0, "mean air temperature in Celsius")
	rh := flag.Float64("rh", 0, "mean relative humidity percent")
	areaKm := flag.Float64("area-km", 2, "square map side length in km")
	interval := flag.Float64("interval", 10, "contour level spacing in probability points")
	model := flag.String("model", string(domain.ModelFieldCalibrated), "coefficient set: field or published")
	out := flag.String("o", "", "output path (default stdout)")
	flag.Parse()

	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("-lat must be in [-90, 90]")
	}
	if *lng < -180 || *lng > 180 {
		return fmt.Errorf("-lng must be in [-180, 180]")
	}
	if *areaKm <= 0 {
		return fmt.Errorf("-area-km must be positive")
	}
	if *interval <= 0 || *interval > 100 {
		return fmt.Errorf("-interval must be in (0, 100]")
	}
	if *rh < 0 || *rh > 100 {
		return fmt.Errorf("-rh must be in [0, 100]")
	}

	params, err := domain.ParamsFor(domain.ModelVariant(*model))
	if err != nil {
		return err
	}

	grid := domain.GenerateField(domain.GeoPoint{Lat: *lat, Lng: *lng}, *areaKm, *temp, *rh, params)
	contours := domain.ExtractContours(grid, *interval)
	fc := geojson.FromContours(contours)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}

	if *out != "" {
		var lines int
		for _, c := range contours {
			lines += len(c.Lines)
		}
		log.Printf("wrote %s: %d contour levels, %d polylines", *out, len(contours), lines)
	}
	return nil
}
