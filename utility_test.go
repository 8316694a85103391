package tilerlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert4326To3857(t *testing.T) {
	x, y := Convert4326To3857(180, 0)
	assert.InDelta(t, WEB_MERCATOR_BOUND, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x, _ = Convert4326To3857(-180, 0)
	assert.InDelta(t, -WEB_MERCATOR_BOUND, x, 1e-6)
}

func TestMercatorRoundTrip(t *testing.T) {
	lon, lat := 115.075725846, 31.360788281
	x, y := Convert4326To3857(lon, lat)
	lon2, lat2 := Convert3857To4326(x, y)
	assert.InDelta(t, lon, lon2, 1e-9)
	assert.InDelta(t, lat, lat2, 1e-9)
}

func TestSpanToWkt(t *testing.T) {
	wkt := SpanToWkt([4]float64{113.5, 115.0, 29.9, 31.3})
	assert.Equal(t,
		"POLYGON((113.500000 29.900000, 113.500000 31.300000, 115.000000 31.300000, 115.000000 29.900000, 113.500000 29.900000))",
		wkt)
}
