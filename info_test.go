package tilerlib

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInfoJSON = `{
	"bands": [{"band": 1}, {"band": 2}, {"band": 3}],
	"cornerCoordinates": {
		"upperLeft": [639600.0, 4600020.0],
		"lowerRight": [641920.0, 4597700.0]
	}
}`

func writeTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("tif"), os.ModePerm))
	return path
}

func TestGetImageInfo(t *testing.T) {
	runner := &fakeRunner{info: testInfoJSON}
	g := NewTilerToolbox(WithRunner(runner))

	info, err := g.GetImageInfo(context.Background(), "/data/scene.TIF")
	require.NoError(t, err)
	assert.Len(t, info.Bands, 3)
	assert.Equal(t, []float64{639600.0, 4600020.0}, info.CornerCoordinates.UpperLeft)
	assert.Equal(t, []float64{641920.0, 4597700.0}, info.CornerCoordinates.LowerRight)

	calls := runner.callsOf(BIN_GDALINFO)
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-json", "/data/scene.TIF"}, calls[0])
}

func TestValidateBandsOk(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "scene.TIF")
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: testInfoJSON}))

	assert.NoError(t, g.ValidateBands(context.Background(), path, NoDataSpec{0, 0, 0}))
}

func TestValidateBandsMismatch(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "scene.TIF")
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: testInfoJSON}))

	err := g.ValidateBands(context.Background(), path, NoDataSpec{0})
	assert.True(t, errors.Is(err, ErrInvalidBandCount))
}

func TestValidateBandsMissingFile(t *testing.T) {
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: testInfoJSON}))

	err := g.ValidateBands(context.Background(), filepath.Join(t.TempDir(), "nope.TIF"), NoDataSpec{0})
	assert.True(t, errors.Is(err, ErrImageNotFound))
}

func TestValidateBandsUnreadable(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "scene.TIF")
	g := NewTilerToolbox(WithRunner(&fakeRunner{outErr: errors.New("boom")}))

	err := g.ValidateBands(context.Background(), path, NoDataSpec{0})
	assert.True(t, errors.Is(err, ErrRasterOpen))
}

func TestValidateBandsBadJSON(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "scene.TIF")
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: "not json"}))

	err := g.ValidateBands(context.Background(), path, NoDataSpec{0})
	assert.True(t, errors.Is(err, ErrRasterOpen))
}
