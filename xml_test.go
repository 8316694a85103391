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

const goldenXML = `<GDAL_WMS>
            <Service name="TMS">
                <ServerUrl>http://host/scene.tms/${z}/${x}/${y}.png</ServerUrl>
                <SRS>EPSG:3857</SRS>
                <ImageFormat>image/png</ImageFormat>
            </Service>
            <DataWindow>
                <UpperLeftX>-20037508.34</UpperLeftX>
                <UpperLeftY>20037508.34</UpperLeftY>
                <LowerRightX>20037508.34</LowerRightX>
                <LowerRightY>-20037508.34</LowerRightY>
                <TileLevel>15</TileLevel>
                <TileCountX>1</TileCountX>
                <TileCountY>1</TileCountY>
                <YOrigin>bottom</YOrigin>
            </DataWindow>
            <TargetWindow>
            <UpperLeftX>639600.0</UpperLeftX>
            <UpperLeftY>4600020.0</UpperLeftY>
            <LowerRightX>641920.0</LowerRightX>
            <LowerRightY>4597700.0</LowerRightY>
        </TargetWindow>
            <Projection>EPSG:3857</Projection>
            <BlockSizeX>256</BlockSizeX>
            <BlockSizeY>256</BlockSizeY>
            <BandsCount>4</BandsCount>
            <ZeroBlockHttpCodes>204,303,400,404,500,501</ZeroBlockHttpCodes>
            <ZeroBlockOnServerException>true</ZeroBlockOnServerException>
            <Cache>
                <Path>./gdalwmscache/cache_scene.tms</Path>
            </Cache>
        </GDAL_WMS>`

func newXmlTestbed(t *testing.T) (*TilerToolbox, *Image, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeTestImage(t, dir, "scene.TIF")
	img, err := NewImage(path)
	require.NoError(t, err)
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: testInfoJSON}))
	return g, img, dir
}

func TestGenerateXmlGolden(t *testing.T) {
	g, img, dir := newXmlTestbed(t)

	name, err := g.GenerateXml(context.Background(), img.Path, img, "http://host", 15, dir, true)
	require.NoError(t, err)
	assert.Equal(t, "scene.xml", name)

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, goldenXML, string(content))
}

func TestGenerateXmlIdempotent(t *testing.T) {
	g, img, dir := newXmlTestbed(t)
	ctx := context.Background()

	_, err := g.GenerateXml(ctx, img.Path, img, "http://host", 15, dir, true)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "scene.xml"))
	require.NoError(t, err)

	_, err = g.GenerateXml(ctx, img.Path, img, "http://host", 15, dir, true)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "scene.xml"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateXmlBaseLinkNormalization(t *testing.T) {
	g, img, dir := newXmlTestbed(t)
	ctx := context.Background()

	for _, link := range []string{"http://host", "http://host/"} {
		_, err := g.GenerateXml(ctx, img.Path, img, link, 15, dir, true)
		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(dir, "scene.xml"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "<ServerUrl>http://host/scene.tms/${z}/${x}/${y}.png</ServerUrl>")
	}
}

func TestGenerateXmlTileLevel(t *testing.T) {
	g, img, dir := newXmlTestbed(t)

	_, err := g.GenerateXml(context.Background(), img.Path, img, "http://host", 11, dir, true)
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, "scene.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "<TileLevel>11</TileLevel>")
}

func TestGenerateXmlMissingCorners(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "scene.TIF")
	img, err := NewImage(path)
	require.NoError(t, err)
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: `{"bands":[{"band":1}]}`}))

	_, err = g.GenerateXml(context.Background(), img.Path, img, "http://host", 15, dir, true)
	assert.True(t, errors.Is(err, ErrCornerCoordinates))
}

func TestGenerateXmlUnparsableInfo(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "scene.TIF")
	img, err := NewImage(path)
	require.NoError(t, err)
	g := NewTilerToolbox(WithRunner(&fakeRunner{info: "not json at all"}))

	_, err = g.GenerateXml(context.Background(), img.Path, img, "http://host", 15, dir, true)
	assert.True(t, errors.Is(err, ErrCornerCoordinates))
}

func TestGenerateXmlInfoProcessFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "scene.TIF")
	img, err := NewImage(path)
	require.NoError(t, err)
	pe := &ProcessError{Tool: BIN_GDALINFO, ExitCode: 1}
	g := NewTilerToolbox(WithRunner(&fakeRunner{outErr: pe}))

	_, err = g.GenerateXml(context.Background(), img.Path, img, "http://host", 15, dir, true)
	assert.True(t, errors.Is(err, ErrProcessExecution))
	assert.False(t, errors.Is(err, ErrCornerCoordinates))
}

func TestFormatCorner(t *testing.T) {
	assert.Equal(t, "639600.0", formatCorner(639600))
	assert.Equal(t, "-20037508.34", formatCorner(-20037508.34))
	assert.Equal(t, "0.0", formatCorner(0))
}
