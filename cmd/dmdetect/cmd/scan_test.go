package cmd

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/binarizer"
	"github.com/ericlevine/dmdetect/bitutil"
	"github.com/ericlevine/dmdetect/datamatrix/detector"
	"github.com/ericlevine/dmdetect/internal/testutil"
)

// shadedSymbol draws a 12x12 symbol at 8 pixels per module on a 200x200
// image lit from the left. The background fades from 255 to 56 and dark
// modules keep a third of the local background, so the left edge of the
// symbol is darker than the background on the right.
func shadedSymbol() ([][]bool, *image.Gray) {
	modules := testutil.Symbol(12, 12, 1)
	bits := testutil.Render{Width: 200, Height: 200, Scale: 8}.Draw(modules)
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			v := 255 - x
			if bits.Get(x, y) {
				v /= 3
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return modules, img
}

func TestScanImageFallsBackToHybrid(t *testing.T) {
	modules, img := shadedSymbol()

	global, err := binarizer.GlobalHistogram(binarizer.LuminanceFromImage(img))
	require.NoError(t, err)
	_, err = detector.Detect(global, nil)
	require.ErrorIs(t, err, dmdetect.ErrNotFound)

	result, err := scanImage(img, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Bits.Width())
	assert.Equal(t, 12, result.Bits.Height())
	assert.True(t, result.Bits.Equals(bitutil.ParseBoolMatrix(modules)),
		"sampled grid:\n%s", result.Bits.StringWithChars("X", "."))
	assert.Equal(t, 52.0, result.Points[0].X)
	assert.Equal(t, 52.0, result.Points[0].Y)
	assert.Equal(t, 147.0, result.Points[2].X)
	assert.Equal(t, 147.0, result.Points[2].Y)
}

func TestScanImageNotFound(t *testing.T) {
	img := testutil.ToGray(bitutil.NewBitMatrix(100))
	_, err := scanImage(img, nil, nil)
	assert.ErrorIs(t, err, dmdetect.ErrNotFound)
}

func TestScanImageStopsOnConfigError(t *testing.T) {
	_, img := shadedSymbol()
	cfg := detector.DefaultConfig()
	cfg.InitSize = 0
	_, err := scanImage(img, &cfg, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, dmdetect.ErrNotFound)
	assert.Contains(t, err.Error(), "global histogram")
}
