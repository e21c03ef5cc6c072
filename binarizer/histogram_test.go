package binarizer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dmdetect "github.com/ericlevine/dmdetect"
)

func TestGlobalHistogramThresholdsDarkSquare(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			c := color.RGBA{R: 230, G: 230, B: 230, A: 255}
			if x >= 15 && x < 35 && y >= 15 && y < 35 {
				c = color.RGBA{R: 20, G: 30, B: 25, A: 255}
			}
			img.Set(x, y, c)
		}
	}

	bits, err := GlobalHistogram(LuminanceFromImage(img))
	require.NoError(t, err)
	assert.Equal(t, 50, bits.Width())
	assert.Equal(t, 50, bits.Height())
	assert.True(t, bits.Get(20, 20))
	assert.True(t, bits.Get(34, 34))
	assert.False(t, bits.Get(5, 5))
	assert.False(t, bits.Get(35, 20))
}

func TestLuminanceFromImageTransparentIsWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{A: 0})
	img.Set(1, 0, color.NRGBA{A: 255})

	lum := LuminanceFromImage(img)
	assert.Equal(t, byte(0xff), lum.Pix[0])
	assert.Equal(t, byte(0), lum.Pix[1])
}

func TestGlobalHistogramFlatImage(t *testing.T) {
	lum := &Luminance{Pix: make([]byte, 100), Width: 10, Height: 10}
	_, err := GlobalHistogram(lum)
	assert.True(t, errors.Is(err, dmdetect.ErrNotFound))
}
