package testutil

import (
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolFinderPattern(t *testing.T) {
	m := Symbol(18, 8, 7)
	require.Len(t, m, 8)
	for r := range m {
		require.Len(t, m[r], 18)
		assert.True(t, m[r][0], "left edge row %d", r)
		assert.Equal(t, (7-r)%2 == 0, m[r][17], "right edge row %d", r)
	}
	for c := 0; c < 18; c++ {
		assert.True(t, m[7][c], "bottom edge col %d", c)
		assert.Equal(t, c%2 == 0, m[0][c], "top edge col %d", c)
	}
}

func TestSymbolDeterministic(t *testing.T) {
	assert.Equal(t, Symbol(12, 12, 3), Symbol(12, 12, 3))
	assert.NotEqual(t, Symbol(12, 12, 3), Symbol(12, 12, 4))
}

func TestRenderUpright(t *testing.T) {
	m := Symbol(10, 10, 1)
	r := Render{Width: 100, Height: 100, Scale: 6}
	bm := r.Draw(m)
	ox, oy := r.Offset(10, 10)
	assert.Equal(t, 20, ox)
	assert.Equal(t, 20, oy)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			want := false
			if x >= ox && x < ox+60 && y >= oy && y < oy+60 {
				want = m[(y-oy)/6][(x-ox)/6]
			}
			if bm.Get(x, y) != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, bm.Get(x, y), want)
			}
		}
	}
}

func TestWriteImageRoundTrip(t *testing.T) {
	bm := Render{Width: 40, Height: 30, Scale: 2}.Draw(Symbol(10, 10, 1))
	path := WriteImage(t, bm, "symbol.png")

	img, err := imaging.Open(path)
	require.NoError(t, err)
	gray := imaging.Grayscale(img)
	require.Equal(t, 40, gray.Bounds().Dx())
	require.Equal(t, 30, gray.Bounds().Dy())
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			dark := gray.Pix[y*gray.Stride+x*4] < 128
			assert.Equal(t, bm.Get(x, y), dark, "pixel (%d,%d)", x, y)
		}
	}
}
