// Package testutil renders synthetic Data Matrix symbols for tests.
//
// The symbols carry a real finder pattern (solid left and bottom edges,
// alternating top and right timing edges) around a pseudo random interior,
// which is all the detector looks at. They are not decodable.
package testutil

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ericlevine/dmdetect/bitutil"
)

// Symbol returns a cols x rows module pattern indexed [row][col], true
// for dark modules. The interior is derived from seed with a linear
// congruential generator so that patterns are stable across runs.
func Symbol(cols, rows int, seed uint32) [][]bool {
	m := make([][]bool, rows)
	x := seed
	for r := range m {
		m[r] = make([]bool, cols)
		for c := range m[r] {
			x = (x*1103515245 + 12345) & 0x7fffffff
			m[r][c] = (x>>16)&1 == 1
		}
	}
	for r := 0; r < rows; r++ {
		m[r][0] = true
		m[r][cols-1] = (rows-1-r)%2 == 0
	}
	for c := 0; c < cols; c++ {
		m[rows-1][c] = true
		m[0][c] = c%2 == 0
	}
	return m
}

// Render describes how a module pattern is drawn into an image.
type Render struct {
	Width, Height int
	// Scale is the module size in pixels.
	Scale int
	// Angle rotates the symbol around its center, in degrees. Positive
	// angles turn clockwise on screen.
	Angle float64
}

// Draw renders the pattern centered in a Width x Height binary image. A
// pixel is dark when its center falls in a dark module.
func (r Render) Draw(modules [][]bool) *bitutil.BitMatrix {
	rows, cols := len(modules), len(modules[0])
	img := bitutil.NewBitMatrixWithSize(r.Width, r.Height)
	scale := float64(r.Scale)
	halfW, halfH := float64(cols)*scale/2, float64(rows)*scale/2
	ox, oy := r.Offset(cols, rows)
	cx, cy := float64(ox)+halfW, float64(oy)+halfH
	sin, cos := math.Sincos(r.Angle * math.Pi / 180)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px, py := float64(x)+0.5-cx, float64(y)+0.5-cy
			u := cos*px + sin*py + halfW
			v := -sin*px + cos*py + halfH
			c, row := int(math.Floor(u/scale)), int(math.Floor(v/scale))
			if c >= 0 && c < cols && row >= 0 && row < rows && modules[row][c] {
				img.Set(x, y)
			}
		}
	}
	return img
}

// Offset returns the top-left pixel of an unrotated cols x rows symbol.
func (r Render) Offset(cols, rows int) (x, y int) {
	return (r.Width - cols*r.Scale) / 2, (r.Height - rows*r.Scale) / 2
}

// ToGray converts a matrix to an image with black set bits on white.
func ToGray(bm *bitutil.BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, bm.Width(), bm.Height()))
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			if bm.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// WriteImage saves the matrix under t's temporary directory and returns
// the path. The format follows the extension of name.
func WriteImage(t testing.TB, bm *bitutil.BitMatrix, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := imaging.Save(ToGray(bm), path); err != nil {
		t.Fatalf("saving %s: %v", path, err)
	}
	return path
}
