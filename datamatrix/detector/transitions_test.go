package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
)

func newTestDetector(image *bitutil.BitMatrix, cfg Config) *detector {
	return &detector{image: image, cfg: &cfg, log: cfg.logger()}
}

// bar draws a one pixel high black line from x=10 to x=69 at y=10 with the
// given pixels left white.
func bar(holes ...int) *bitutil.BitMatrix {
	img := bitutil.NewBitMatrixWithSize(80, 20)
	img.SetRegion(10, 10, 60, 1)
	for _, x := range holes {
		img.Unset(x, 10)
	}
	return img
}

func TestTransitionNoiseFilter(t *testing.T) {
	from := dmdetect.ResultPoint{X: 10, Y: 10}
	to := dmdetect.ResultPoint{X: 69, Y: 10}
	tests := []struct {
		name       string
		holes      []int
		filtered   int
		unfiltered int
	}{
		{"solid", nil, 0, 0},
		{"single pixel flips", []int{30, 50}, 0, 4},
		{"wide gap", []int{30, 31, 32, 33}, 2, 2},
		{"pending at end", []int{67, 68}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ThreePointSampler = false
			cfg.CorrectCornerPosition = false
			cfg.Dimension = 10

			cfg.TransitionCorrection = true
			d := newTestDetector(bar(tt.holes...), cfg)
			assert.Equal(t, tt.filtered, d.transitionsBetween(from, to), "with noise filter")

			cfg.TransitionCorrection = false
			d = newTestDetector(bar(tt.holes...), cfg)
			assert.Equal(t, tt.unfiltered, d.transitionsBetween(from, to), "without noise filter")
		})
	}
}

func TestThreePointSamplerIgnoresIsolatedHole(t *testing.T) {
	// Three pixel thick bar with a hole in the middle row.
	img := bitutil.NewBitMatrixWithSize(80, 20)
	img.SetRegion(10, 9, 60, 3)
	img.Unset(30, 10)

	cfg := DefaultConfig()
	cfg.CorrectCornerPosition = false
	cfg.TransitionCorrection = false
	cfg.Dimension = 10
	from := dmdetect.ResultPoint{X: 10, Y: 10}
	to := dmdetect.ResultPoint{X: 69, Y: 10}

	d := newTestDetector(img, cfg)
	assert.Equal(t, 0, d.transitionsBetween(from, to))

	cfg.ThreePointSampler = false
	d = newTestDetector(img, cfg)
	assert.Equal(t, 2, d.transitionsBetween(from, to))
}

func TestTransitionsSymmetric(t *testing.T) {
	_, img := renderSymbol(10, 10, 6, 100, 100, 5)
	d := newTestDetector(img, DefaultConfig())
	points := []dmdetect.ResultPoint{
		{X: 23, Y: 18, Position: dmdetect.PositionTopLeft},
		{X: 18, Y: 76, Position: dmdetect.PositionBottomLeft},
		{X: 76, Y: 81, Position: dmdetect.PositionBottomRight},
		{X: 75, Y: 22, Position: dmdetect.PositionTopRight},
	}
	for i, a := range points {
		for _, b := range points[i+1:] {
			assert.Equal(t, d.transitionsBetween(a, b), d.transitionsBetween(b, a), "%v <-> %v", a, b)
		}
	}
}

func TestMinTransitionSize(t *testing.T) {
	tests := []struct {
		name      string
		distance  float64
		dimension float64
		enabled   bool
		want      int
	}{
		{"half module", 59, 10, true, 3},
		{"tiny modules", 10, 50, true, 1},
		{"capped", 500, 10, true, 4},
		{"disabled", 500, 10, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TransitionCorrection = tt.enabled
			d := newTestDetector(bitutil.NewBitMatrix(1), cfg)
			from := dmdetect.ResultPoint{}
			to := dmdetect.ResultPoint{X: tt.distance}
			assert.Equal(t, tt.want, d.minTransitionSize(from, to, tt.dimension))
		})
	}
}

func TestCorrectPoint(t *testing.T) {
	to := dmdetect.ResultPoint{X: 40, Y: 0}

	tagged := dmdetect.ResultPoint{Position: dmdetect.PositionTopLeft}
	assert.Equal(t, dmdetect.ResultPoint{X: 1, Y: 1}, correctPoint(tagged, to, 10))

	br := dmdetect.ResultPoint{X: 80, Y: 40, Position: dmdetect.PositionBottomRight}
	moved := correctPoint(br, dmdetect.ResultPoint{X: 0, Y: 40}, 20)
	assert.Equal(t, dmdetect.ResultPoint{X: 79, Y: 39}, moved)

	untagged := dmdetect.ResultPoint{X: 3, Y: 4}
	assert.Equal(t, untagged, correctPoint(untagged, to, 10))
}

func TestTransitionFilter(t *testing.T) {
	f := transitionFilter{minSize: 2}
	for _, black := range []bool{false, true, false, true, true, false} {
		f.step(black)
	}
	// The first flip is cancelled, the second confirmed, the last pending.
	assert.Equal(t, 1, f.count)
	assert.Equal(t, 2, f.finish())
}
