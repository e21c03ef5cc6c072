package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
)

func TestRoundUpEven(t *testing.T) {
	for in, want := range map[int]int{0: 0, 1: 2, 7: 8, 8: 8, 17: 18} {
		assert.Equal(t, want, roundUpEven(in), "roundUpEven(%d)", in)
	}
}

func TestIsRectangular(t *testing.T) {
	tests := []struct {
		form             Form
		dimTop, dimRight int
		want             bool
	}{
		{FormAuto, 10, 10, false},
		{FormAuto, 14, 8, true},
		{FormAuto, 8, 14, true},
		{FormAuto, 69, 40, false},
		{FormAuto, 26, 12, true},
		{FormSquare, 18, 8, false},
		{FormRectangle, 10, 10, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRectangular(tt.form, tt.dimTop, tt.dimRight),
			"%v %dx%d", tt.form, tt.dimTop, tt.dimRight)
	}
}

func noScore(t *testing.T) candidateScore {
	return func(dmdetect.ResultPoint) int {
		t.Fatal("score called")
		return 0
	}
}

func TestCorrectTopRightNoValidCandidate(t *testing.T) {
	d := newTestDetector(bitutil.NewBitMatrix(100), DefaultConfig())
	c := corners{
		topLeft:     pt(10, 1, dmdetect.PositionTopLeft),
		bottomLeft:  pt(10, 90, dmdetect.PositionBottomLeft),
		bottomRight: pt(99, 90, dmdetect.PositionBottomRight),
		topRight:    pt(99, 1, dmdetect.PositionTopRight),
	}
	_, ok := d.correctTopRight(c, 10, 10, noScore(t))
	assert.False(t, ok)
}

func TestCorrectTopRightSingleCandidate(t *testing.T) {
	d := newTestDetector(bitutil.NewBitMatrix(100), DefaultConfig())
	c := corners{
		topLeft:     pt(10, 50, dmdetect.PositionTopLeft),
		bottomLeft:  pt(10, 90, dmdetect.PositionBottomLeft),
		bottomRight: pt(99, 90, dmdetect.PositionBottomRight),
		topRight:    pt(99, 50, dmdetect.PositionTopRight),
	}
	// The projection along the top edge leaves the image on the right.
	got, ok := d.correctTopRight(c, 10, 10, noScore(t))
	require.True(t, ok)
	assert.Equal(t, pt(99, 46, dmdetect.PositionTopRight), got)
}

func TestCorrectTopRightPrefersTopOnTie(t *testing.T) {
	d := newTestDetector(bitutil.NewBitMatrix(100), DefaultConfig())
	c := corners{
		topLeft:     pt(20, 20, dmdetect.PositionTopLeft),
		bottomLeft:  pt(20, 80, dmdetect.PositionBottomLeft),
		bottomRight: pt(80, 80, dmdetect.PositionBottomRight),
		topRight:    pt(80, 20, dmdetect.PositionTopRight),
	}
	got, ok := d.correctTopRight(c, 10, 10, func(dmdetect.ResultPoint) int { return 3 })
	require.True(t, ok)
	assert.Equal(t, pt(86, 20, dmdetect.PositionTopRight), got)

	got, ok = d.correctTopRight(c, 10, 10, func(p dmdetect.ResultPoint) int {
		if p.X > 80 {
			return 1
		}
		return 0
	})
	require.True(t, ok)
	assert.Equal(t, pt(80, 14, dmdetect.PositionTopRight), got)
}

func TestIsValidRejectsFirstRow(t *testing.T) {
	d := newTestDetector(bitutil.NewBitMatrixWithSize(50, 40), DefaultConfig())
	assert.True(t, d.isValid(dmdetect.ResultPoint{X: 0, Y: 1}))
	assert.False(t, d.isValid(dmdetect.ResultPoint{X: 10, Y: 0}))
	assert.False(t, d.isValid(dmdetect.ResultPoint{X: 50, Y: 10}))
	assert.False(t, d.isValid(dmdetect.ResultPoint{X: 10, Y: 40}))
	assert.False(t, d.isValid(dmdetect.ResultPoint{X: -0.5, Y: 10}))
}
