package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/ericlevine/dmdetect/bitutil"
)

// ErrNotFound is returned when sampling fails.
var ErrNotFound = errors.New("gridsampler: not found")

// Quad lists the corners of a quadrilateral in the order top-left,
// top-right, bottom-right, bottom-left.
type Quad [8]float64

// GridSampler samples an image to reconstruct a barcode, accounting for
// perspective distortion.
type GridSampler interface {
	// SampleGrid maps the grid-space quadrilateral dst onto the image-space
	// quadrilateral src and reads one bit per module center.
	SampleGrid(image *bitutil.BitMatrix, dimensionX, dimensionY int, dst, src Quad) (*bitutil.BitMatrix, error)
}

// DefaultGridSampler is the standard GridSampler implementation.
type DefaultGridSampler struct{}

// SampleGrid samples with explicit corner points.
func (s DefaultGridSampler) SampleGrid(image *bitutil.BitMatrix, dimensionX, dimensionY int, dst, src Quad) (*bitutil.BitMatrix, error) {
	transform := QuadToQuad(dst, src)
	if transform.Singular() {
		return nil, fmt.Errorf("%w: singular transform", ErrNotFound)
	}
	return s.SampleGridTransform(image, dimensionX, dimensionY, transform)
}

// SampleGridTransform samples through a precomputed grid-to-image mapping.
func (s DefaultGridSampler) SampleGridTransform(image *bitutil.BitMatrix, dimensionX, dimensionY int,
	transform *Homography,
) (*bitutil.BitMatrix, error) {
	if dimensionX <= 0 || dimensionY <= 0 {
		return nil, fmt.Errorf("%w: dimension %dx%d", ErrNotFound, dimensionX, dimensionY)
	}
	bits := bitutil.NewBitMatrixWithSize(dimensionX, dimensionY)
	points := make([]float64, 2*dimensionX)
	for y := 0; y < dimensionY; y++ {
		iValue := float64(y) + 0.5
		for x := 0; x < len(points); x += 2 {
			points[x] = float64(x/2) + 0.5
			points[x+1] = iValue
		}
		transform.TransformPoints(points)
		if err := CheckAndNudgePoints(image, points); err != nil {
			return nil, err
		}
		for x := 0; x < len(points); x += 2 {
			ix := int(points[x])
			iy := int(points[x+1])
			if !image.Contains(ix, iy) {
				return nil, fmt.Errorf("%w: module (%d,%d) maps outside the image", ErrNotFound, x/2, y)
			}
			if image.Get(ix, iy) {
				bits.Set(x/2, y)
			}
		}
	}
	return bits, nil
}

// CheckAndNudgePoints checks that transformed points are within image bounds,
// nudging points that are at most one pixel outside back onto the border.
// Only runs of points at either end of the slice are nudged; the interior
// is checked by the caller.
func CheckAndNudgePoints(image *bitutil.BitMatrix, points []float64) error {
	for offset := 0; offset+1 < len(points); offset += 2 {
		if !finite(points[offset]) || !finite(points[offset+1]) {
			return fmt.Errorf("%w: non-finite sample point", ErrNotFound)
		}
	}

	nudged := true
	for offset := 0; offset+1 < len(points) && nudged; offset += 2 {
		var err error
		if nudged, err = nudge(image, points, offset); err != nil {
			return err
		}
	}

	nudged = true
	for offset := len(points) - 2; offset >= 0 && nudged; offset -= 2 {
		var err error
		if nudged, err = nudge(image, points, offset); err != nil {
			return err
		}
	}
	return nil
}

func nudge(image *bitutil.BitMatrix, points []float64, offset int) (bool, error) {
	width := image.Width()
	height := image.Height()
	x := int(points[offset])
	y := int(points[offset+1])
	if x < -1 || x > width || y < -1 || y > height {
		return false, fmt.Errorf("%w: sample point (%d,%d) outside %dx%d image", ErrNotFound, x, y, width, height)
	}
	nudged := false
	if x == -1 {
		points[offset] = 0
		nudged = true
	} else if x == width {
		points[offset] = float64(width - 1)
		nudged = true
	}
	if y == -1 {
		points[offset+1] = 0
		nudged = true
	} else if y == height {
		points[offset+1] = float64(height - 1)
		nudged = true
	}
	return nudged, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
