package detector

import (
	"math"

	dmdetect "github.com/ericlevine/dmdetect"
)

// candidateScore rates a top-right candidate; lower is better.
type candidateScore func(candidate dmdetect.ResultPoint) int

// roundUpEven rounds odd module counts up. Data Matrix sides always have an
// even number of modules.
func roundUpEven(n int) int {
	if n&1 == 1 {
		return n + 1
	}
	return n
}

// isRectangular decides the symbol shape from the module counts along the
// top and right edges.
func isRectangular(form Form, dimTop, dimRight int) bool {
	switch form {
	case FormRectangle:
		return true
	case FormSquare:
		return false
	}
	return 4*dimTop >= 7*dimRight || 4*dimRight >= 7*dimTop
}

// estimate counts the modules along the two timing edges, decides the
// shape, corrects the top-right corner and measures the final dimensions.
// The corrected corner is the raw one if no candidate is usable.
func (d *detector) estimate(c corners) (topRight dmdetect.ResultPoint, dimX, dimY int, rectangular bool) {
	dimTop := roundUpEven(d.transitionsBetween(c.topLeft, c.topRight)) + 2
	dimRight := roundUpEven(d.transitionsBetween(c.bottomRight, c.topRight)) + 2
	rectangular = isRectangular(d.cfg.Form, dimTop, dimRight)

	if rectangular {
		corrected, ok := d.correctTopRight(c, dimTop, dimRight, func(p dmdetect.ResultPoint) int {
			return iabs(dimTop-d.transitionsAt(c.topLeft, p, float64(dimTop))) +
				iabs(dimRight-d.transitionsAt(c.bottomRight, p, float64(dimRight)))
		})
		if !ok {
			corrected = c.topRight
		}
		dimX = roundUpEven(d.transitionsBetween(c.topLeft, corrected))
		dimY = roundUpEven(d.transitionsBetween(c.bottomRight, corrected))
		d.log.Debug("rectangular symbol", "dimTop", dimTop, "dimRight", dimRight, "topRight", corrected, "triangulated", ok)
		return corrected, dimX, dimY, true
	}

	dimension := max(dimTop, dimRight)
	dim := float64(dimension)
	corrected, ok := d.correctTopRight(c, dimension, dimension, func(p dmdetect.ResultPoint) int {
		return iabs(d.transitionsAt(c.topLeft, p, dim) - d.transitionsAt(c.bottomRight, p, dim))
	})
	if !ok {
		corrected = c.topRight
	}
	dimX = roundUpEven(max(d.transitionsAt(c.topLeft, corrected, dim), d.transitionsAt(c.bottomRight, corrected, dim)))
	d.log.Debug("square symbol", "dimTop", dimTop, "dimRight", dimRight, "topRight", corrected, "triangulated", ok)
	return corrected, dimX, dimX, false
}

// correctTopRight projects the measured top-right corner outwards, once
// along the top edge and once along the right edge, by one module as
// estimated from the opposite solid side and the given module counts. Valid candidates compete on
// score, with the top edge candidate winning ties.
func (d *detector) correctTopRight(c corners, dimTop, dimRight int, score candidateScore) (dmdetect.ResultPoint, bool) {
	alongTop := project(c.topLeft, c.topRight, float64(roundDistance(c.bottomLeft, c.bottomRight))/float64(dimTop))
	alongRight := project(c.bottomRight, c.topRight, float64(roundDistance(c.bottomLeft, c.topLeft))/float64(dimRight))

	validTop, validRight := d.isValid(alongTop), d.isValid(alongRight)
	switch {
	case !validTop && !validRight:
		return dmdetect.ResultPoint{}, false
	case !validTop:
		return alongRight, true
	case !validRight:
		return alongTop, true
	}
	if score(alongTop) <= score(alongRight) {
		return alongTop, true
	}
	return alongRight, true
}

// project extends the segment from->to beyond to by length pixels. The
// result keeps the position tag of to.
func project(from, to dmdetect.ResultPoint, length float64) dmdetect.ResultPoint {
	norm := float64(roundDistance(from, to))
	return dmdetect.ResultPoint{
		X:        to.X + length*(to.X-from.X)/norm,
		Y:        to.Y + length*(to.Y-from.Y)/norm,
		Position: to.Position,
	}
}

// isValid reports whether a candidate lies in the image. A point on the
// first row is rejected.
func (d *detector) isValid(p dmdetect.ResultPoint) bool {
	return p.X >= 0 && p.X < float64(d.image.Width()) && p.Y > 0 && p.Y < float64(d.image.Height())
}

func roundDistance(a, b dmdetect.ResultPoint) int {
	return int(math.Floor(dmdetect.Distance(a, b) + 0.5))
}
