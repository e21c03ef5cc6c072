package detector

import (
	"math"

	dmdetect "github.com/ericlevine/dmdetect"
)

// maxMinTransitionSize caps the run length a color change must survive
// before it counts.
const maxMinTransitionSize = 4

// transitionsBetween counts black/white transitions between two points
// using the working dimension from the configuration.
func (d *detector) transitionsBetween(from, to dmdetect.ResultPoint) int {
	return d.transitionsAt(from, to, d.cfg.Dimension)
}

// transitionsAt counts the black/white transitions along the segment from
// one point to another with Bresenham's algorithm. dimension is the number
// of modules the segment is expected to cross; it scales both the end
// point correction and the noise filter.
func (d *detector) transitionsAt(from, to dmdetect.ResultPoint, dimension float64) int {
	// Always scan left to right so that both directions agree.
	corrFrom, corrTo := from, to
	if corrFrom.X > corrTo.X {
		corrFrom, corrTo = corrTo, corrFrom
	}
	if d.cfg.CorrectCornerPosition {
		corrFrom = correctPoint(corrFrom, corrTo, dimension)
		corrTo = correctPoint(corrTo, corrFrom, dimension)
	}
	fromX := int(corrFrom.X + 0.5)
	fromY := int(corrFrom.Y + 0.5)
	toX := int(corrTo.X + 0.5)
	toY := int(corrTo.Y + 0.5)

	steep := iabs(toY-fromY) > iabs(toX-fromX)
	if steep {
		fromX, fromY = fromY, fromX
		toX, toY = toY, toX
	}

	dx := iabs(toX - fromX)
	dy := iabs(toY - fromY)
	err := -dx / 2
	ystep := -1
	if fromY < toY {
		ystep = 1
	}
	xstep := -1
	if fromX < toX {
		xstep = 1
	}

	filter := transitionFilter{
		minSize: d.minTransitionSize(from, to, dimension),
		inBlack: d.isBlack(fromX, fromY, steep),
	}
	for x, y := fromX, fromY; x != toX; x += xstep {
		filter.step(d.isBlack(x, y, steep))
		err += dy
		if err > 0 {
			if y == toY {
				break
			}
			y += ystep
			err -= dx
		}
	}
	transitions := filter.finish()
	d.log.Debug("transitions",
		"from", from, "to", to,
		"corrFrom", corrFrom, "corrTo", corrTo,
		"dimension", dimension, "minSize", filter.minSize,
		"count", transitions)
	return transitions
}

// minTransitionSize is half the estimated module size in pixels, clamped
// to [1, maxMinTransitionSize]. It is 1 when the filter is disabled.
func (d *detector) minTransitionSize(from, to dmdetect.ResultPoint, dimension float64) int {
	if !d.cfg.TransitionCorrection {
		return 1
	}
	size := int(math.Floor(dmdetect.Distance(from, to)/dimension+0.5)) / 2
	return min(max(size, 1), maxMinTransitionSize)
}

// isBlack reads the pixel at scan coordinates (x, y). With the three point
// sampler the pixel and its two neighbours across the scan line vote.
func (d *detector) isBlack(x, y int, steep bool) bool {
	at := func(y int) bool {
		if steep {
			return d.image.GetOrFalse(y, x)
		}
		return d.image.GetOrFalse(x, y)
	}
	if !d.cfg.ThreePointSampler {
		return at(y)
	}
	votes := 0
	for _, py := range [3]int{y, y - 1, y + 1} {
		if at(py) {
			votes++
		}
	}
	return votes > 1
}

// correctPoint moves a tagged corner towards the inside of the symbol by a
// quarter of a module, assuming the segment to the other end spans
// dimension modules. Untagged points are returned unchanged.
func correctPoint(p, to dmdetect.ResultPoint, dimension float64) dmdetect.ResultPoint {
	if p.Position == dmdetect.PositionNone {
		return p
	}
	return p.MoveInward(dmdetect.Distance(p, to) / (dimension * 4))
}

// transitionFilter counts color changes along a scan line. A change is
// pending until the new color has held for minSize pixels; if the color
// flips back first the change is dropped.
type transitionFilter struct {
	minSize int
	inBlack bool
	pending int // pixels since an unconfirmed change, 0 when none
	count   int
}

func (f *transitionFilter) step(black bool) {
	switch {
	case black != f.inBlack:
		f.inBlack = black
		if f.pending > 0 {
			f.pending = 0
		} else {
			f.pending = 1
		}
	case f.pending > 0:
		f.pending++
	}
	if f.pending >= f.minSize {
		f.count++
		f.pending = 0
	}
}

// finish returns the count, including a change still pending at the end of
// the line.
func (f *transitionFilter) finish() int {
	if f.pending > 0 {
		return f.count + 1
	}
	return f.count
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
