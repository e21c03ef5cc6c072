package detector

import (
	"fmt"
	"math"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
)

// Seed is the square box the rectangle search grows from: Size pixels wide,
// centered on (X, Y).
type Seed struct {
	X, Y int
	Size int
}

// box is an axis aligned rectangle with inclusive pixel borders.
type box struct {
	left, right, up, down int
}

// side describes one border of the growing box.
type side struct {
	name string
	// blackOnBorder reports whether the border line holds a black pixel.
	blackOnBorder func(b box) bool
	// extend moves the border one pixel outwards.
	extend func(b *box)
	// inside reports whether the border is still within the image.
	inside func(b box) bool
	// seen records that a black pixel was found on this side at some point.
	seen bool
}

// rectangleDetector grows a box from a seed until each of its borders is
// entirely white, then finds the black point nearest to each box corner.
type rectangleDetector struct {
	image *bitutil.BitMatrix
	seed  box
	inset float64
}

func newRectangleDetector(image *bitutil.BitMatrix, seed Seed, inset float64) (*rectangleDetector, error) {
	half := seed.Size / 2
	b := box{left: seed.X - half, right: seed.X + half, up: seed.Y - half, down: seed.Y + half}
	if b.up < 0 || b.left < 0 || b.down >= image.Height() || b.right >= image.Width() {
		return nil, fmt.Errorf("%w: seed box %+v outside %dx%d image", dmdetect.ErrNotFound, b, image.Width(), image.Height())
	}
	return &rectangleDetector{image: image, seed: b, inset: inset}, nil
}

// detect returns the four corners of the dark region around the seed,
// tagged with their box positions and ordered as described on centerEdges.
func (r *rectangleDetector) detect() ([4]dmdetect.ResultPoint, error) {
	var none [4]dmdetect.ResultPoint
	b := r.seed
	width, height := r.image.Width(), r.image.Height()
	sides := [4]*side{
		{
			name:          "right",
			blackOnBorder: func(b box) bool { return r.containsBlackPoint(b.up, b.down, b.right, false) },
			extend:        func(b *box) { b.right++ },
			inside:        func(b box) bool { return b.right < width },
		},
		{
			name:          "bottom",
			blackOnBorder: func(b box) bool { return r.containsBlackPoint(b.left, b.right, b.down, true) },
			extend:        func(b *box) { b.down++ },
			inside:        func(b box) bool { return b.down < height },
		},
		{
			name:          "left",
			blackOnBorder: func(b box) bool { return r.containsBlackPoint(b.up, b.down, b.left, false) },
			extend:        func(b *box) { b.left-- },
			inside:        func(b box) bool { return b.left >= 0 },
		},
		{
			name:          "top",
			blackOnBorder: func(b box) bool { return r.containsBlackPoint(b.left, b.right, b.up, true) },
			extend:        func(b *box) { b.up-- },
			inside:        func(b box) bool { return b.up >= 0 },
		},
	}

	anyBlack := false
	for grew := true; grew; {
		grew = false
		for _, s := range sides {
			found, err := r.grow(&b, s)
			if err != nil {
				return none, err
			}
			grew = grew || found
		}
		anyBlack = anyBlack || grew
	}
	if !anyBlack {
		return none, fmt.Errorf("%w: no black pixel around the seed", dmdetect.ErrNotFound)
	}

	maxSize := b.right - b.left
	var corners [4]dmdetect.ResultPoint
	for i, c := range [4]struct {
		pos  dmdetect.Position
		x, y int
	}{
		{dmdetect.PositionBottomLeft, b.left, b.down},
		{dmdetect.PositionTopLeft, b.left, b.up},
		{dmdetect.PositionTopRight, b.right, b.up},
		{dmdetect.PositionBottomRight, b.right, b.down},
	} {
		p, ok := r.cornerPoint(c.pos, c.x, c.y, maxSize)
		if !ok {
			return none, fmt.Errorf("%w: no black point near the %s corner", dmdetect.ErrNotFound, c.pos)
		}
		corners[i] = p
	}
	return r.centerEdges(corners[3], corners[0], corners[2], corners[1]), nil
}

// grow pushes one side outwards until its border line is white and a
// black pixel has been seen on it. It fails once the side leaves the image.
func (r *rectangleDetector) grow(b *box, s *side) (bool, error) {
	found := false
	notWhite := true
	for (notWhite || !s.seen) && s.inside(*b) {
		notWhite = s.blackOnBorder(*b)
		if notWhite {
			s.extend(b)
			found = true
			s.seen = true
		} else if !s.seen {
			s.extend(b)
		}
	}
	if !s.inside(*b) {
		return false, fmt.Errorf("%w: %s border reached the image edge", dmdetect.ErrNotFound, s.name)
	}
	return found, nil
}

// cornerPoint scans diagonals of growing length across the box corner at
// (x, y) and returns the first black pixel found.
func (r *rectangleDetector) cornerPoint(pos dmdetect.Position, x, y, maxSize int) (dmdetect.ResultPoint, bool) {
	sx, sy := pos.InteriorSign()
	fx, fy := float64(x), float64(y)
	for i := 1; i < maxSize; i++ {
		fi := float64(i)
		if p, ok := r.blackPointOnSegment(fx, fy+sy*fi, fx+sx*fi, fy); ok {
			p.Position = pos
			return p, true
		}
	}
	return dmdetect.ResultPoint{}, false
}

// centerEdges moves each corner inwards by the configured inset and orders
// them so that the first and last points, and the second and third, lie on
// opposite corners of the box. If the symbol is tilted to the left the
// order is TR, TL, BR, BL; otherwise TL, BL, TR, BR.
func (r *rectangleDetector) centerEdges(br, bl, tr, tl dmdetect.ResultPoint) [4]dmdetect.ResultPoint {
	inward := func(p dmdetect.ResultPoint) dmdetect.ResultPoint {
		moved := p.MoveInward(r.inset)
		moved.Position = p.Position
		return moved
	}
	br, bl, tr, tl = inward(br), inward(bl), inward(tr), inward(tl)
	if tl.X < bl.X {
		return [4]dmdetect.ResultPoint{tr, tl, br, bl}
	}
	return [4]dmdetect.ResultPoint{tl, bl, tr, br}
}

func (r *rectangleDetector) blackPointOnSegment(aX, aY, bX, bY float64) (dmdetect.ResultPoint, bool) {
	dist := int(math.Floor(math.Hypot(aX-bX, aY-bY) + 0.5))
	if dist < 1 {
		return dmdetect.ResultPoint{}, false
	}
	xStep := (bX - aX) / float64(dist)
	yStep := (bY - aY) / float64(dist)
	for i := 0; i < dist; i++ {
		x := int(math.Floor(aX + float64(i)*xStep + 0.5))
		y := int(math.Floor(aY + float64(i)*yStep + 0.5))
		if r.image.GetOrFalse(x, y) {
			return dmdetect.ResultPoint{X: float64(x), Y: float64(y)}, true
		}
	}
	return dmdetect.ResultPoint{}, false
}

// containsBlackPoint reports whether the line at fixed, between a and b
// inclusive, holds a black pixel.
func (r *rectangleDetector) containsBlackPoint(a, b, fixed int, horizontal bool) bool {
	for i := a; i <= b; i++ {
		if horizontal && r.image.GetOrFalse(i, fixed) || !horizontal && r.image.GetOrFalse(fixed, i) {
			return true
		}
	}
	return false
}
