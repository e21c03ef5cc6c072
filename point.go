// Package dmdetect locates Data Matrix symbols in binary images and
// rectifies them into a grid of modules ready for bit-level decoding.
//
// The detection pipeline itself lives in datamatrix/detector; this package
// holds the point primitives shared by the detector, the sampler and the
// command line front end.
package dmdetect

import (
	"errors"
	"fmt"
	"math"
)

// Position tags a point with the corner of the bounding box it was found
// at. Untagged points are never nudged by the transition scanner.
type Position int

const (
	PositionNone Position = iota
	PositionTopLeft
	PositionTopRight
	PositionBottomLeft
	PositionBottomRight
)

// String returns the short name of the position.
func (p Position) String() string {
	switch p {
	case PositionTopLeft:
		return "TL"
	case PositionTopRight:
		return "TR"
	case PositionBottomLeft:
		return "BL"
	case PositionBottomRight:
		return "BR"
	default:
		return "-"
	}
}

// interiorSigns maps a corner to the direction pointing into the box.
var interiorSigns = [...][2]float64{
	PositionNone:        {0, 0},
	PositionTopLeft:     {1, 1},
	PositionTopRight:    {-1, 1},
	PositionBottomLeft:  {1, -1},
	PositionBottomRight: {-1, -1},
}

// InteriorSign returns the x and y signs of a step from the corner towards
// the interior of its box. PositionNone yields (0, 0).
func (p Position) InteriorSign() (sx, sy float64) {
	if p < 0 || int(p) >= len(interiorSigns) {
		return 0, 0
	}
	s := interiorSigns[p]
	return s[0], s[1]
}

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y     float64
	Position Position
}

// String formats the point as "(x,y)" with its position tag when present.
func (p ResultPoint) String() string {
	if p.Position == PositionNone {
		return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
	}
	return fmt.Sprintf("(%.2f,%.2f)%s", p.X, p.Y, p.Position)
}

// MoveInward shifts the point by amount along both axes towards the
// interior of the box its position tag refers to. The result carries no
// position tag.
func (p ResultPoint) MoveInward(amount float64) ResultPoint {
	sx, sy := p.Position.InteriorSign()
	return ResultPoint{X: p.X + sx*amount, Y: p.Y + sy*amount}
}

// Distance returns the distance between two points.
func Distance(a, b ResultPoint) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y))
}

// CrossProductZ computes the z component of the cross product between
// vectors (a-b) and (c-b), with b as the vertex.
func CrossProductZ(a, b, c ResultPoint) float64 {
	return (c.X-b.X)*(a.Y-b.Y) - (c.Y-b.Y)*(a.X-b.X)
}

// ErrDegenerate is returned by OrderBestPatterns when the three points are
// (nearly) collinear and no orientation can be told apart.
var ErrDegenerate = errors.New("points are collinear")

// collinearEpsilon is the smallest twice-the-triangle-area accepted, in
// square pixels.
const collinearEpsilon = 1e-6

// OrderBestPatterns orders three points as A-B-C where B is the vertex
// opposite the longest side (the largest angle) and C is reached from A by
// turning through B in the positive cross product direction.
func OrderBestPatterns(patterns [3]ResultPoint) ([3]ResultPoint, error) {
	d01 := Distance(patterns[0], patterns[1])
	d12 := Distance(patterns[1], patterns[2])
	d02 := Distance(patterns[0], patterns[2])

	var pointA, pointB, pointC ResultPoint
	if d12 >= d01 && d12 >= d02 {
		pointB = patterns[0]
		pointA = patterns[1]
		pointC = patterns[2]
	} else if d02 >= d12 && d02 >= d01 {
		pointB = patterns[1]
		pointA = patterns[0]
		pointC = patterns[2]
	} else {
		pointB = patterns[2]
		pointA = patterns[0]
		pointC = patterns[1]
	}

	cross := CrossProductZ(pointA, pointB, pointC)
	if math.Abs(cross) < collinearEpsilon || math.IsNaN(cross) {
		return patterns, ErrDegenerate
	}
	if cross < 0 {
		pointA, pointC = pointC, pointA
	}
	return [3]ResultPoint{pointA, pointB, pointC}, nil
}
