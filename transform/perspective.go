// Package transform maps an ideal module grid onto a quadrilateral in image
// space and samples the image through that mapping.
package transform

import "math"

// Homography is a planar projective mapping stored as a row-major 3x3
// matrix acting on column vectors (x, y, 1).
type Homography struct {
	m [3][3]float64
}

// QuadToQuad returns the mapping that carries the corners of from onto the
// corresponding corners of to.
func QuadToQuad(from, to Quad) *Homography {
	return SquareToQuad(to).mul(QuadToSquare(from))
}

// SquareToQuad maps the unit square (0,0) (1,0) (1,1) (0,1) onto q.
func SquareToQuad(q Quad) *Homography {
	x0, y0, x1, y1, x2, y2, x3, y3 := q[0], q[1], q[2], q[3], q[4], q[5], q[6], q[7]
	sx := x0 - x1 + x2 - x3
	sy := y0 - y1 + y2 - y3
	if sx == 0 && sy == 0 {
		// parallelogram
		return &Homography{m: [3][3]float64{
			{x1 - x0, x2 - x1, x0},
			{y1 - y0, y2 - y1, y0},
			{0, 0, 1},
		}}
	}
	dx1, dx2 := x1-x2, x3-x2
	dy1, dy2 := y1-y2, y3-y2
	den := dx1*dy2 - dx2*dy1
	g := (sx*dy2 - dx2*sy) / den
	h := (dx1*sy - sx*dy1) / den
	return &Homography{m: [3][3]float64{
		{x1 - x0 + g*x1, x3 - x0 + h*x3, x0},
		{y1 - y0 + g*y1, y3 - y0 + h*y3, y0},
		{g, h, 1},
	}}
}

// QuadToSquare is the inverse of SquareToQuad up to scale.
func QuadToSquare(q Quad) *Homography {
	return SquareToQuad(q).adjugate()
}

// Apply maps a single point.
func (h *Homography) Apply(x, y float64) (float64, float64) {
	w := h.m[2][0]*x + h.m[2][1]*y + h.m[2][2]
	return (h.m[0][0]*x + h.m[0][1]*y + h.m[0][2]) / w,
		(h.m[1][0]*x + h.m[1][1]*y + h.m[1][2]) / w
}

// TransformPoints maps interleaved x, y pairs in place. A trailing odd
// value is left untouched.
func (h *Homography) TransformPoints(points []float64) {
	for i := 0; i+1 < len(points); i += 2 {
		points[i], points[i+1] = h.Apply(points[i], points[i+1])
	}
}

// Determinant of the underlying matrix.
func (h *Homography) Determinant() float64 {
	c := h.cofactors()
	return h.m[0][0]*c[0][0] + h.m[0][1]*c[0][1] + h.m[0][2]*c[0][2]
}

// Singular reports whether the mapping collapses the plane or carries
// non-finite coefficients, as happens when a quadrilateral has three
// collinear corners.
func (h *Homography) Singular() bool {
	for _, row := range h.m {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	det := h.Determinant()
	return det == 0 || math.IsNaN(det)
}

// cofactors returns the signed cofactor matrix. The cyclic index form
// carries the checkerboard sign for a 3x3 matrix.
func (h *Homography) cofactors() [3][3]float64 {
	var c [3][3]float64
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			c[i][j] = h.m[i1][j1]*h.m[i2][j2] - h.m[i1][j2]*h.m[i2][j1]
		}
	}
	return c
}

func (h *Homography) adjugate() *Homography {
	c := h.cofactors()
	out := &Homography{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.m[i][j] = c[j][i]
		}
	}
	return out
}

// mul returns h composed after other: points go through other first.
func (h *Homography) mul(other *Homography) *Homography {
	out := &Homography{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.m[i][j] += h.m[i][k] * other.m[k][j]
			}
		}
	}
	return out
}
