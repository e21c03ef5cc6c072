package binarizer

import (
	"github.com/ericlevine/dmdetect/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds every 8x8 block of pixels against the mean black point
// of the 5x5 blocks around it, so uneven lighting across the image does not
// push one side of a symbol entirely black or white. Images narrower or
// shorter than five blocks are handed to GlobalHistogram.
func Hybrid(lum *Luminance) (*bitutil.BitMatrix, error) {
	if lum.Width < minimumDimension || lum.Height < minimumDimension {
		return GlobalHistogram(lum)
	}
	g := blockGrid{
		lum:  lum,
		cols: (lum.Width + blockSize - 1) >> blockSizePower,
		rows: (lum.Height + blockSize - 1) >> blockSizePower,
	}
	points := g.blackPoints()

	matrix := bitutil.NewBitMatrixWithSize(lum.Width, lum.Height)
	for by := 0; by < g.rows; by++ {
		top := clampBlock(by, g.rows)
		for bx := 0; bx < g.cols; bx++ {
			left := clampBlock(bx, g.cols)
			sum := 0
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					sum += points[top+dy][left+dx]
				}
			}
			g.threshold(matrix, bx, by, sum/25)
		}
	}
	return matrix, nil
}

// blockGrid tiles a luminance image with blockSize squares. The last
// column and row of blocks are shifted inwards to stay inside the image.
type blockGrid struct {
	lum        *Luminance
	cols, rows int
}

func (g blockGrid) origin(bx, by int) (x, y int) {
	return min(bx<<blockSizePower, g.lum.Width-blockSize),
		min(by<<blockSizePower, g.lum.Height-blockSize)
}

func (g blockGrid) blackPoints() [][]int {
	points := make([][]int, g.rows)
	for by := range points {
		points[by] = make([]int, g.cols)
		for bx := range points[by] {
			x0, y0 := g.origin(bx, by)
			sum, lo, hi := 0, 0xff, 0
			for y := y0; y < y0+blockSize; y++ {
				row := g.lum.Pix[y*g.lum.Width+x0 : y*g.lum.Width+x0+blockSize]
				for _, p := range row {
					v := int(p)
					sum += v
					lo = min(lo, v)
					hi = max(hi, v)
				}
			}

			average := sum >> (2 * blockSizePower)
			if hi-lo <= minDynamicRange {
				// Flat block: background unless the blocks above and to the
				// left already established a darker black point.
				average = lo / 2
				if by > 0 && bx > 0 {
					neighbors := (points[by-1][bx] + 2*points[by][bx-1] + points[by-1][bx-1]) / 4
					if lo < neighbors {
						average = neighbors
					}
				}
			}
			points[by][bx] = average
		}
	}
	return points
}

func (g blockGrid) threshold(matrix *bitutil.BitMatrix, bx, by, threshold int) {
	x0, y0 := g.origin(bx, by)
	for y := y0; y < y0+blockSize; y++ {
		offset := y * g.lum.Width
		for x := x0; x < x0+blockSize; x++ {
			if int(g.lum.Pix[offset+x]) <= threshold {
				matrix.Set(x, y)
			}
		}
	}
}

// clampBlock keeps a 5x5 neighborhood centered on v inside n blocks.
func clampBlock(v, n int) int {
	return min(max(v, 2), n-3)
}
