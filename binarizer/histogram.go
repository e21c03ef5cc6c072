// Package binarizer turns greyscale images into the binary images the
// detector works on.
package binarizer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// Luminance holds 8-bit greyscale samples, row-major.
type Luminance struct {
	Pix    []byte
	Width  int
	Height int
}

// LuminanceFromImage converts img to greyscale. Fully transparent pixels
// read as white.
func LuminanceFromImage(img image.Image) *Luminance {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	lum := &Luminance{
		Pix:    make([]byte, b.Dx()*b.Dy()),
		Width:  b.Dx(),
		Height: b.Dy(),
	}
	for y := 0; y < lum.Height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+lum.Width*4]
		for x := 0; x < lum.Width; x++ {
			if row[x*4+3] == 0 {
				lum.Pix[y*lum.Width+x] = 0xff
				continue
			}
			lum.Pix[y*lum.Width+x] = row[x*4]
		}
	}
	return lum
}

// GlobalHistogram picks one black point for the whole image from a
// histogram of the central band of five sample rows, then thresholds every
// pixel against it. It works well on printed labels and screenshots; it
// fails with ErrNotFound when the histogram does not show two peaks.
func GlobalHistogram(lum *Luminance) (*bitutil.BitMatrix, error) {
	if lum.Width < 1 || lum.Height < 1 {
		return nil, fmt.Errorf("%w: empty image", dmdetect.ErrNotFound)
	}
	var buckets [luminanceBuckets]int
	for y := 1; y < 5; y++ {
		row := lum.Height * y / 5
		right := (lum.Width * 4) / 5
		for x := lum.Width / 5; x < right; x++ {
			buckets[int(lum.Pix[row*lum.Width+x])>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(buckets[:])
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrixWithSize(lum.Width, lum.Height)
	for y := 0; y < lum.Height; y++ {
		offset := y * lum.Width
		for x := 0; x < lum.Width; x++ {
			if int(lum.Pix[offset+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// estimateBlackPoint finds the valley between the two tallest, well
// separated peaks of the histogram.
func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x := 0; x < numBuckets; x++ {
		if buckets[x] > firstPeakSize {
			firstPeak = x
			firstPeakSize = buckets[x]
		}
		if buckets[x] > maxBucketCount {
			maxBucketCount = buckets[x]
		}
	}

	secondPeak := 0
	secondPeakScore := 0
	for x := 0; x < numBuckets; x++ {
		dist := x - firstPeak
		score := buckets[x] * dist * dist
		if score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}

	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, fmt.Errorf("%w: image has no contrast", dmdetect.ErrNotFound)
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}

	return bestValley << luminanceShift, nil
}
