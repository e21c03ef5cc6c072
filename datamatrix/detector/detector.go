// Package detector locates a Data Matrix symbol in a binary image and
// samples it into a grid of modules.
//
// Data Matrix symbols have an L-shaped finder pattern made of two solid
// edges along the left and bottom, and two alternating clock-track edges
// along the top and right. The detector grows a white rectangle around the
// symbol, tells the solid edges from the clock tracks by counting
// black/white transitions, counts modules along the clock tracks,
// triangulates the top-right corner that lies on a white module and
// finally samples the rectified grid.
package detector

import (
	"context"
	"fmt"
	"log/slog"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
)

// minDimension is the smallest module count of a Data Matrix side.
const minDimension = 8

// DetectorResult holds the sampled module grid and the four corners it was
// sampled from.
type DetectorResult struct {
	Bits *bitutil.BitMatrix
	// Points are the top-left, bottom-left, bottom-right and corrected
	// top-right corners, in that order.
	Points []dmdetect.ResultPoint
	// Rectangular is set when the symbol was treated as non-square.
	Rectangular bool
}

type detector struct {
	image *bitutil.BitMatrix
	cfg   *Config
	log   *slog.Logger
}

// Detect locates a Data Matrix symbol around the center of the image. A
// nil cfg uses DefaultConfig. Failures wrap dmdetect.ErrNotFound.
func Detect(image *bitutil.BitMatrix, cfg *Config) (*DetectorResult, error) {
	initSize := DefaultConfig().InitSize
	if cfg != nil {
		initSize = cfg.InitSize
	}
	return DetectWithSeed(image, cfg, Seed{X: image.Width() / 2, Y: image.Height() / 2, Size: initSize})
}

// DetectWithSeed is like Detect but grows the search rectangle from the
// given seed box instead of the image center.
func DetectWithSeed(image *bitutil.BitMatrix, cfg *Config, seed Seed) (*DetectorResult, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &detector{image: image, cfg: cfg, log: cfg.logger()}
	return d.detect(seed)
}

func (d *detector) detect(seed Seed) (*DetectorResult, error) {
	rd, err := newRectangleDetector(d.image, seed, d.cfg.CornerInset)
	if err != nil {
		return nil, err
	}
	raw, err := rd.detect()
	if err != nil {
		return nil, err
	}
	d.log.Debug("rectangle found", "seed", seed, "corners", raw[:])

	c, err := d.classifyCorners(raw)
	if err != nil {
		return nil, err
	}

	topRight, dimX, dimY, rectangular := d.estimate(c)
	if dimX < minDimension || dimY < minDimension {
		return nil, fmt.Errorf("%w: %dx%d modules is below the %d module minimum", dmdetect.ErrNotFound, dimX, dimY, minDimension)
	}

	points := []dmdetect.ResultPoint{c.topLeft, c.bottomLeft, c.bottomRight, topRight}
	if err := d.checkCorners(points); err != nil {
		return nil, err
	}

	bits, err := d.sampleGrid(c, topRight, dimX, dimY)
	if err != nil {
		return nil, err
	}
	if d.log.Enabled(context.Background(), slog.LevelDebug) {
		d.log.Debug("symbol sampled",
			"dimX", dimX, "dimY", dimY, "rectangular", rectangular,
			"points", points, "grid", "\n"+bits.StringWithChars("X", "."))
	}
	return &DetectorResult{Bits: bits, Points: points, Rectangular: rectangular}, nil
}

// checkCorners rejects corners outside the image and coincident corners.
func (d *detector) checkCorners(points []dmdetect.ResultPoint) error {
	w, h := float64(d.image.Width()), float64(d.image.Height())
	for i, p := range points {
		if !(p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h) {
			return fmt.Errorf("%w: corner %v outside the image", dmdetect.ErrNotFound, p)
		}
		for _, q := range points[:i] {
			if p.X == q.X && p.Y == q.Y {
				return fmt.Errorf("%w: corners %v and %v coincide", dmdetect.ErrNotFound, q, p)
			}
		}
	}
	return nil
}
