package detector

import (
	"fmt"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
	"github.com/ericlevine/dmdetect/transform"
)

// sampleGrid reads a dimensionX by dimensionY module grid from the
// quadrilateral spanned by the classified corners and the corrected
// top-right corner. The grid corners are inset by the sampling correction
// so that each sample lands inside its module.
func (d *detector) sampleGrid(c corners, topRight dmdetect.ResultPoint, dimensionX, dimensionY int) (*bitutil.BitMatrix, error) {
	corr := d.cfg.SamplingCorrection
	corrTop := d.cfg.SamplingCorrectionTop
	dimX, dimY := float64(dimensionX), float64(dimensionY)

	dst := transform.Quad{
		corr, corrTop,
		dimX - corr, corrTop,
		dimX - corr, dimY - corr,
		corr, dimY - corr,
	}
	src := transform.Quad{
		c.topLeft.X, c.topLeft.Y,
		topRight.X, topRight.Y,
		c.bottomRight.X, c.bottomRight.Y,
		c.bottomLeft.X, c.bottomLeft.Y,
	}
	bits, err := d.cfg.sampler().SampleGrid(d.image, dimensionX, dimensionY, dst, src)
	if err != nil {
		return nil, fmt.Errorf("%w: sampling %dx%d grid: %w", dmdetect.ErrNotFound, dimensionX, dimensionY, err)
	}
	return bits, nil
}
