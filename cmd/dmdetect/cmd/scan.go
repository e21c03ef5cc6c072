package cmd

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/binarizer"
	"github.com/ericlevine/dmdetect/bitutil"
	"github.com/ericlevine/dmdetect/datamatrix/detector"
)

// binarizers are tried in order until one yields a detectable symbol.
var binarizers = []struct {
	name     string
	binarize func(*binarizer.Luminance) (*bitutil.BitMatrix, error)
}{
	{"global histogram", binarizer.GlobalHistogram},
	{"hybrid", binarizer.Hybrid},
}

// scanFile decodes an image file, binarizes it and runs the detector. A
// nil seed searches from the image center.
func scanFile(path string, cfg *detector.Config, seed *detector.Seed) (*detector.DetectorResult, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return scanImage(img, cfg, seed)
}

// scanImage runs the detector on each binarization of img in turn. Only a
// not-found failure moves on to the next binarizer.
func scanImage(img image.Image, cfg *detector.Config, seed *detector.Seed) (*detector.DetectorResult, error) {
	lum := binarizer.LuminanceFromImage(img)
	var err error
	for _, b := range binarizers {
		var result *detector.DetectorResult
		result, err = scanBits(b.binarize, lum, cfg, seed)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, dmdetect.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
	}
	return nil, err
}

func scanBits(
	binarize func(*binarizer.Luminance) (*bitutil.BitMatrix, error),
	lum *binarizer.Luminance,
	cfg *detector.Config,
	seed *detector.Seed,
) (*detector.DetectorResult, error) {
	bits, err := binarize(lum)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	return tryDetect(func() (*detector.DetectorResult, error) {
		if seed != nil {
			return detector.DetectWithSeed(bits, cfg, *seed)
		}
		return detector.Detect(bits, cfg)
	})
}

// tryDetect runs a detection but recovers from panics raised on malformed
// input, converting them to errors.
func tryDetect(detect func() (*detector.DetectorResult, error)) (result *detector.DetectorResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return detect()
}
