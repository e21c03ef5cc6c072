package detector

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/ericlevine/dmdetect/transform"
)

// Form selects how the symbol shape is decided.
type Form int

const (
	// FormAuto treats a symbol as rectangular when its longer side has at
	// least 7/4 the modules of the shorter one.
	FormAuto Form = iota
	FormSquare
	FormRectangle
)

// String returns the configuration name of the form.
func (f Form) String() string {
	switch f {
	case FormSquare:
		return "square"
	case FormRectangle:
		return "rectangle"
	default:
		return "auto"
	}
}

// ParseForm parses "auto", "square" or "rectangle", ignoring case.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormAuto, nil
	case "square":
		return FormSquare, nil
	case "rectangle", "rectangular", "rect":
		return FormRectangle, nil
	}
	return FormAuto, fmt.Errorf("detector: unknown form %q (valid: auto, square, rectangle)", s)
}

// Config holds the tuning parameters of a detection. A Config must not be
// modified while a detection using it is running; distinct goroutines may
// share one.
type Config struct {
	// Form forces the symbol shape.
	Form Form

	// TransitionCorrection ignores color runs shorter than about half a
	// module (at most 4 pixels) when counting transitions.
	TransitionCorrection bool

	// ThreePointSampler classifies each scanned pixel by a majority vote
	// with its two neighbours across the scan line.
	ThreePointSampler bool

	// CorrectCornerPosition pulls the end points of a scan off the outer
	// module boundary, towards the inside of the symbol.
	CorrectCornerPosition bool

	// Dimension is the working module count assumed before any edge has
	// been measured.
	Dimension float64

	// SamplingCorrection insets the sampled grid from the corners, in
	// modules. SamplingCorrectionTop applies to the top edge only.
	SamplingCorrection    float64
	SamplingCorrectionTop float64

	// InitSize is the side of the seed box the rectangle search grows from.
	InitSize int

	// CornerInset moves each raw corner towards the box interior, in pixels.
	CornerInset float64

	// Sampler reads the rectified grid. Nil means transform.DefaultGridSampler.
	Sampler transform.GridSampler

	// Logger receives a debug trace of each detection. Nil disables it.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Form:                  FormAuto,
		TransitionCorrection:  true,
		ThreePointSampler:     true,
		CorrectCornerPosition: true,
		Dimension:             50,
		SamplingCorrection:    0.2,
		SamplingCorrectionTop: 0.4,
		InitSize:              10,
	}
}

// Validate reports parameters no detection could work with. NaN fails
// every check.
func (c Config) Validate() error {
	switch {
	case c.Form < FormAuto || c.Form > FormRectangle:
		return fmt.Errorf("detector: invalid form %d", c.Form)
	case math.IsNaN(c.Dimension) || math.IsInf(c.Dimension, 0) || c.Dimension <= 0:
		return fmt.Errorf("detector: dimension must be positive, got %g", c.Dimension)
	case math.IsNaN(c.SamplingCorrection) || c.SamplingCorrection < 0 || c.SamplingCorrection >= 1:
		return fmt.Errorf("detector: sampling correction must be in [0,1), got %g", c.SamplingCorrection)
	case math.IsNaN(c.SamplingCorrectionTop) || c.SamplingCorrectionTop < 0 || c.SamplingCorrectionTop >= 1:
		return fmt.Errorf("detector: top sampling correction must be in [0,1), got %g", c.SamplingCorrectionTop)
	case math.IsNaN(c.CornerInset) || math.IsInf(c.CornerInset, 0):
		return fmt.Errorf("detector: corner inset must be finite, got %g", c.CornerInset)
	case c.InitSize < 2:
		return fmt.Errorf("detector: init size must be at least 2, got %d", c.InitSize)
	}
	return nil
}

func (c *Config) sampler() transform.GridSampler {
	if c.Sampler == nil {
		return transform.DefaultGridSampler{}
	}
	return c.Sampler
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return c.Logger
}
