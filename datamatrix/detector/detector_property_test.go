package detector

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/bitutil"
	"github.com/ericlevine/dmdetect/internal/testutil"
)

// symbolSizes are the module counts (cols, rows) the generators pick from.
var symbolSizes = [][2]int{{10, 10}, {12, 12}, {14, 14}, {16, 16}, {18, 8}, {26, 12}, {8, 18}}

func randomImage(seed int64, size int) *bitutil.BitMatrix {
	rnd := rand.New(rand.NewSource(seed))
	bm := bitutil.NewBitMatrix(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if rnd.Intn(2) == 1 {
				bm.Set(x, y)
			}
		}
	}
	return bm
}

func randomSymbol(seed uint32, sizeIndex, scale int, angle float64) *bitutil.BitMatrix {
	cols, rows := symbolSizes[sizeIndex][0], symbolSizes[sizeIndex][1]
	r := testutil.Render{Width: cols*scale + 40, Height: rows*scale + 40, Scale: scale, Angle: angle}
	return r.Draw(testutil.Symbol(cols, rows, seed))
}

// TestTransitions_Symmetric verifies the count does not depend on the scan
// direction.
func TestTransitions_Symmetric(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("transitionsBetween(a, b) == transitionsBetween(b, a)", prop.ForAll(
		func(seed int64, ax, ay, bx, by float64, pa, pb int) bool {
			if ax == bx {
				return true
			}
			d := newTestDetector(randomImage(seed, 40), DefaultConfig())
			a := dmdetect.ResultPoint{X: ax, Y: ay, Position: dmdetect.Position(pa)}
			b := dmdetect.ResultPoint{X: bx, Y: by, Position: dmdetect.Position(pb)}
			return d.transitionsBetween(a, b) == d.transitionsBetween(b, a)
		},
		gen.Int64(),
		gen.Float64Range(0, 39), gen.Float64Range(0, 39),
		gen.Float64Range(0, 39), gen.Float64Range(0, 39),
		gen.IntRange(0, 4), gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}

// TestDetect_Idempotent verifies repeated detections agree and leave the
// image untouched.
func TestDetect_Idempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Detect is deterministic", prop.ForAll(
		func(seed uint32, sizeIndex, scale int, angle float64) bool {
			img := randomSymbol(seed, sizeIndex, scale, angle)
			before := img.Clone()

			first, err1 := Detect(img, nil)
			second, err2 := Detect(img, nil)
			if !img.Equals(before) {
				return false
			}
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil && err1.Error() == err2.Error()
			}
			if !first.Bits.Equals(second.Bits) || len(first.Points) != len(second.Points) {
				return false
			}
			for i := range first.Points {
				if first.Points[i] != second.Points[i] {
					return false
				}
			}
			return true
		},
		gen.UInt32(),
		gen.IntRange(0, len(symbolSizes)-1),
		gen.IntRange(5, 7),
		gen.Float64Range(-3, 3),
	))

	properties.TestingRun(t)
}

// TestDetect_ResultShape verifies every successful detection yields an even
// grid of at least 8 modules per side and four distinct corners inside the
// image.
func TestDetect_ResultShape(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("dimensions even and >= 8, corners distinct and in bounds", prop.ForAll(
		func(seed uint32, sizeIndex, scale int, angle float64) bool {
			img := randomSymbol(seed, sizeIndex, scale, angle)
			result, err := Detect(img, nil)
			if err != nil {
				return true
			}
			w, h := result.Bits.Width(), result.Bits.Height()
			if w < minDimension || h < minDimension || w%2 != 0 || h%2 != 0 {
				return false
			}
			if len(result.Points) != 4 {
				return false
			}
			for i, p := range result.Points {
				if p.X < 0 || p.Y < 0 || p.X >= float64(img.Width()) || p.Y >= float64(img.Height()) {
					return false
				}
				for _, q := range result.Points[:i] {
					if p.X == q.X && p.Y == q.Y {
						return false
					}
				}
			}
			return true
		},
		gen.UInt32(),
		gen.IntRange(0, len(symbolSizes)-1),
		gen.IntRange(5, 7),
		gen.Float64Range(-3, 3),
	))

	properties.TestingRun(t)
}
