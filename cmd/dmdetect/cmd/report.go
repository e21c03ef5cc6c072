package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	dmdetect "github.com/ericlevine/dmdetect"
	"github.com/ericlevine/dmdetect/datamatrix/detector"
)

// Point is a corner in image coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Corners are the symbol corners in the detector's output order.
type Corners struct {
	TopLeft     Point `json:"top_left" yaml:"top_left"`
	BottomLeft  Point `json:"bottom_left" yaml:"bottom_left"`
	BottomRight Point `json:"bottom_right" yaml:"bottom_right"`
	TopRight    Point `json:"top_right" yaml:"top_right"`
}

// Report is the outcome of scanning one image.
type Report struct {
	File    string   `json:"file" yaml:"file"`
	Found   bool     `json:"found" yaml:"found"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
	Shape   string   `json:"shape,omitempty" yaml:"shape,omitempty"`
	Columns int      `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows    int      `json:"rows,omitempty" yaml:"rows,omitempty"`
	Corners *Corners `json:"corners,omitempty" yaml:"corners,omitempty"`
	Grid    []string `json:"grid,omitempty" yaml:"grid,omitempty"`

	notFound bool
}

func newReport(file string, result *detector.DetectorResult, err error) Report {
	if err != nil {
		return Report{File: file, Error: err.Error(), notFound: errors.Is(err, dmdetect.ErrNotFound)}
	}
	p := result.Points
	shape := "square"
	if result.Rectangular {
		shape = "rectangle"
	}
	return Report{
		File:    file,
		Found:   true,
		Shape:   shape,
		Columns: result.Bits.Width(),
		Rows:    result.Bits.Height(),
		Corners: &Corners{
			TopLeft:     Point{p[0].X, p[0].Y},
			BottomLeft:  Point{p[1].X, p[1].Y},
			BottomRight: Point{p[2].X, p[2].Y},
			TopRight:    Point{p[3].X, p[3].Y},
		},
		Grid: strings.Split(strings.TrimSuffix(result.Bits.StringWithChars("X", "."), "\n"), "\n"),
	}
}

// summary is the one line text form of a report.
func (r Report) summary() string {
	if !r.Found {
		return fmt.Sprintf("%s: %s", r.File, r.Error)
	}
	return fmt.Sprintf("%s: %dx%d %s", r.File, r.Columns, r.Rows, r.Shape)
}

func writeText(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, r.summary()); err != nil || !r.Found {
		return err
	}
	c := r.Corners
	for _, corner := range []struct {
		name string
		p    Point
	}{
		{"top-left", c.TopLeft},
		{"bottom-left", c.BottomLeft},
		{"bottom-right", c.BottomRight},
		{"top-right", c.TopRight},
	} {
		if _, err := fmt.Fprintf(w, "  %-13s (%.2f,%.2f)\n", corner.name, corner.p.X, corner.p.Y); err != nil {
			return err
		}
	}
	for _, row := range r.Grid {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}
