package detector

import (
	"fmt"
	"sort"

	dmdetect "github.com/ericlevine/dmdetect"
)

// corners are the symbol corners by role. topRight is the raw point found
// by the rectangle search; it is corrected separately.
type corners struct {
	topLeft, bottomLeft, bottomRight, topRight dmdetect.ResultPoint
}

// edge is a transition count measured between two raw corners, identified
// by their index.
type edge struct {
	from, to    int
	transitions int
}

// adjacentPairs are the sides of the quadrilateral in bootstrapper order:
// raw[0] is diagonally opposite raw[3], and raw[1] is opposite raw[2].
var adjacentPairs = [4][2]int{{1, 0}, {0, 2}, {1, 3}, {3, 2}}

// classifyCorners assigns roles to the four raw corners. The two sides with
// the fewest transitions form the solid "L"; the corner they share is
// bottom-left, and the corner on neither of them is top-right.
func (d *detector) classifyCorners(raw [4]dmdetect.ResultPoint) (corners, error) {
	edges := make([]edge, 0, len(adjacentPairs))
	for _, p := range adjacentPairs {
		edges = append(edges, edge{
			from:        p[0],
			to:          p[1],
			transitions: d.transitionsBetween(raw[p[0]], raw[p[1]]),
		})
	}
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].transitions < edges[j].transitions
	})

	var tally [4]int
	for _, e := range edges[:2] {
		tally[e.from]++
		tally[e.to]++
	}
	shared, topRight := -1, -1
	var ends []int
	for i, n := range tally {
		switch n {
		case 2:
			shared = i
		case 1:
			ends = append(ends, i)
		case 0:
			topRight = i
		}
	}
	if shared < 0 || topRight < 0 || len(ends) != 2 {
		return corners{}, fmt.Errorf("%w: solid sides do not share a corner (tally %v)", dmdetect.ErrNotFound, tally)
	}

	ordered, err := dmdetect.OrderBestPatterns([3]dmdetect.ResultPoint{raw[ends[0]], raw[shared], raw[ends[1]]})
	if err != nil {
		return corners{}, fmt.Errorf("%w: %w", dmdetect.ErrNotFound, err)
	}
	c := corners{
		bottomRight: ordered[0],
		bottomLeft:  ordered[1],
		topLeft:     ordered[2],
		topRight:    raw[topRight],
	}
	d.log.Debug("corners classified",
		"edges", edges,
		"topLeft", c.topLeft, "bottomLeft", c.bottomLeft,
		"bottomRight", c.bottomRight, "topRight", c.topRight)
	return c, nil
}
