// Package world provides the hex grid, terrain, units, cities, and the
// in-memory world model consumed by the tactical layer.
// Uses axial coordinates (q, r) for the hex grid.
package world

import (
	"fmt"
	"math"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// String renders the coordinate as "(q,r)".
func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Adjacent reports whether two coordinates share an edge.
func (h HexCoord) Adjacent(o HexCoord) bool {
	return Distance(h, o) == 1
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

// Ring returns every coordinate at exactly the given distance from center,
// in a fixed walk order. Radius 0 returns the center alone.
func Ring(center HexCoord, radius int) []HexCoord {
	if radius <= 0 {
		return []HexCoord{center}
	}
	out := make([]HexCoord, 0, 6*radius)
	dir := HexNeighborDirections[4]
	cur := HexCoord{Q: center.Q + dir.Q*radius, R: center.R + dir.R*radius}
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			out = append(out, cur)
			d := HexNeighborDirections[side]
			cur = HexCoord{Q: cur.Q + d.Q, R: cur.R + d.R}
		}
	}
	return out
}

// Spiral returns the center followed by every ring out to radius.
func Spiral(center HexCoord, radius int) []HexCoord {
	out := []HexCoord{center}
	for r := 1; r <= radius; r++ {
		out = append(out, Ring(center, r)...)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Line returns the coordinates on the straight hex line from a to b,
// inclusive of both ends.
func Line(a, b HexCoord) []HexCoord {
	n := Distance(a, b)
	out := make([]HexCoord, 0, n+1)
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		q := float64(a.Q) + (float64(b.Q-a.Q))*t + 1e-6
		r := float64(a.R) + (float64(b.R-a.R))*t + 1e-6
		out = append(out, roundHex(q, r))
	}
	return out
}

func roundHex(fq, fr float64) HexCoord {
	fs := -fq - fr
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)
	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)
	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return HexCoord{Q: int(q), R: int(r)}
}
