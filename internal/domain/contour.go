package domain

import "math"

// Polyline is an ordered run of points along one isoline.
type Polyline []GeoPoint

// Contour holds every polyline extracted for one probability level.
type Contour struct {
	Level float64    `json:"level"`
	Lines []Polyline `json:"lines"`
}

const (
	// flatEdgeEpsilon treats near-equal corner probabilities as "no
	// crossing", which also guards the interpolation division.
	flatEdgeEpsilon = 0.001
	// stitchTolerance is the endpoint matching distance, in degrees.
	stitchTolerance = 0.0001
)

// segment is one cell's contribution to an isoline: an unordered pair of
// edge crossings, consumed immediately by stitching.
type segment struct {
	a, b GeoPoint
}

// ExtractContours computes isolines for every level 0, interval,
// 2·interval, … ≤ 100 over a complete grid. Levels that produce no
// polyline are omitted. A malformed grid or non-positive interval yields
// nil rather than an error: there is nothing to draw.
func ExtractContours(grid Grid, interval float64) []Contour {
	if len(grid) != GridSize*GridSize || interval <= 0 {
		return nil
	}

	var contours []Contour
	for n := 0; ; n++ {
		// Multiply instead of accumulating so fractional intervals
		// cannot drift past 100.
		level := float64(n) * interval
		if level > 100 {
			break
		}
		lines := stitchSegments(levelSegments(grid, level))
		if len(lines) > 0 {
			contours = append(contours, Contour{Level: level, Lines: lines})
		}
	}
	return contours
}

// levelSegments classifies every 2×2 block of the grid against one level.
// Blocks touching a NaN sample are skipped entirely for this level.
func levelSegments(grid Grid, level float64) []segment {
	var segs []segment
	for i := 0; i < GridSize-1; i++ {
		for j := 0; j < GridSize-1; j++ {
			p1 := grid.At(i, j)
			p2 := grid.At(i, j+1)
			p3 := grid.At(i+1, j)
			p4 := grid.At(i+1, j+1)

			if math.IsNaN(p1.Probability) || math.IsNaN(p2.Probability) ||
				math.IsNaN(p3.Probability) || math.IsNaN(p4.Probability) {
				continue
			}
			segs = append(segs, cellSegments(level, p1, p2, p3, p4)...)
		}
	}
	return segs
}

// cellSegments emits the isoline segments for one block. Corner layout and
// bit order (v1 + 2·v2 + 4·v4 + 8·v3) are documented in the package doc;
// the case table below depends on that exact ordering.
func cellSegments(level float64, p1, p2, p3, p4 SamplePoint) []segment {
	caseIndex := 0
	if p1.Probability >= level {
		caseIndex |= 1
	}
	if p2.Probability >= level {
		caseIndex |= 2
	}
	if p4.Probability >= level {
		caseIndex |= 4
	}
	if p3.Probability >= level {
		caseIndex |= 8
	}

	var segs []segment
	join := func(a1, a2, b1, b2 SamplePoint) {
		p, pok := edgeCrossing(level, a1, a2)
		q, qok := edgeCrossing(level, b1, b2)
		if pok && qok {
			segs = append(segs, segment{a: p, b: q})
		}
	}

	switch caseIndex {
	case 0, 15:
		// Fully inside or outside.
	case 1, 14:
		join(p1, p3, p1, p2)
	case 2, 13:
		join(p1, p2, p2, p4)
	case 3, 12:
		join(p1, p3, p2, p4)
	case 4, 11:
		join(p2, p4, p3, p4)
	case 6, 9:
		join(p1, p2, p3, p4)
	case 7, 8:
		join(p1, p3, p3, p4)
	case 5, 10:
		// Saddle: diagonally opposite corners on each side of the level.
		// Always split into two independent segments; the pairing is never
		// resolved by the cell center value, keeping output stable.
		join(p1, p2, p1, p3)
		join(p2, p4, p3, p4)
	}
	return segs
}

// edgeCrossing interpolates where the level crosses the edge between two
// samples. A flat edge (|Δ| < flatEdgeEpsilon) has no crossing.
func edgeCrossing(level float64, a, b SamplePoint) (GeoPoint, bool) {
	delta := b.Probability - a.Probability
	if math.Abs(delta) < flatEdgeEpsilon {
		return GeoPoint{}, false
	}
	ratio := (level - a.Probability) / delta
	return GeoPoint{
		Lat: a.Lat + (b.Lat-a.Lat)*ratio,
		Lng: a.Lng + (b.Lng-a.Lng)*ratio,
	}, true
}

// stitchSegments greedily assembles unordered segments into maximal
// polylines. Each unused segment seeds a line, which grows at both ends by
// attaching any segment whose endpoint falls within stitchTolerance of the
// line's first or last point. Sweeps repeat until a full pass attaches
// nothing, so attachment order does not matter. Quadratic per sweep, which
// is fine at the fixed grid resolution.
func stitchSegments(segs []segment) []Polyline {
	used := make([]bool, len(segs))

	var lines []Polyline
	for seed := range segs {
		if used[seed] {
			continue
		}
		used[seed] = true
		line := Polyline{segs[seed].a, segs[seed].b}

		for {
			attached := false
			for k := range segs {
				if used[k] {
					continue
				}
				first, last := line[0], line[len(line)-1]
				switch {
				case nearlyEqual(segs[k].a, last):
					line = append(line, segs[k].b)
				case nearlyEqual(segs[k].b, last):
					line = append(line, segs[k].a)
				case nearlyEqual(segs[k].a, first):
					line = append(Polyline{segs[k].b}, line...)
				case nearlyEqual(segs[k].b, first):
					line = append(Polyline{segs[k].a}, line...)
				default:
					continue
				}
				used[k] = true
				attached = true
			}
			if !attached {
				break
			}
		}

		if len(line) >= 2 {
			lines = append(lines, line)
		}
	}
	return lines
}

// nearlyEqual reports whether two points coincide within stitchTolerance,
// measured Euclidean in degree space like every distance in this package.
func nearlyEqual(a, b GeoPoint) bool {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng) < stitchTolerance
}
