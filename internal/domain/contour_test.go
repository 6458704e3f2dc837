package domain

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridFromFunc builds a full grid whose probability is a function of the
// cell indices, with 0.001-degree cell spacing (well above the stitching
// tolerance, so only genuinely shared crossings join).
func gridFromFunc(f func(i, j int) float64) Grid {
	grid := make(Grid, 0, GridSize*GridSize)
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			grid = append(grid, SamplePoint{
				Lat:         float64(i) * 0.001,
				Lng:         float64(j) * 0.001,
				Probability: f(i, j),
			})
		}
	}
	return grid
}

func TestExtractContours_DegenerateInputs(t *testing.T) {
	grid := gridFromFunc(func(i, j int) float64 { return 50 })

	assert.Nil(t, ExtractContours(grid, 0))
	assert.Nil(t, ExtractContours(grid, -10))
	assert.Nil(t, ExtractContours(grid[:10], 10))
	assert.Nil(t, ExtractContours(nil, 10))
}

func TestExtractContours_FlatField(t *testing.T) {
	grid := gridFromFunc(func(i, j int) float64 { return 42 })

	// Every edge delta is below the flat-edge guard; no crossings, no
	// division blow-up.
	assert.Empty(t, ExtractContours(grid, 10))
}

func TestExtractContours_FieldBelowLowestLevel(t *testing.T) {
	grid := gridFromFunc(func(i, j int) float64 { return 3 + 0.05*float64(i) })

	// Level 0 has every corner above, every higher level has every corner
	// below: nothing to draw.
	assert.Empty(t, ExtractContours(grid, 10))
}

func TestExtractContours_VerticalBoundary(t *testing.T) {
	grid := gridFromFunc(func(i, j int) float64 {
		if j < 15 {
			return 10
		}
		return 90
	})

	contours := ExtractContours(grid, 10)
	require.Len(t, contours, 8) // levels 20..90

	for n, c := range contours {
		assert.Equal(t, float64(20+10*n), c.Level)
		require.Len(t, c.Lines, 1, "level %v should stitch into one polyline", c.Level)

		line := c.Lines[0]
		require.Len(t, line, GridSize, "29 chained segments yield 30 points")
		for k, pt := range line {
			// Crossings sit on the j=14..15 edge.
			assert.GreaterOrEqual(t, pt.Lng, 0.014)
			assert.LessOrEqual(t, pt.Lng, 0.015)
			if k > 0 {
				// Consecutive points are adjacent row crossings.
				assert.InDelta(t, 0.001, math.Abs(pt.Lat-line[k-1].Lat), 1e-9)
			}
		}
	}
}

func TestExtractContours_NaNCellsSkipped(t *testing.T) {
	grid := gridFromFunc(func(i, j int) float64 {
		if i >= 10 && i <= 12 && j >= 10 && j <= 12 {
			return math.NaN()
		}
		if j < 15 {
			return 10
		}
		return 90
	})

	contours := ExtractContours(grid, 10)
	require.NotEmpty(t, contours)
	for _, c := range contours {
		for _, line := range c.Lines {
			for _, pt := range line {
				require.False(t, math.IsNaN(pt.Lat))
				require.False(t, math.IsNaN(pt.Lng))
			}
		}
	}
}

func TestCellSegments_SaddleSplitsFixed(t *testing.T) {
	pt := func(i, j int, prob float64) SamplePoint {
		return SamplePoint{Lat: float64(i), Lng: float64(j), Probability: prob}
	}

	t.Run("case 5: p1 and p4 above", func(t *testing.T) {
		segs := cellSegments(50, pt(0, 0, 90), pt(0, 1, 10), pt(1, 0, 10), pt(1, 1, 90))
		require.Len(t, segs, 2)

		want := []segment{
			{a: GeoPoint{Lat: 0, Lng: 0.5}, b: GeoPoint{Lat: 0.5, Lng: 0}},
			{a: GeoPoint{Lat: 0.5, Lng: 1}, b: GeoPoint{Lat: 1, Lng: 0.5}},
		}
		assert.Empty(t, cmp.Diff(want, segs, cmp.AllowUnexported(segment{})))

		// The two segments must stay disjoint: two 2-point polylines,
		// never one joined 4-point line.
		lines := stitchSegments(segs)
		require.Len(t, lines, 2)
		assert.Len(t, lines[0], 2)
		assert.Len(t, lines[1], 2)
	})

	t.Run("case 10: p2 and p3 above", func(t *testing.T) {
		segs := cellSegments(50, pt(0, 0, 10), pt(0, 1, 90), pt(1, 0, 90), pt(1, 1, 10))
		require.Len(t, segs, 2)

		lines := stitchSegments(segs)
		require.Len(t, lines, 2)
	})
}

func TestCellSegments_SingleCornerCases(t *testing.T) {
	pt := func(i, j int, prob float64) SamplePoint {
		return SamplePoint{Lat: float64(i), Lng: float64(j), Probability: prob}
	}

	tests := []struct {
		name           string
		p1, p2, p3, p4 float64
		wantSegs       int
	}{
		{name: "all below", p1: 10, p2: 10, p3: 10, p4: 10, wantSegs: 0},
		{name: "all above", p1: 90, p2: 90, p3: 90, p4: 90, wantSegs: 0},
		{name: "p1 above", p1: 90, p2: 10, p3: 10, p4: 10, wantSegs: 1},
		{name: "p2 above", p1: 10, p2: 90, p3: 10, p4: 10, wantSegs: 1},
		{name: "p3 above", p1: 10, p2: 10, p3: 90, p4: 10, wantSegs: 1},
		{name: "p4 above", p1: 10, p2: 10, p3: 10, p4: 90, wantSegs: 1},
		{name: "top row above", p1: 90, p2: 90, p3: 10, p4: 10, wantSegs: 1},
		{name: "left column above", p1: 90, p2: 10, p3: 90, p4: 10, wantSegs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := cellSegments(50, pt(0, 0, tt.p1), pt(0, 1, tt.p2), pt(1, 0, tt.p3), pt(1, 1, tt.p4))
			assert.Len(t, segs, tt.wantSegs)
		})
	}
}

func TestCellSegments_FlatEdgeSuppressesSegment(t *testing.T) {
	pt := func(i, j int, prob float64) SamplePoint {
		return SamplePoint{Lat: float64(i), Lng: float64(j), Probability: prob}
	}

	// p1 is above the level but both of its edges are flat: the would-be
	// crossings are suppressed and no half-built segment leaks out.
	segs := cellSegments(50, pt(0, 0, 50.0004), pt(0, 1, 49.9998), pt(1, 0, 49.9996), pt(1, 1, 10))
	assert.Empty(t, segs)
}

func TestStitchSegments_AttachmentOrderIndependent(t *testing.T) {
	p := func(lat, lng float64) GeoPoint { return GeoPoint{Lat: lat, Lng: lng} }

	// The middle segment is listed last: the bridge only appears on the
	// second sweep, exercising the pass-to-fixpoint loop.
	segs := []segment{
		{a: p(0, 0), b: p(0, 1)},
		{a: p(0, 2), b: p(0, 3)},
		{a: p(0, 1), b: p(0, 2)},
	}

	lines := stitchSegments(segs)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 4)
	assert.Equal(t, p(0, 0), lines[0][0])
	assert.Equal(t, p(0, 3), lines[0][3])
}

func TestStitchSegments_PrependsAtLineStart(t *testing.T) {
	p := func(lat, lng float64) GeoPoint { return GeoPoint{Lat: lat, Lng: lng} }

	segs := []segment{
		{a: p(0, 1), b: p(0, 2)},
		{a: p(0, 0), b: p(0, 1)}, // attaches to the seed's first point
	}

	lines := stitchSegments(segs)
	require.Len(t, lines, 1)
	assert.Equal(t, Polyline{p(0, 0), p(0, 1), p(0, 2)}, lines[0])
}

func TestStitchSegments_DistantSegmentsStaySeparate(t *testing.T) {
	p := func(lat, lng float64) GeoPoint { return GeoPoint{Lat: lat, Lng: lng} }

	segs := []segment{
		{a: p(0, 0), b: p(0, 1)},
		{a: p(5, 5), b: p(5, 6)},
	}

	lines := stitchSegments(segs)
	assert.Len(t, lines, 2)
}

func TestExtractContours_GeneratedField(t *testing.T) {
	params, err := ParamsFor(ModelFieldCalibrated)
	require.NoError(t, err)

	grid := GenerateField(GeoPoint{Lat: 35.6895, Lng: 139.6917}, 2, 25, 85, params)
	contours := ExtractContours(grid, 10)
	require.NotEmpty(t, contours)

	levels := make(map[float64]bool)
	for _, c := range contours {
		levels[c.Level] = true
		require.NotEmpty(t, c.Lines)
		for _, line := range c.Lines {
			require.GreaterOrEqual(t, len(line), 2)
		}
	}
	// Mean probability for these conditions sits near 60%; the bracketing
	// level must be present.
	assert.True(t, levels[60], "levels seen: %v", levels)
}
