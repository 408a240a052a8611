package wordcloud

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceScenarioC(t *testing.T) {
	t.Parallel()

	const seed = 1234
	pts := Place(5, 800, 800, NewMulberry32(seed), DefaultCandidates)
	require.Len(t, pts, 5)
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, 800.0)
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 1.0)
	}

	again := Place(5, 800, 800, NewMulberry32(seed), DefaultCandidates)
	assert.Equal(t, pts, again)
}

func TestPlaceCountAndRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		count     int
		docH, vpH float64
	}{
		{"single slice", 30, 800, 800},
		{"partial last slice", 41, 2150, 800},
		{"more slices than points", 3, 8000, 800},
		{"zero document", 4, 0, 800},
		{"no viewport", 6, 1000, 0},
		{"negative document", 2, -50, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pts := Place(tt.count, tt.docH, tt.vpH, NewMulberry32(5), DefaultCandidates)
			require.Len(t, pts, tt.count)
			limit := math.Max(0, tt.docH)
			for _, p := range pts {
				require.GreaterOrEqual(t, p.Y, 0.0)
				require.LessOrEqual(t, p.Y, limit)
			}
		})
	}
}

func TestPlaceEmpty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Place(0, 800, 800, NewMulberry32(1), DefaultCandidates))
	assert.Nil(t, Place(-3, 800, 800, NewMulberry32(1), DefaultCandidates))
}

func TestPlaceDistributesAcrossSlices(t *testing.T) {
	t.Parallel()

	// 3 slices: 800, 800, 400 px. 10 points → 4, 3, 3.
	pts := Place(10, 2000, 800, NewMulberry32(9), DefaultCandidates)
	perSlice := make([]int, 3)
	for i, p := range pts {
		s := int(p.Y / 800)
		perSlice[s]++
		// Points are emitted slice by slice.
		if i > 0 {
			require.GreaterOrEqual(t, s, int(pts[i-1].Y/800))
		}
	}
	assert.Equal(t, []int{4, 3, 3}, perSlice)
}

func TestPlaceNoCoincidentPointsInSlice(t *testing.T) {
	t.Parallel()

	pts := Place(60, 800, 800, NewMulberry32(77), DefaultCandidates)
	seen := map[Point]bool{}
	for _, p := range pts {
		require.False(t, seen[p], "coincident point %+v", p)
		seen[p] = true
	}
}

func TestPlaceBestCandidateSpreadsPoints(t *testing.T) {
	t.Parallel()

	minDist := func(pts []Point) float64 {
		best := math.Inf(1)
		for i := range pts {
			for j := i + 1; j < len(pts); j++ {
				dx := pts[i].X - pts[j].X
				dy := (pts[i].Y - pts[j].Y) / 800
				best = math.Min(best, dx*dx+dy*dy)
			}
		}
		return best
	}

	// Averaged over seeds, k=14 must beat plain uniform sampling (k=1).
	var spread, uniform float64
	for seed := uint32(1); seed <= 20; seed++ {
		spread += minDist(Place(25, 800, 800, NewMulberry32(seed), DefaultCandidates))
		uniform += minDist(Place(25, 800, 800, NewMulberry32(seed), 1))
	}
	assert.Greater(t, spread, uniform)
}

func TestPointRounding(t *testing.T) {
	t.Parallel()
	p := Point{X: 0.456, Y: 99.5}
	assert.Equal(t, 46, p.LeftPercent())
	assert.Equal(t, 100, p.DocY())
}
