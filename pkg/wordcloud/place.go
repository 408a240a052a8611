package wordcloud

import "math"

// DefaultCandidates is the number of random candidates scored per accepted
// point by the best-candidate heuristic.
const DefaultCandidates = 14

// Point is a placement position: X is a fraction of the canvas width, Y an
// absolute document offset in pixels.
type Point struct {
	X float64
	Y float64
}

// LeftPercent returns X as a rounded percentage of the width.
func (p Point) LeftPercent() int { return int(math.Round(p.X * 100)) }

// DocY returns Y rounded to whole pixels.
func (p Point) DocY() int { return int(math.Round(p.Y)) }

// Place spreads count points over a document of documentHeight pixels.
//
// The document is cut into slices one viewport tall and the points are shared
// evenly between slices (earlier slices take the remainder). Inside a slice
// each point is the best of k random candidates: the one whose nearest
// already-accepted neighbour is farthest away (Mitchell's best-candidate).
// Vertical distances are normalised by the slice height so tall slices do
// not dominate. Work stays bounded by the points in one slice.
func Place(count int, documentHeight, viewportHeight float64, rnd Source, k int) []Point {
	if count <= 0 {
		return nil
	}
	if k < 1 {
		k = DefaultCandidates
	}
	documentHeight = max(0, documentHeight)
	if viewportHeight <= 0 {
		viewportHeight = max(1, documentHeight)
	}

	slices := max(1, int(math.Ceil(documentHeight/viewportHeight)))
	base := count / slices
	rem := count - base*slices

	pts := make([]Point, 0, count)
	for s := 0; s < slices; s++ {
		y0 := float64(s) * viewportHeight
		y1 := math.Min(float64(s+1)*viewportHeight, documentHeight)
		span := math.Max(0, y1-y0)
		sliceH := math.Max(1, span)

		n := base
		if rem > 0 {
			n++
			rem--
		}

		local := make([]Point, 0, n)
		for i := 0; i < n; i++ {
			var best Point
			bestD := -1.0
			for c := 0; c < k; c++ {
				cand := Point{X: rnd.Float64(), Y: y0 + rnd.Float64()*span}
				d := nearest(cand, local, sliceH)
				if d > bestD {
					bestD = d
					best = cand
				}
			}
			local = append(local, best)
		}
		pts = append(pts, local...)
	}
	return pts
}

// nearest returns the squared distance from p to its closest neighbour in
// accepted, or +Inf when accepted is empty.
func nearest(p Point, accepted []Point, sliceH float64) float64 {
	minD := math.Inf(1)
	for _, q := range accepted {
		dx := p.X - q.X
		dy := (p.Y - q.Y) / sliceH
		d := dx*dx + dy*dy
		if d < minD {
			minD = d
			if minD == 0 {
				break
			}
		}
	}
	return minD
}
