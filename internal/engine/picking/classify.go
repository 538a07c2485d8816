package picking

import (
	gomath "math"

	"github.com/Faultbox/prepview/pkg/math"
)

// zeroEdgeEpsilon guards the projection against zero-length edges.
const zeroEdgeEpsilon = 1e-12

// DefaultEdgeBuffer is the default near-edge tolerance in mesh units.
const DefaultEdgeBuffer = 1.0

// PointInPolygon tests if a point is inside a closed polygon using ray
// crossing parity. Points exactly on an edge may resolve either way.
func PointInPolygon(p math.Vec2, polygon []math.Vec2) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// DistanceToSegment returns the distance from p to segment ab.
func DistanceToSegment(p, a, b math.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < zeroEdgeEpsilon {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = gomath.Max(0, gomath.Min(1, t))
	return p.Distance(a.Add(ab.Scale(t)))
}

// DistanceToPolygon returns the minimum distance from p to the closed
// polygon outline. An empty polygon is infinitely far away.
func DistanceToPolygon(p math.Vec2, polygon []math.Vec2) float64 {
	switch len(polygon) {
	case 0:
		return gomath.Inf(1)
	case 1:
		return p.Distance(polygon[0])
	}

	best := gomath.Inf(1)
	n := len(polygon)
	for i := 0; i < n; i++ {
		d := DistanceToSegment(p, polygon[i], polygon[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

// Classification is the outcome of testing a point against a region outline.
type Classification struct {
	Inside   bool    // strictly inside by parity
	Distance float64 // distance to the outline
	Accepted bool    // inside, or within the edge buffer of the outline
}

// Classify tests p against polygon, accepting points inside it or within
// edgeBuffer of its outline.
func Classify(p math.Vec2, polygon []math.Vec2, edgeBuffer float64) Classification {
	c := Classification{
		Inside:   PointInPolygon(p, polygon),
		Distance: DistanceToPolygon(p, polygon),
	}
	c.Accepted = c.Inside || c.Distance <= edgeBuffer
	return c
}
