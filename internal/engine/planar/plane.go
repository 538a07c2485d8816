// Package planar fits planes to boundary loops and maps points between
// world space and a 2D frame embedded in the fitted plane.
package planar

import (
	gomath "math"

	"github.com/Faultbox/prepview/pkg/math"
)

// minNormalLength is the accumulator length below which a loop is treated
// as collinear and no plane is produced.
const minNormalLength = 1e-12

// Plane is a fitted plane through Origin with unit Normal.
type Plane struct {
	Normal math.Vec3
	Origin math.Vec3 // centroid of the fitted points
}

// D returns the plane constant such that Normal·p + D = 0 on the plane.
func (p Plane) D() float64 {
	return -p.Normal.Dot(p.Origin)
}

// SignedDistance returns the signed distance from pt to the plane.
func (p Plane) SignedDistance(pt math.Vec3) float64 {
	return p.Normal.Dot(pt) + p.D()
}

// FitPlane computes a best-fit plane using Newell's method. Consecutive
// point pairs (wrapping last to first) contribute to the normal, so the
// result tolerates concave, mildly non-planar and arbitrarily wound loops.
// Reversing the point order flips the normal.
//
// ok is false for fewer than 3 points or when the accumulated normal is too
// short to normalize (collinear or coincident points).
func FitPlane(points []math.Vec3) (plane Plane, ok bool) {
	if len(points) < 3 {
		return Plane{}, false
	}

	normal, centroid := newell(points)
	length := normal.Length()
	if length < minNormalLength || !normal.IsFinite() {
		return Plane{}, false
	}

	return Plane{
		Normal: normal.Scale(1 / length),
		Origin: centroid,
	}, true
}

// newell returns the unnormalized Newell normal, whose length is twice the
// area the loop encloses, and the centroid of points.
func newell(points []math.Vec3) (normal, centroid math.Vec3) {
	n := len(points)
	var sum math.Vec3
	for i, cur := range points {
		next := points[(i+1)%n]
		normal.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		normal.Y += (cur.Z - next.Z) * (cur.X + next.X)
		normal.Z += (cur.X - next.X) * (cur.Y + next.Y)
		sum = sum.Add(cur)
	}
	return normal, sum.Scale(1 / float64(n))
}

// FitBoundary fits the plane of a boundary loop whose point order may be
// scrambled. It uses Newell's normal when the loop encloses a real area in
// the given order. When the contributions cancel, as for a bowtie-ordered
// square, it falls back to FitLeastSquares and orients the normal so that
// its largest component is positive. ok is false only when the points do
// not span a plane.
func FitBoundary(points []math.Vec3) (Plane, bool) {
	if len(points) < 3 {
		return Plane{}, false
	}

	normal, centroid := newell(points)
	b := math.EmptyBounds()
	for _, p := range points {
		b.Extend(p)
	}
	extent := b.Size().Length()
	length := normal.Length()
	if normal.IsFinite() && length >= minNormalLength && length >= minAreaRatio*extent*extent {
		return Plane{Normal: normal.Scale(1 / length), Origin: centroid}, true
	}

	plane, ok := FitLeastSquares(points)
	if !ok {
		return Plane{}, false
	}
	plane.Normal = orient(plane.Normal)
	return plane, true
}

// minAreaRatio is the smallest Newell length, relative to the squared
// extent of the points, that FitBoundary trusts.
const minAreaRatio = 1e-6

// orient flips n so that its largest-magnitude component is positive.
func orient(n math.Vec3) math.Vec3 {
	a := n.Array()
	best := 0
	for i := 1; i < 3; i++ {
		if gomath.Abs(a[i]) > gomath.Abs(a[best]) {
			best = i
		}
	}
	if a[best] < 0 {
		return n.Negate()
	}
	return n
}
