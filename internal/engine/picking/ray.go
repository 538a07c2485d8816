// Package picking provides ray casting against tooth boundary regions.
package picking

import (
	gomath "math"

	"github.com/Faultbox/prepview/internal/engine/planar"
	"github.com/Faultbox/prepview/pkg/math"
)

// parallelEpsilon is the |normal·direction| below which a ray is treated
// as parallel to a plane.
const parallelEpsilon = 1e-9

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float64, invViewProj math.Mat4) Ray {
	// Normalized device coords (-1 to 1), Y flipped.
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1.0, 1.0})

	near := perspectiveDivide(nearWorld)
	far := perspectiveDivide(farWorld)

	return NewRay(near, far.Sub(near))
}

func perspectiveDivide(v math.Vec4) math.Vec3 {
	if v[3] != 0 {
		return math.Vec3{X: v[0] / v[3], Y: v[1] / v[3], Z: v[2] / v[3]}
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// IntersectPlane intersects the ray with a plane. ok is false when the ray
// is parallel to the plane or the hit distance lies outside [near, far].
func (r Ray) IntersectPlane(p planar.Plane, near, far float64) (t float64, point math.Vec3, ok bool) {
	denom := p.Normal.Dot(r.Direction)
	if gomath.Abs(denom) < parallelEpsilon {
		return 0, math.Vec3{}, false
	}

	t = -p.SignedDistance(r.Origin) / denom
	if gomath.IsNaN(t) || t < near || t > far {
		return 0, math.Vec3{}, false
	}
	return t, r.At(t), true
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Expand returns the box grown by pad on every side.
func (box AABB) Expand(pad float64) AABB {
	d := math.Vec3{X: pad, Y: pad, Z: pad}
	return AABB{Min: box.Min.Sub(d), Max: box.Max.Add(d)}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float64, hit bool) {
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = gomath.Max(tmin, t1)
		tmax = gomath.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
