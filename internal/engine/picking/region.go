package picking

import (
	gomath "math"

	"github.com/Faultbox/prepview/internal/engine/planar"
	"github.com/Faultbox/prepview/pkg/math"
)

// Region is a ray-pickable proxy for one tooth boundary loop: the loop's
// fitted plane and frame plus its outline projected into that frame.
type Region struct {
	ToothID    string
	Frame      planar.Frame
	Polygon    []math.Vec2
	EdgeBuffer float64

	bounds AABB
}

// Hit is an accepted ray intersection with a region.
type Hit struct {
	Region   *Region
	Distance float64   // distance along the ray
	Point    math.Vec3 // world-space intersection
	Local    math.Vec2 // intersection in the region's 2D frame
	Inside   bool      // false when accepted only through the edge buffer
}

// ToothID returns the identifier of the region that was hit.
func (h Hit) ToothID() string {
	if h.Region == nil {
		return ""
	}
	return h.Region.ToothID
}

// NewRegion builds a region for a boundary loop. ok is false for loops
// with fewer than 3 points or without a usable plane; callers skip those.
func NewRegion(toothID string, loop []math.Vec3, edgeBuffer float64) (*Region, bool) {
	if len(loop) < 3 {
		return nil, false
	}
	frame, ok := planar.FitFrame(loop)
	if !ok {
		return nil, false
	}

	// Hits lie on the fitted plane, which may sit off the loop points by
	// the loop's non-planarity, so the box is padded by that too.
	plane := frame.Plane()
	box := NewAABB(loop[0], loop[0])
	var deviation float64
	for _, p := range loop {
		box = NewAABB(box.Min.Min(p), box.Max.Max(p))
		deviation = gomath.Max(deviation, gomath.Abs(plane.SignedDistance(p)))
	}

	return &Region{
		ToothID:    toothID,
		Frame:      frame,
		Polygon:    frame.ProjectLoop(loop),
		EdgeBuffer: edgeBuffer,
		bounds:     box.Expand(edgeBuffer + deviation),
	}, true
}

// Bounds returns a box containing every point the region can accept.
func (r *Region) Bounds() AABB {
	return r.bounds
}

// Plane returns the region's fitted plane.
func (r *Region) Plane() planar.Plane {
	return r.Frame.Plane()
}

// Intersect intersects ray with the region's plane within [near, far] and
// classifies the hit against the outline. A miss reports ok=false; it
// never fails.
func (r *Region) Intersect(ray Ray, near, far float64) (hit Hit, ok bool) {
	t, point, ok := ray.IntersectPlane(r.Plane(), near, far)
	if !ok {
		return Hit{}, false
	}

	local := r.Frame.Project2D(point)
	c := Classify(local, r.Polygon, r.EdgeBuffer)
	if !c.Accepted {
		return Hit{}, false
	}

	return Hit{
		Region:   r,
		Distance: t,
		Point:    point,
		Local:    local,
		Inside:   c.Inside,
	}, true
}
