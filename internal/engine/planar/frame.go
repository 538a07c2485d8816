package planar

import (
	gomath "math"

	"github.com/Faultbox/prepview/pkg/math"
)

// upParallelThreshold is the |normal·Y| at and above which world X is used
// as the reference axis instead of world Y.
const upParallelThreshold = 0.9

// Frame is an orthonormal right-handed frame embedded in a plane. Local X
// and Y span the plane; local Z is the plane normal (depth).
type Frame struct {
	Origin    math.Vec3
	Normal    math.Vec3
	Tangent   math.Vec3 // local X
	Bitangent math.Vec3 // local Y

	LocalToWorld math.Mat4
	WorldToLocal math.Mat4
}

// NewFrame builds a frame from a plane normal and origin. ok is false when
// the normal cannot be normalized or the transform is not invertible.
func NewFrame(normal, origin math.Vec3) (Frame, bool) {
	n := normal.Normalize()
	if n == (math.Vec3{}) || !n.IsFinite() || !origin.IsFinite() {
		return Frame{}, false
	}

	ref := math.UnitY
	if gomath.Abs(n.Dot(math.UnitY)) >= upParallelThreshold {
		ref = math.UnitX
	}
	tangent := n.Cross(ref).Normalize()
	bitangent := n.Cross(tangent).Normalize()

	localToWorld := math.FromBasis(tangent, bitangent, n, origin)
	worldToLocal, ok := localToWorld.Inverse()
	if !ok {
		return Frame{}, false
	}

	return Frame{
		Origin:       origin,
		Normal:       n,
		Tangent:      tangent,
		Bitangent:    bitangent,
		LocalToWorld: localToWorld,
		WorldToLocal: worldToLocal,
	}, true
}

// FitFrame fits a plane to a boundary loop with FitBoundary and builds its
// frame.
func FitFrame(points []math.Vec3) (Frame, bool) {
	plane, ok := FitBoundary(points)
	if !ok {
		return Frame{}, false
	}
	return NewFrame(plane.Normal, plane.Origin)
}

// Plane returns the plane the frame is embedded in.
func (f Frame) Plane() Plane {
	return Plane{Normal: f.Normal, Origin: f.Origin}
}
