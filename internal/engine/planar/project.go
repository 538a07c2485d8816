package planar

import "github.com/Faultbox/prepview/pkg/math"

// ToLocal maps a world point into the frame. Z is the signed depth along
// the normal.
func (f Frame) ToLocal(p math.Vec3) math.Vec3 {
	return f.WorldToLocal.TransformPoint(p)
}

// ToWorld maps a local point (X, Y in-plane, Z depth) back to world space.
func (f Frame) ToWorld(p math.Vec3) math.Vec3 {
	return f.LocalToWorld.TransformPoint(p)
}

// Project2D drops a world point onto the plane and returns its 2D coordinates.
func (f Frame) Project2D(p math.Vec3) math.Vec2 {
	l := f.ToLocal(p)
	return math.Vec2{X: l.X, Y: l.Y}
}

// Unproject2D returns the world point on the plane at 2D coordinates p.
func (f Frame) Unproject2D(p math.Vec2) math.Vec3 {
	return f.ToWorld(math.Vec3{X: p.X, Y: p.Y})
}

// ProjectLoop projects every point of a loop into the frame's 2D space.
func (f Frame) ProjectLoop(points []math.Vec3) []math.Vec2 {
	out := make([]math.Vec2, len(points))
	for i, p := range points {
		out[i] = f.Project2D(p)
	}
	return out
}
