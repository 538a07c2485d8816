// Package camera provides the orbit camera used to frame a scanned arch.
package camera

import (
	gomath "math"

	"github.com/Faultbox/prepview/pkg/math"
)

// Defaults for a freshly created orbit camera.
const (
	DefaultFOVDegrees = 45.0
	DefaultPadding    = 1.2
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance float64 // Distance from center
	Pitch    float64 // vertical angle, radians
	Yaw      float64 // horizontal angle, radians

	// Projection
	FOVY float64 // vertical field of view, radians
	Near float64
	Far  float64

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        100.0,
		FOVY:            DefaultFOVDegrees * gomath.Pi / 180,
		Near:            0.1,
		Far:             1000.0,
		MinDistance:     1.0,
		MaxDistance:     5000.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosPitch := gomath.Cos(c.Pitch)
	offset := math.Vec3{
		X: c.Distance * cosPitch * gomath.Sin(c.Yaw),
		Y: c.Distance * gomath.Sin(c.Pitch),
		Z: c.Distance * cosPitch * gomath.Cos(c.Yaw),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.UnitY)
}

// ProjectionMatrix returns the perspective projection for a viewport with
// the given width/height ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float64) math.Mat4 {
	return math.Perspective(c.FOVY, aspect, c.Near, c.Far)
}

// InverseViewProjection returns the matrix that unprojects normalized
// device coordinates into world space. ok is false when the camera is
// degenerate.
func (c *OrbitCamera) InverseViewProjection(aspect float64) (math.Mat4, bool) {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix()).Inverse()
}

// HandleDrag updates rotation based on pointer drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on b and backs off until the bounding
// sphere, scaled by padding, fits the vertical field of view. Clip planes
// follow the new distance. Empty bounds leave the camera unchanged.
func (c *OrbitCamera) FitToBounds(b math.Bounds, fovY, padding float64) {
	if b.IsEmpty() {
		return
	}
	if fovY > 0 {
		c.FOVY = fovY
	}
	if padding <= 0 {
		padding = DefaultPadding
	}

	c.Center = b.Center()
	radius := b.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}

	c.Distance = radius * padding / gomath.Sin(c.FOVY/2)
	if c.Distance > c.MaxDistance {
		c.MaxDistance = c.Distance
	}
	if c.Distance < c.MinDistance {
		c.MinDistance = c.Distance
	}
	c.Near = gomath.Max(c.Distance-radius*padding*2, c.Distance*0.01)
	c.Far = c.Distance + radius*padding*2

	c.Pitch = 0
	c.Yaw = 0
}
