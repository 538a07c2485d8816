// Package sleeve builds the hollow highlight solid and the lifted display
// curve drawn around a defective tooth's boundary loop.
package sleeve

import (
	"errors"
	gomath "math"
	"sort"

	"github.com/Faultbox/prepview/internal/engine/planar"
	"github.com/Faultbox/prepview/pkg/math"
)

// ErrNoGeometry reports a boundary loop too degenerate to build a sleeve
// from. Build itself returns nil; callers that must produce output wrap
// this error.
var ErrNoGeometry = errors.New("no sleeve geometry for boundary")

// Params controls sleeve appearance and shape.
type Params struct {
	WallThickness float64
	Height        float64
	Color         string
	HoverColor    string
	Opacity       float64
	Hovered       bool
}

// DefaultParams returns the default sleeve parameters.
func DefaultParams() Params {
	return Params{
		WallThickness: 0.4,
		Height:        2.0,
		Color:         "#ff5a5a",
		HoverColor:    "#ffd75a",
		Opacity:       0.5,
	}
}

// DisplayColor returns the colour to draw with, taking hover into account.
func (p Params) DisplayColor() string {
	if p.Hovered && p.HoverColor != "" {
		return p.HoverColor
	}
	return p.Color
}

// Sleeve is a hollow tube extruded from a boundary loop. Mesh vertices are
// in the loop's local frame; Placement maps them into world space.
type Sleeve struct {
	Mesh      *Mesh
	Placement math.Mat4
	Frame     planar.Frame
	Outer     []math.Vec2 // counter-clockwise outer loop
	Inner     []math.Vec2 // inward offset of Outer, same order
	Color     string
	Opacity   float64
	Hovered   bool
}

// Build extrudes the annulus between loop and its inward offset along the
// loop's plane normal. It returns nil for fewer than 3 points or when no
// plane can be fitted.
func Build(loop []math.Vec3, p Params) *Sleeve {
	if len(loop) < 3 {
		return nil
	}
	frame, ok := planar.FitFrame(loop)
	if !ok {
		return nil
	}

	outer := SortAngular(frame.ProjectLoop(loop))
	inner := InsetLoop(outer, p.WallThickness)

	return &Sleeve{
		Mesh:      extrude(outer, inner, gomath.Max(p.Height, 0)),
		Placement: frame.LocalToWorld,
		Frame:     frame,
		Outer:     outer,
		Inner:     inner,
		Color:     p.DisplayColor(),
		Opacity:   p.Opacity,
		Hovered:   p.Hovered,
	}
}

// SortAngular returns the points ordered counter-clockwise by angle around
// their centroid. The input is not modified.
func SortAngular(points []math.Vec2) []math.Vec2 {
	c := math.Centroid2(points)
	out := make([]math.Vec2, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sub(c).Angle() < out[j].Sub(c).Angle()
	})
	return out
}

// InsetLoop moves every point toward the loop centroid by wall, never past
// the centroid. This approximates a constant-width wall; it is not a true
// parallel offset and distorts on sharply concave loops.
func InsetLoop(outer []math.Vec2, wall float64) []math.Vec2 {
	c := math.Centroid2(outer)
	inner := make([]math.Vec2, len(outer))
	for i, p := range outer {
		d := p.Sub(c)
		dist := d.Length()
		scale := 0.0
		if dist > 0 {
			scale = gomath.Max(0, 1-wall/dist)
		}
		inner[i] = c.Add(d.Scale(scale))
	}
	return inner
}
