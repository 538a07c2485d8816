package sleeve

import (
	"sort"

	"github.com/Faultbox/prepview/internal/engine/planar"
	"github.com/Faultbox/prepview/pkg/math"
)

// DisplayCurve returns the boundary loop reordered counter-clockwise in its
// fitted plane and lifted by lift along the plane normal, so it draws over
// the mesh surface without z-fighting. Each point keeps its own depth off
// the plane. The returned polyline is closed: its last point repeats the
// first. nil is returned for degenerate loops.
func DisplayCurve(loop []math.Vec3, lift float64) []math.Vec3 {
	if len(loop) < 3 {
		return nil
	}
	frame, ok := planar.FitFrame(loop)
	if !ok {
		return nil
	}

	local := make([]math.Vec3, len(loop))
	flat := make([]math.Vec2, len(loop))
	for i, p := range loop {
		local[i] = frame.ToLocal(p)
		flat[i] = math.Vec2{X: local[i].X, Y: local[i].Y}
	}
	c := math.Centroid2(flat)
	sort.SliceStable(local, func(i, j int) bool {
		a := math.Vec2{X: local[i].X, Y: local[i].Y}.Sub(c)
		b := math.Vec2{X: local[j].X, Y: local[j].Y}.Sub(c)
		return a.Angle() < b.Angle()
	})

	curve := make([]math.Vec3, 0, len(local)+1)
	for _, p := range local {
		p.Z += lift
		curve = append(curve, frame.ToWorld(p))
	}
	return append(curve, curve[0])
}
