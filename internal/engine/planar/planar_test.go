package planar

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/prepview/pkg/math"
)

const eps = 1e-9

func square() []math.Vec3 {
	return []math.Vec3{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
}

// tiltedLoop returns a wobbly, non-convex ring on a tilted plane.
func tiltedLoop() []math.Vec3 {
	var pts []math.Vec3
	for i := 0; i < 24; i++ {
		a := float64(i) / 24 * 2 * gomath.Pi
		r := 3 + 0.6*gomath.Sin(5*a)
		x, y := r*gomath.Cos(a), r*gomath.Sin(a)
		z := 0.3*x - 0.5*y + 0.02*gomath.Sin(7*a)
		pts = append(pts, math.Vec3{X: x + 10, Y: z - 4, Z: y + 1})
	}
	return pts
}

func reversed(pts []math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func TestFitPlane_Square(t *testing.T) {
	plane, ok := FitPlane(square())
	if !ok {
		t.Fatal("FitPlane rejected a square")
	}
	if !plane.Normal.ApproxEqual(math.UnitZ, eps) {
		t.Errorf("normal = %v, want +Z for counter-clockwise loop", plane.Normal)
	}
	if !plane.Origin.ApproxEqual(math.Vec3{X: 1, Y: 1}, eps) {
		t.Errorf("origin = %v, want (1, 1, 0)", plane.Origin)
	}
	if d := plane.SignedDistance(math.Vec3{X: 5, Y: -3, Z: 2}); gomath.Abs(d-2) > eps {
		t.Errorf("SignedDistance = %v, want 2", d)
	}
}

func TestFitPlane_UnitLengthAndReversal(t *testing.T) {
	for _, loop := range [][]math.Vec3{square(), tiltedLoop()} {
		fwd, ok := FitPlane(loop)
		if !ok {
			t.Fatal("FitPlane failed")
		}
		if l := fwd.Normal.Length(); gomath.Abs(l-1) > eps {
			t.Errorf("normal length = %v, want 1", l)
		}
		rev, ok := FitPlane(reversed(loop))
		if !ok {
			t.Fatal("FitPlane failed on reversed loop")
		}
		if !rev.Normal.ApproxEqual(fwd.Normal.Negate(), eps) {
			t.Errorf("reversed normal = %v, want %v", rev.Normal, fwd.Normal.Negate())
		}
	}
}

func TestFitPlane_Degenerate(t *testing.T) {
	cases := map[string][]math.Vec3{
		"empty":     nil,
		"two":       {{X: 0}, {X: 1}},
		"collinear": {{X: 0}, {X: 1}, {X: 2}, {X: 3}},
		"same":      {{X: 1}, {X: 1}, {X: 1}},
	}
	for name, pts := range cases {
		if _, ok := FitPlane(pts); ok {
			t.Errorf("%s: expected FitPlane to reject", name)
		}
		if _, ok := FitFrame(pts); ok {
			t.Errorf("%s: expected FitFrame to reject", name)
		}
	}
}

func TestNewFrame_Orthonormal(t *testing.T) {
	normals := []math.Vec3{
		math.UnitZ,
		math.UnitY,               // parallel to the default reference
		{X: 0.1, Y: -0.95, Z: 0}, // nearly parallel
		{X: 1, Y: 2, Z: 3},
	}
	for _, n := range normals {
		f, ok := NewFrame(n, math.Vec3{X: 1, Y: 2, Z: 3})
		if !ok {
			t.Fatalf("NewFrame(%v) failed", n)
		}
		axes := []math.Vec3{f.Tangent, f.Bitangent, f.Normal}
		for i, a := range axes {
			if gomath.Abs(a.Length()-1) > eps {
				t.Errorf("normal %v: axis %d length %v", n, i, a.Length())
			}
		}
		if gomath.Abs(f.Tangent.Dot(f.Bitangent)) > eps ||
			gomath.Abs(f.Tangent.Dot(f.Normal)) > eps ||
			gomath.Abs(f.Bitangent.Dot(f.Normal)) > eps {
			t.Errorf("normal %v: axes not orthogonal", n)
		}
		if !f.Tangent.Cross(f.Bitangent).ApproxEqual(f.Normal, eps) {
			t.Errorf("normal %v: frame is not right-handed", n)
		}
	}
}

func TestNewFrame_RejectsZeroNormal(t *testing.T) {
	if _, ok := NewFrame(math.Vec3{}, math.Vec3{}); ok {
		t.Error("expected zero normal to be rejected")
	}
	if _, ok := NewFrame(math.Vec3{X: gomath.NaN()}, math.Vec3{}); ok {
		t.Error("expected NaN normal to be rejected")
	}
}

func TestProjectRoundTrip(t *testing.T) {
	f, ok := FitFrame(tiltedLoop())
	if !ok {
		t.Fatal("FitFrame failed")
	}
	points := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 12.5, Y: -3, Z: 7}, {X: -100, Y: 40, Z: 0.001}}
	for _, p := range points {
		back := f.ToWorld(f.ToLocal(p))
		if !back.ApproxEqual(p, 1e-9) {
			t.Errorf("round trip %v -> %v", p, back)
		}
	}
}

func TestProject2D_OnPlane(t *testing.T) {
	f, ok := FitFrame(square())
	if !ok {
		t.Fatal("FitFrame failed")
	}
	origin2D := f.Project2D(math.Vec3{X: 1, Y: 1})
	if origin2D.Length() > eps {
		t.Errorf("centroid projects to %v, want origin", origin2D)
	}

	loop := f.ProjectLoop(square())
	for i, p := range loop {
		if gomath.Abs(p.Length()-gomath.Sqrt2) > eps {
			t.Errorf("corner %d at radius %v, want sqrt(2)", i, p.Length())
		}
		back := f.Unproject2D(p)
		if !back.ApproxEqual(square()[i], eps) {
			t.Errorf("Unproject2D(%v) = %v, want %v", p, back, square()[i])
		}
	}
}

func TestFitLeastSquares_AgreesWithNewell(t *testing.T) {
	loop := tiltedLoop()
	newell, ok := FitPlane(loop)
	if !ok {
		t.Fatal("FitPlane failed")
	}
	ls, ok := FitLeastSquares(loop)
	if !ok {
		t.Fatal("FitLeastSquares failed")
	}
	if agree := NormalAgreement(newell.Normal, ls.Normal); agree < 0.999 {
		t.Errorf("normal agreement = %v, want > 0.999", agree)
	}
	if _, ok := FitLeastSquares([]math.Vec3{{X: 0}, {X: 1}, {X: 2}}); ok {
		t.Error("expected collinear points to be rejected")
	}
}

func TestPlanarity(t *testing.T) {
	plane := Plane{Normal: math.UnitZ}
	pts := []math.Vec3{{Z: 1}, {Z: -1}, {Z: 1}, {Z: -1}}
	s := Planarity(pts, plane)
	if gomath.Abs(s.Mean) > eps || s.MaxAbs != 1 {
		t.Errorf("Planarity = %+v", s)
	}
	if s.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", s.StdDev)
	}
	if got := Planarity(nil, plane); got != (Stats{}) {
		t.Errorf("Planarity(nil) = %+v, want zero", got)
	}
}

func TestFitBoundary_CancelledWinding(t *testing.T) {
	sq := square()
	bowtie := []math.Vec3{sq[0], sq[2], sq[1], sq[3]}
	if _, ok := FitPlane(bowtie); ok {
		t.Fatal("Newell sum of a bowtie square should cancel")
	}

	plane, ok := FitBoundary(bowtie)
	if !ok {
		t.Fatal("FitBoundary rejected a bowtie square")
	}
	if !plane.Normal.ApproxEqual(math.UnitZ, eps) {
		t.Errorf("normal = %v, want +Z", plane.Normal)
	}
	if !plane.Origin.ApproxEqual(math.Vec3{X: 1, Y: 1}, eps) {
		t.Errorf("origin = %v, want (1, 1, 0)", plane.Origin)
	}

	rev, ok := FitBoundary(reversed(bowtie))
	if !ok || !rev.Normal.ApproxEqual(plane.Normal, eps) {
		t.Errorf("reversed bowtie normal = %v, want %v", rev.Normal, plane.Normal)
	}
	if _, ok := FitFrame(bowtie); !ok {
		t.Error("FitFrame rejected a bowtie square")
	}
}

func TestFitBoundary_KeepsNewellWinding(t *testing.T) {
	for _, loop := range [][]math.Vec3{square(), reversed(square()), tiltedLoop()} {
		want, _ := FitPlane(loop)
		got, ok := FitBoundary(loop)
		if !ok {
			t.Fatal("FitBoundary failed")
		}
		if !got.Normal.ApproxEqual(want.Normal, eps) {
			t.Errorf("FitBoundary normal = %v, want Newell %v", got.Normal, want.Normal)
		}
	}
	if _, ok := FitBoundary([]math.Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 3}}); ok {
		t.Error("expected collinear points to be rejected")
	}
}

func TestOrient(t *testing.T) {
	if got := orient(math.Vec3{X: 0.1, Y: -0.9, Z: 0.2}); got.Y <= 0 {
		t.Errorf("orient = %v, want positive Y", got)
	}
	if got := orient(math.UnitZ); got != math.UnitZ {
		t.Errorf("orient(+Z) = %v", got)
	}
}
