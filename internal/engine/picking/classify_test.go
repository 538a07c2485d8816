package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/prepview/pkg/math"
)

func squarePolygon() []math.Vec2 {
	return []math.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
}

func TestPointInPolygon_Convex(t *testing.T) {
	poly := squarePolygon()
	inside := []math.Vec2{{X: 1, Y: 1}, {X: 0.01, Y: 0.01}, {X: 1.99, Y: 0.5}}
	for _, p := range inside {
		if !PointInPolygon(p, poly) {
			t.Errorf("PointInPolygon(%v) = false, want true", p)
		}
	}
	outside := []math.Vec2{{X: -1, Y: 1}, {X: 3, Y: 1}, {X: 1, Y: 2.5}, {X: 1, Y: -0.5}}
	for _, p := range outside {
		if PointInPolygon(p, poly) {
			t.Errorf("PointInPolygon(%v) = true, want false", p)
		}
	}
}

func TestPointInPolygon_WindingIndependent(t *testing.T) {
	poly := squarePolygon()
	cw := []math.Vec2{poly[3], poly[2], poly[1], poly[0]}
	if !PointInPolygon(math.Vec2{X: 1, Y: 1}, cw) {
		t.Error("clockwise polygon should contain its center")
	}
}

func TestPointInPolygon_Concave(t *testing.T) {
	// U shape open at the top; (1.5, 2) sits in the notch.
	u := []math.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}, {X: 2, Y: 3}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 0, Y: 3}}
	if PointInPolygon(math.Vec2{X: 1.5, Y: 2}, u) {
		t.Error("notch point should be outside")
	}
	if !PointInPolygon(math.Vec2{X: 0.5, Y: 2}, u) {
		t.Error("arm point should be inside")
	}
}

func TestPointInPolygon_Degenerate(t *testing.T) {
	if PointInPolygon(math.Vec2{}, []math.Vec2{{X: -1}, {X: 1}}) {
		t.Error("two-point polygon cannot contain anything")
	}
}

func TestDistanceToSegment(t *testing.T) {
	a, b := math.Vec2{X: 0, Y: 0}, math.Vec2{X: 2, Y: 0}
	tests := []struct {
		p    math.Vec2
		want float64
	}{
		{math.Vec2{X: 1, Y: 1}, 1},  // projects onto the interior
		{math.Vec2{X: -3, Y: 4}, 5}, // clamps to a
		{math.Vec2{X: 5, Y: 4}, 5},  // clamps to b
	}
	for _, tt := range tests {
		if got := DistanceToSegment(tt.p, a, b); gomath.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DistanceToSegment(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// Zero-length edge collapses to point distance.
	if got := DistanceToSegment(math.Vec2{X: 3, Y: 4}, a, a); gomath.Abs(got-5) > 1e-12 {
		t.Errorf("zero-length segment distance = %v, want 5", got)
	}
}

func TestDistanceToPolygon(t *testing.T) {
	poly := squarePolygon()
	// The closing edge (0,2)->(0,0) is the nearest one.
	if got := DistanceToPolygon(math.Vec2{X: -0.5, Y: 1}, poly); gomath.Abs(got-0.5) > 1e-12 {
		t.Errorf("distance = %v, want 0.5", got)
	}
	if got := DistanceToPolygon(math.Vec2{X: 1, Y: 1}, poly); gomath.Abs(got-1) > 1e-12 {
		t.Errorf("center distance = %v, want 1", got)
	}
	if got := DistanceToPolygon(math.Vec2{}, nil); !gomath.IsInf(got, 1) {
		t.Errorf("empty polygon distance = %v, want +Inf", got)
	}
}

func TestClassify_SquareScenario(t *testing.T) {
	poly := squarePolygon()
	const buffer = 0.1

	c := Classify(math.Vec2{X: 1, Y: 1}, poly, buffer)
	if !c.Inside || !c.Accepted {
		t.Errorf("center = %+v, want inside and accepted", c)
	}

	c = Classify(math.Vec2{X: 1, Y: -0.05}, poly, buffer)
	if c.Inside || !c.Accepted {
		t.Errorf("near edge = %+v, want outside but accepted", c)
	}

	c = Classify(math.Vec2{X: 1, Y: -1}, poly, buffer)
	if c.Inside || c.Accepted {
		t.Errorf("far point = %+v, want rejected", c)
	}
}

func TestClassify_BufferBoundary(t *testing.T) {
	poly := squarePolygon()
	for _, d := range []float64{0.25, 0.5, 0.99} {
		p := math.Vec2{X: 2 + d, Y: 1}
		if c := Classify(p, poly, 1.0); !c.Accepted {
			t.Errorf("point %v within buffer rejected", p)
		}
	}
	if c := Classify(math.Vec2{X: 3.01, Y: 1}, poly, 1.0); c.Accepted {
		t.Error("point beyond buffer accepted")
	}
}
