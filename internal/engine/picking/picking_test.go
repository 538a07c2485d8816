package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/prepview/internal/engine/planar"
	"github.com/Faultbox/prepview/pkg/annotation"
	"github.com/Faultbox/prepview/pkg/math"
)

var unbounded = gomath.Inf(1)

func squareLoop(x, y, z, size float64) []math.Vec3 {
	return []math.Vec3{
		{X: x, Y: y, Z: z},
		{X: x + size, Y: y, Z: z},
		{X: x + size, Y: y + size, Z: z},
		{X: x, Y: y + size, Z: z},
	}
}

func down(x, y float64) Ray {
	return NewRay(math.Vec3{X: x, Y: y, Z: 10}, math.Vec3{Z: -1})
}

func TestRayAt(t *testing.T) {
	r := NewRay(math.Vec3{X: 1}, math.Vec3{Y: 4})
	if r.Direction.Length() != 1 {
		t.Fatalf("direction not normalized: %v", r.Direction)
	}
	if got := r.At(3); !got.ApproxEqual(math.Vec3{X: 1, Y: 3}, 1e-12) {
		t.Errorf("At(3) = %v", got)
	}
}

func TestIntersectPlane(t *testing.T) {
	plane := planar.Plane{Normal: math.UnitZ, Origin: math.Vec3{Z: 2}}
	r := NewRay(math.Vec3{X: 1.5, Y: 1, Z: 5}, math.Vec3{Z: -1})

	dist, point, ok := r.IntersectPlane(plane, 0, unbounded)
	if !ok {
		t.Fatal("expected hit")
	}
	if gomath.Abs(dist-3) > 1e-12 {
		t.Errorf("distance = %v, want 3", dist)
	}
	if !point.ApproxEqual(math.Vec3{X: 1, Y: 1, Z: 2}, 1e-12) {
		t.Errorf("point = %v", point)
	}

	if _, _, ok := r.IntersectPlane(plane, 0, 2.5); ok {
		t.Error("hit beyond far accepted")
	}
	if _, _, ok := r.IntersectPlane(plane, 3.5, unbounded); ok {
		t.Error("hit before near accepted")
	}

	// Behind the origin.
	up := NewRay(math.Vec3{Z: 5}, math.Vec3{Z: 1})
	if _, _, ok := up.IntersectPlane(plane, 0, unbounded); ok {
		t.Error("hit behind ray accepted")
	}

	parallel := NewRay(math.Vec3{Z: 5}, math.Vec3{X: 1})
	if _, _, ok := parallel.IntersectPlane(plane, gomath.Inf(-1), unbounded); ok {
		t.Error("parallel ray should not hit")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})
	if box.Min.X != -1 || box.Max.X != 1 {
		t.Fatalf("NewAABB did not order corners: %+v", box)
	}

	r := NewRay(math.Vec3{Z: 5}, math.Vec3{Z: -1})
	dist, ok := r.IntersectAABB(box)
	if !ok || gomath.Abs(dist-4) > 1e-12 {
		t.Errorf("IntersectAABB = %v, %v; want 4, true", dist, ok)
	}

	inside := NewRay(math.Vec3{}, math.Vec3{X: 1})
	dist, ok = inside.IntersectAABB(box)
	if !ok || gomath.Abs(dist-1) > 1e-12 {
		t.Errorf("from inside = %v, %v; want exit 1", dist, ok)
	}

	miss := NewRay(math.Vec3{X: 3, Z: 5}, math.Vec3{Z: -1})
	if _, ok := miss.IntersectAABB(box); ok {
		t.Error("expected miss")
	}
	if _, ok := miss.IntersectAABB(box.Expand(2.5)); !ok {
		t.Error("expanded box should be hit")
	}
}

func TestScreenToRay_Center(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.UnitY)
	proj := math.Perspective(gomath.Pi/4, 1, 0.1, 100)
	inv, ok := proj.Mul(view).Inverse()
	if !ok {
		t.Fatal("view-projection not invertible")
	}

	r := ScreenToRay(400, 300, 800, 600, inv)
	if !r.Direction.ApproxEqual(math.Vec3{Z: -1}, 1e-9) {
		t.Errorf("center ray direction = %v, want -Z", r.Direction)
	}
	if gomath.Abs(r.Origin.X) > 1e-9 || gomath.Abs(r.Origin.Y) > 1e-9 {
		t.Errorf("center ray origin = %v, want on the axis", r.Origin)
	}

	// The left edge of the screen points toward -X.
	left := ScreenToRay(0, 300, 800, 600, inv)
	if left.Direction.X >= 0 {
		t.Errorf("left ray direction = %v, want negative X", left.Direction)
	}
}

func TestNewRegion_Square(t *testing.T) {
	region, ok := NewRegion("2", squareLoop(0, 0, 0, 2), 0.1)
	if !ok {
		t.Fatal("expected region")
	}

	for _, tt := range []struct {
		name   string
		x, y   float64
		hit    bool
		inside bool
	}{
		{"inside", 1, 1, true, true},
		{"near edge", 1, -0.05, true, false},
		{"far outside", 1, -1, false, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := region.Intersect(down(tt.x, tt.y), 0, unbounded)
			if ok != tt.hit {
				t.Fatalf("Intersect ok = %v, want %v", ok, tt.hit)
			}
			if !ok {
				return
			}
			if hit.Inside != tt.inside {
				t.Errorf("Inside = %v, want %v", hit.Inside, tt.inside)
			}
			if hit.ToothID() != "2" {
				t.Errorf("ToothID = %q", hit.ToothID())
			}
			if gomath.Abs(hit.Distance-10) > 1e-9 {
				t.Errorf("Distance = %v, want 10", hit.Distance)
			}
		})
	}
}

func TestNewRegion_Degenerate(t *testing.T) {
	if _, ok := NewRegion("x", []math.Vec3{{X: 0}, {X: 1}}, 1); ok {
		t.Error("two-point loop should not produce a region")
	}
	collinear := []math.Vec3{{X: 0}, {X: 1}, {X: 2}}
	if _, ok := NewRegion("x", collinear, 1); ok {
		t.Error("collinear loop should not produce a region")
	}
}

func TestNewRegion_BowtieOrder(t *testing.T) {
	bowtie := []math.Vec3{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2}}
	region, ok := NewRegion("b", bowtie, 0)
	if !ok {
		t.Fatal("bowtie-ordered loop should still produce a region")
	}
	if _, ok := region.Intersect(NewRay(math.Vec3{X: 1.5, Y: 1, Z: 5}, math.Vec3{Z: -1}), 0, 100); !ok {
		t.Error("ray through the right wing missed")
	}
}

func TestNewRegion_NonPlanarBounds(t *testing.T) {
	// Alternating heights: the fitted plane sits between the points.
	loop := []math.Vec3{
		{X: 0, Y: 0, Z: 0.3},
		{X: 2, Y: 0, Z: -0.3},
		{X: 2, Y: 2, Z: 0.3},
		{X: 0, Y: 2, Z: -0.3},
	}
	region, ok := NewRegion("w", loop, 0)
	if !ok {
		t.Fatal("expected region")
	}
	hit, ok := region.Intersect(down(1, 1), 0, unbounded)
	if !ok {
		t.Fatal("expected hit on fitted plane")
	}
	if _, ok := NewRay(math.Vec3{X: 1, Y: 1, Z: 10}, math.Vec3{Z: -1}).IntersectAABB(region.Bounds()); !ok {
		t.Error("bounds do not contain the plane hit")
	}
	if hit.Point.X < region.Bounds().Min.X || hit.Point.Z > region.Bounds().Max.Z {
		t.Errorf("hit point %v outside bounds %+v", hit.Point, region.Bounds())
	}
}

func testMesh() *annotation.Mesh {
	return &annotation.Mesh{
		Centers: map[string]annotation.Tooth{
			"3":  {Prep: 1, Num: 3, Spline: squareLoop(0, 0, 0, 2)},
			"12": {Prep: 1, Num: 12, Spline: squareLoop(0, 0, 0, 2)},
			"5":  {Prep: 1, Num: 5, Spline: squareLoop(5, 0, 1, 2)},
			"7":  {Prep: 0, Num: 7, Spline: squareLoop(10, 0, 0, 2)},
			"9":  {Prep: 1, Num: 9, Spline: squareLoop(20, 0, 0, 2)[:2]},
		},
	}
}

func TestBuildRegistry(t *testing.T) {
	reg := BuildRegistry(testMesh(), DefaultEdgeBuffer)

	want := []string{"3", "5", "12"}
	got := reg.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if _, ok := reg.Region("7"); ok {
		t.Error("non-defective tooth has a region")
	}
	if _, ok := reg.Region("9"); ok {
		t.Error("degenerate loop has a region")
	}
	if reg.EdgeBuffer() != DefaultEdgeBuffer {
		t.Errorf("EdgeBuffer = %v", reg.EdgeBuffer())
	}
}

func TestBuildRegistry_Empty(t *testing.T) {
	reg := BuildRegistry(nil, DefaultEdgeBuffer)
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
	if _, ok := reg.Pick(down(0, 0), 0, unbounded); ok {
		t.Error("empty registry should not pick")
	}
}

func TestPick_Nearest(t *testing.T) {
	mesh := &annotation.Mesh{
		Centers: map[string]annotation.Tooth{
			"low":  {Prep: 1, Spline: squareLoop(0, 0, 0, 2)},
			"high": {Prep: 1, Spline: squareLoop(0, 0, 1, 2)},
		},
	}
	reg := BuildRegistry(mesh, 0.1)

	hit, ok := reg.Pick(down(1, 1), 0, unbounded)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.ToothID() != "high" {
		t.Errorf("picked %q, want high", hit.ToothID())
	}
	if gomath.Abs(hit.Distance-9) > 1e-9 {
		t.Errorf("Distance = %v, want 9", hit.Distance)
	}

	// From below the lower region is nearest.
	hit, ok = reg.Pick(NewRay(math.Vec3{X: 1, Y: 1, Z: -10}, math.Vec3{Z: 1}), 0, unbounded)
	if !ok || hit.ToothID() != "low" {
		t.Errorf("from below picked %q, want low", hit.ToothID())
	}

	all := reg.IntersectAll(down(1, 1), 0, unbounded)
	if len(all) != 2 || all[0].ToothID() != "high" || all[1].ToothID() != "low" {
		t.Errorf("IntersectAll order wrong: %d hits", len(all))
	}
}

func TestPick_TieBreakFirstInOrder(t *testing.T) {
	reg := BuildRegistry(testMesh(), 0.1)
	hit, ok := reg.Pick(down(1, 1), 0, unbounded)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.ToothID() != "3" {
		t.Errorf("tie resolved to %q, want 3", hit.ToothID())
	}
}

func TestPick_Misses(t *testing.T) {
	reg := BuildRegistry(testMesh(), 0.1)

	if _, ok := reg.Pick(down(50, 50), 0, unbounded); ok {
		t.Error("ray far from every region picked something")
	}
	// Non-defective tooth 7 has no region.
	if _, ok := reg.Pick(down(11, 1), 0, unbounded); ok {
		t.Error("picked a non-defective tooth")
	}
	parallel := NewRay(math.Vec3{X: -5, Y: 1, Z: 0.5}, math.Vec3{X: 1})
	if _, ok := reg.Pick(parallel, 0, unbounded); ok {
		t.Error("parallel ray picked something")
	}
	if _, ok := reg.Pick(down(1, 1), 0, 5); ok {
		t.Error("hit beyond far range picked")
	}
}

func TestRegistry_RebuildAfterFlagChange(t *testing.T) {
	mesh := testMesh()
	before := BuildRegistry(mesh, 0.1)

	tooth, _ := mesh.Tooth("5")
	tooth.Prep = 0
	edited := mesh.WithTooth("5", tooth)
	after := BuildRegistry(edited, 0.1)

	if after.Len() != before.Len()-1 {
		t.Fatalf("Len = %d, want %d", after.Len(), before.Len()-1)
	}
	if _, ok := after.Region("5"); ok {
		t.Error("region for cleared tooth survived rebuild")
	}
	for _, id := range []string{"3", "12"} {
		if _, ok := after.Region(id); !ok {
			t.Errorf("region %q missing after rebuild", id)
		}
	}
	if _, ok := before.Region("5"); !ok {
		t.Error("old registry changed")
	}
}

func TestRegistry_SourceTracksEdits(t *testing.T) {
	mesh := testMesh()
	edited, err := mesh.WithDisplayNumber("3", 9)
	if err != nil {
		t.Fatalf("WithDisplayNumber: %v", err)
	}
	reg := BuildRegistry(edited, 0.1)

	if reg.Source() != edited {
		t.Fatal("registry source is not the edited snapshot")
	}
	tooth, _ := reg.Source().Tooth("3")
	if tooth.Num != 9 {
		t.Errorf("Num = %d, want 9", tooth.Num)
	}
	if orig, _ := mesh.Tooth("3"); orig.Num != 3 {
		t.Errorf("original snapshot modified: Num = %d", orig.Num)
	}
}
