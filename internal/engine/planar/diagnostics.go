package planar

import (
	gomath "math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/prepview/pkg/math"
)

// FitLeastSquares fits a plane minimizing squared orthogonal distances,
// via SVD of the centered point matrix. It ignores point order and its
// normal sign is arbitrary.
func FitLeastSquares(points []math.Vec3) (Plane, bool) {
	n := len(points)
	if n < 3 {
		return Plane{}, false
	}

	var sum math.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	centroid := sum.Scale(1 / float64(n))

	data := make([]float64, 0, n*3)
	for _, p := range points {
		d := p.Sub(centroid)
		data = append(data, d.X, d.Y, d.Z)
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(n, 3, data), mat.SVDThin) {
		return Plane{}, false
	}
	values := svd.Values(nil)
	if len(values) < 3 || values[1] < minNormalLength {
		// Rank below 2: the points do not span a plane.
		return Plane{}, false
	}

	var v mat.Dense
	svd.VTo(&v)
	normal := math.Vec3{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}.Normalize()
	if normal == (math.Vec3{}) {
		return Plane{}, false
	}
	return Plane{Normal: normal, Origin: centroid}, true
}

// Stats summarizes how far a loop strays from a plane.
type Stats struct {
	Mean   float64 // mean signed distance
	StdDev float64 // standard deviation of signed distance
	MaxAbs float64 // largest absolute distance
}

// Planarity measures the out-of-plane deviation of points from plane.
func Planarity(points []math.Vec3, plane Plane) Stats {
	if len(points) == 0 {
		return Stats{}
	}
	dist := make([]float64, len(points))
	var maxAbs float64
	for i, p := range points {
		dist[i] = plane.SignedDistance(p)
		maxAbs = gomath.Max(maxAbs, gomath.Abs(dist[i]))
	}
	mean, std := stat.MeanStdDev(dist, nil)
	if gomath.IsNaN(std) {
		std = 0
	}
	return Stats{Mean: mean, StdDev: std, MaxAbs: maxAbs}
}

// NormalAgreement returns |a·b| for two unit normals: 1 when they are
// parallel regardless of sign, 0 when perpendicular.
func NormalAgreement(a, b math.Vec3) float64 {
	return gomath.Abs(a.Dot(b))
}
