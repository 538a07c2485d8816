package sleeve

import "github.com/Faultbox/prepview/pkg/math"

// Vertex is a mesh vertex with a flat face normal.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   math.Bounds
}

// Triangle is one face in world or local space.
type Triangle struct {
	Normal math.Vec3
	V      [3]math.Vec3
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// WorldVertices returns the vertices transformed by placement.
func (m *Mesh) WorldVertices(placement math.Mat4) []Vertex {
	out := make([]Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = Vertex{
			Position: placement.TransformPoint(v.Position),
			Normal:   placement.TransformDirection(v.Normal).Normalize(),
		}
	}
	return out
}

// Triangles expands the index buffer into faces transformed by placement.
func (m *Mesh) Triangles(placement math.Mat4) []Triangle {
	verts := m.WorldVertices(placement)
	tris := make([]Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := verts[m.Indices[i]], verts[m.Indices[i+1]], verts[m.Indices[i+2]]
		tris = append(tris, Triangle{
			Normal: a.Normal,
			V:      [3]math.Vec3{a.Position, b.Position, c.Position},
		})
	}
	return tris
}

// addQuad appends a planar quad a-b-c-d (counter-clockwise seen from the
// front) as two triangles sharing a face normal.
func (m *Mesh) addQuad(a, b, c, d math.Vec3) {
	normal := b.Sub(a).Cross(c.Sub(a))
	if normal.Length() == 0 {
		normal = c.Sub(a).Cross(d.Sub(a))
	}
	normal = normal.Normalize()

	base := uint32(len(m.Vertices))
	for _, p := range []math.Vec3{a, b, c, d} {
		m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: normal})
		m.Bounds.Extend(p)
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// extrude builds a closed hollow tube: front and back annulus caps plus
// the outer and inner walls. outer must be counter-clockwise and inner
// must pair with it point for point.
func extrude(outer, inner []math.Vec2, height float64) *Mesh {
	n := len(outer)
	m := &Mesh{
		Vertices: make([]Vertex, 0, n*16),
		Indices:  make([]uint32, 0, n*24),
		Bounds:   math.EmptyBounds(),
	}

	at := func(p math.Vec2, z float64) math.Vec3 {
		return math.Vec3{X: p.X, Y: p.Y, Z: z}
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		o0, o1 := outer[i], outer[j]
		i0, i1 := inner[i], inner[j]

		// Front cap faces +Z, back cap faces -Z.
		m.addQuad(at(o0, height), at(o1, height), at(i1, height), at(i0, height))
		m.addQuad(at(i0, 0), at(i1, 0), at(o1, 0), at(o0, 0))

		// Outer wall faces away from the centroid, inner wall toward it.
		m.addQuad(at(o0, 0), at(o1, 0), at(o1, height), at(o0, height))
		m.addQuad(at(i1, 0), at(i0, 0), at(i0, height), at(i1, height))
	}
	return m
}
