package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/prepview/pkg/math"
)

// Wire format. Pointer fields distinguish "absent" from zero values.
type (
	rawCase struct {
		Mesh1 *rawMesh `json:"mesh1"`
		Mesh2 *rawMesh `json:"mesh2,omitempty"`
	}

	rawMesh struct {
		IsLower *bool               `json:"is_lower"`
		Centers map[string]rawTooth `json:"centers"`
	}

	rawTooth struct {
		Prep   *int        `json:"prep"`
		Num    *int        `json:"num"`
		Center []float64   `json:"center"`
		Spline [][]float64 `json:"spline"`
	}
)

// ParseCase decodes a case document holding mesh1 and optional mesh2.
func ParseCase(data []byte) (*Case, error) {
	var raw rawCase
	if err := strictUnmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Mesh1 == nil {
		return nil, fmt.Errorf("%w: mesh1", ErrMissingField)
	}

	c := &Case{}
	var err error
	if c.Mesh1, err = raw.Mesh1.toMesh("mesh1"); err != nil {
		return nil, err
	}
	if raw.Mesh2 != nil {
		if c.Mesh2, err = raw.Mesh2.toMesh("mesh2"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ParseCaseFile reads and decodes a case document from disk.
func ParseCaseFile(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotation file: %w", err)
	}
	return ParseCase(data)
}

// ReadCase decodes a case document from r.
func ReadCase(r io.Reader) (*Case, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading annotation: %w", err)
	}
	return ParseCase(data)
}

func strictUnmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty input", ErrMalformedDocument)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return nil
}

func (r *rawMesh) toMesh(path string) (*Mesh, error) {
	if r.IsLower == nil {
		return nil, fmt.Errorf("%w: %s.is_lower", ErrMissingField, path)
	}
	if r.Centers == nil {
		return nil, fmt.Errorf("%w: %s.centers", ErrMissingField, path)
	}

	m := &Mesh{
		IsLower: *r.IsLower,
		Centers: make(map[string]Tooth, len(r.Centers)),
	}
	for id, rt := range r.Centers {
		t, err := rt.toTooth(fmt.Sprintf("%s.centers[%q]", path, id))
		if err != nil {
			return nil, err
		}
		m.Centers[id] = t
	}
	return m, nil
}

func (r rawTooth) toTooth(path string) (Tooth, error) {
	switch {
	case r.Prep == nil:
		return Tooth{}, fmt.Errorf("%w: %s.prep", ErrMissingField, path)
	case r.Num == nil:
		return Tooth{}, fmt.Errorf("%w: %s.num", ErrMissingField, path)
	case r.Center == nil:
		return Tooth{}, fmt.Errorf("%w: %s.center", ErrMissingField, path)
	case r.Spline == nil:
		return Tooth{}, fmt.Errorf("%w: %s.spline", ErrMissingField, path)
	}

	center, err := toVec3(r.Center)
	if err != nil {
		return Tooth{}, fmt.Errorf("%w: %s.center: %v", ErrMalformedDocument, path, err)
	}
	spline := make([]math.Vec3, len(r.Spline))
	for i, p := range r.Spline {
		if spline[i], err = toVec3(p); err != nil {
			return Tooth{}, fmt.Errorf("%w: %s.spline[%d]: %v", ErrMalformedDocument, path, i, err)
		}
	}

	return Tooth{
		Prep:   *r.Prep,
		Num:    *r.Num,
		Center: center,
		Spline: spline,
	}, nil
}

func toVec3(v []float64) (math.Vec3, error) {
	if len(v) != 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(v))
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Encode writes c in the same wire format ParseCase reads.
func Encode(w io.Writer, c *Case) error {
	raw := rawCase{Mesh1: fromMesh(c.Mesh1)}
	if c.Mesh2 != nil {
		raw.Mesh2 = fromMesh(c.Mesh2)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

func fromMesh(m *Mesh) *rawMesh {
	if m == nil {
		return nil
	}
	isLower := m.IsLower
	out := &rawMesh{
		IsLower: &isLower,
		Centers: make(map[string]rawTooth, len(m.Centers)),
	}
	for id, t := range m.Centers {
		prep, num := t.Prep, t.Num
		spline := make([][]float64, len(t.Spline))
		for i, p := range t.Spline {
			spline[i] = []float64{p.X, p.Y, p.Z}
		}
		out.Centers[id] = rawTooth{
			Prep:   &prep,
			Num:    &num,
			Center: []float64{t.Center.X, t.Center.Y, t.Center.Z},
			Spline: spline,
		}
	}
	return out
}
