package annotation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDisplayNumber validates user input for a display number.
// Empty, non-numeric and out-of-range values are rejected.
func ParseDisplayNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidDisplayNumber)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidDisplayNumber, s)
	}
	if n < MinDisplayNumber || n > MaxDisplayNumber {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDisplayNumber, n)
	}
	return n, nil
}

// Clone returns a deep copy of the mesh that shares no boundary storage
// with the receiver.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		IsLower: m.IsLower,
		Centers: make(map[string]Tooth, len(m.Centers)),
	}
	for id, t := range m.Centers {
		t.Spline = append(t.Spline[:0:0], t.Spline...)
		out.Centers[id] = t
	}
	return out
}

// WithDisplayNumber returns a new snapshot in which tooth id has display
// number n. The receiver is not modified.
func (m *Mesh) WithDisplayNumber(id string, n int) (*Mesh, error) {
	if n < MinDisplayNumber || n > MaxDisplayNumber {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDisplayNumber, n)
	}
	t, ok := m.Tooth(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTooth, id)
	}
	t.Num = n
	return m.WithTooth(id, t), nil
}

// WithTooth returns a new snapshot in which id maps to t, adding the
// record if absent. Other records are copied by value.
func (m *Mesh) WithTooth(id string, t Tooth) *Mesh {
	out := &Mesh{Centers: make(map[string]Tooth, m.Len()+1)}
	if m != nil {
		out.IsLower = m.IsLower
		for k, v := range m.Centers {
			out.Centers[k] = v
		}
	}
	out.Centers[id] = t
	return out
}

// WithoutTooth returns a new snapshot with id removed.
func (m *Mesh) WithoutTooth(id string) *Mesh {
	out := &Mesh{Centers: make(map[string]Tooth, m.Len())}
	if m != nil {
		out.IsLower = m.IsLower
		for k, v := range m.Centers {
			if k != id {
				out.Centers[k] = v
			}
		}
	}
	return out
}
