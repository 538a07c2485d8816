// Package annotation provides the per-tooth annotation document model for a
// pair of scanned dental arches.
//
// A Mesh is treated as an immutable snapshot: every edit returns a new Mesh
// and leaves the receiver and its records untouched, so callers can detect
// changes by pointer comparison and rebuild derived state from scratch.
package annotation

import (
	"errors"
	"sort"
	"strconv"

	"github.com/Faultbox/prepview/pkg/math"
)

// Annotation document errors.
var (
	ErrMalformedDocument    = errors.New("malformed annotation document")
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidDisplayNumber = errors.New("display number must be an integer from 1 to 16")
	ErrUnknownTooth         = errors.New("unknown tooth identifier")
)

// Display number range accepted by edits.
const (
	MinDisplayNumber = 1
	MaxDisplayNumber = 16
)

// Tooth is one annotated tooth record.
type Tooth struct {
	Prep   int         // 1 when the tooth is flagged defective
	Num    int         // clinician-facing display number
	Center math.Vec3   // tooth center on the mesh
	Spline []math.Vec3 // boundary loop around the preparation margin
}

// IsDefective reports whether the tooth is flagged for attention.
func (t Tooth) IsDefective() bool {
	return t.Prep != 0
}

// ValidDisplayNumber reports whether Num lies in the editable range.
// Documents may carry other values; they load unchanged.
func (t Tooth) ValidDisplayNumber() bool {
	return t.Num >= MinDisplayNumber && t.Num <= MaxDisplayNumber
}

// Mesh is the annotation for one scanned arch.
type Mesh struct {
	IsLower bool
	Centers map[string]Tooth
}

// Case wraps the two arches being compared. Mesh2 may be nil.
type Case struct {
	Mesh1 *Mesh
	Mesh2 *Mesh
}

// Tooth returns the record for id.
func (m *Mesh) Tooth(id string) (Tooth, bool) {
	if m == nil {
		return Tooth{}, false
	}
	t, ok := m.Centers[id]
	return t, ok
}

// Len returns the number of tooth records.
func (m *Mesh) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Centers)
}

// IDs returns tooth identifiers in a stable order: numeric identifiers
// first in numeric order, then the rest lexicographically.
func (m *Mesh) IDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, len(m.Centers))
	for id := range m.Centers {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// SortIDs sorts identifiers in place using the same order as IDs.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return lessID(ids[i], ids[j])
	})
}

func lessID(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

// Defective returns the identifiers of teeth flagged defective, in IDs order.
func (m *Mesh) Defective() []string {
	var out []string
	for _, id := range m.IDs() {
		if m.Centers[id].IsDefective() {
			out = append(out, id)
		}
	}
	return out
}

// Bounds returns the bounding box of all centers and boundary points.
func (m *Mesh) Bounds() math.Bounds {
	b := math.EmptyBounds()
	if m == nil {
		return b
	}
	for _, t := range m.Centers {
		b.Extend(t.Center)
		for _, p := range t.Spline {
			b.Extend(p)
		}
	}
	return b
}

// DuplicateDisplayNumbers returns display numbers used by more than one
// tooth, mapped to the sorted identifiers sharing them. Duplicates are
// allowed; callers use this for warnings only.
func (m *Mesh) DuplicateDisplayNumbers() map[int][]string {
	byNum := make(map[int][]string)
	for _, id := range m.IDs() {
		n := m.Centers[id].Num
		byNum[n] = append(byNum[n], id)
	}
	for n, ids := range byNum {
		if len(ids) < 2 {
			delete(byNum, n)
		}
	}
	return byNum
}

// OutOfRangeDisplayNumbers returns the sorted identifiers of teeth whose
// display number falls outside 1-16.
func (m *Mesh) OutOfRangeDisplayNumbers() []string {
	var ids []string
	for _, id := range m.IDs() {
		if !m.Centers[id].ValidDisplayNumber() {
			ids = append(ids, id)
		}
	}
	return ids
}
