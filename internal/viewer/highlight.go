package viewer

import (
	"github.com/Faultbox/prepview/internal/engine/sleeve"
	"github.com/Faultbox/prepview/pkg/math"
)

// Highlight is the overlay geometry for one selected or hovered tooth.
type Highlight struct {
	ToothID  string
	Selected bool
	Hovered  bool
	Sleeve   *sleeve.Sleeve
	Curve    []math.Vec3
}

// Highlights builds sleeves and display curves for every selected or
// hovered tooth on side, in annotation order. Teeth whose boundary loop is
// degenerate are left out. Geometry is recomputed on every call.
func (s *Session) Highlights(side Side, params sleeve.Params) ([]Highlight, error) {
	s.mu.Lock()
	st, err := s.state(side)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	doc, hovered := st.doc, st.hovered
	selected := NewSelection(st.selection.IDs()...)
	lift := s.opts.CurveLift
	s.mu.Unlock()

	var out []Highlight
	for _, id := range doc.IDs() {
		isSel, isHov := selected.Has(id), id == hovered
		if !isSel && !isHov {
			continue
		}
		tooth := doc.Centers[id]

		p := params
		p.Hovered = isHov
		sl := sleeve.Build(tooth.Spline, p)
		if sl == nil {
			continue
		}
		out = append(out, Highlight{
			ToothID:  id,
			Selected: isSel,
			Hovered:  isHov,
			Sleeve:   sl,
			Curve:    sleeve.DisplayCurve(tooth.Spline, lift),
		})
	}
	return out, nil
}
