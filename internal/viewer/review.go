package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/prepview/pkg/annotation"
)

// ReviewTooth is one tooth as presented on the review screen.
type ReviewTooth struct {
	ID        string
	Num       int
	Defective bool
	Selected  bool
}

// ReviewSide is the refined result for one arch.
type ReviewSide struct {
	Side       Side
	Document   *annotation.Mesh
	Teeth      []ReviewTooth
	Selected   []string
	Duplicates map[int][]string // display numbers used more than once
}

// Review is the handoff from the compare step to the review step.
type Review struct {
	Upper ReviewSide
	Lower ReviewSide
}

// Side returns the review data for side.
func (r *Review) Side(side Side) ReviewSide {
	if side == Lower {
		return r.Lower
	}
	return r.Upper
}

// Handoff snapshots the edited documents and refined selections of both
// arches. It fails with ErrMissingInputs unless both are loaded.
func (s *Session) Handoff() (*Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	review := &Review{}
	for _, side := range Sides {
		st, err := s.state(side)
		if err != nil {
			return nil, fmt.Errorf("handoff: %w", err)
		}
		rs := ReviewSide{
			Side:       side,
			Document:   st.doc,
			Selected:   st.selection.IDs(),
			Duplicates: st.doc.DuplicateDisplayNumbers(),
		}
		for _, id := range st.doc.IDs() {
			t := st.doc.Centers[id]
			rs.Teeth = append(rs.Teeth, ReviewTooth{
				ID:        id,
				Num:       t.Num,
				Defective: t.IsDefective(),
				Selected:  st.selection.Has(id),
			})
		}
		if side == Lower {
			review.Lower = rs
		} else {
			review.Upper = rs
		}
	}

	s.log.Info("review handoff",
		zap.Int("upper_selected", len(review.Upper.Selected)),
		zap.Int("lower_selected", len(review.Lower.Selected)))
	return review, nil
}
