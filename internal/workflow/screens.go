package workflow

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Faultbox/prepview/internal/viewer"
	"github.com/Faultbox/prepview/pkg/annotation"
)

// UploadScreen accepts the annotation document for both arches.
type UploadScreen struct {
	manager *Manager
	session *viewer.Session

	Pending  *annotation.Case
	Source   string
	ErrorMsg string
}

// NewUploadScreen creates the upload screen.
func NewUploadScreen(m *Manager, s *viewer.Session) *UploadScreen {
	return &UploadScreen{manager: m, session: s}
}

// Name implements Screen.
func (u *UploadScreen) Name() string { return "upload" }

// Enter implements Screen.
func (u *UploadScreen) Enter() error {
	u.ErrorMsg = ""
	return nil
}

// Exit implements Screen.
func (u *UploadScreen) Exit() error { return nil }

// HandleInput implements Screen. A malformed document is rejected as a
// whole and reported through ErrorMsg.
func (u *UploadScreen) HandleInput(event any) error {
	switch e := event.(type) {
	case UploadEvent:
		c, err := annotation.ParseCase(e.Data)
		if err != nil {
			u.Pending = nil
			u.ErrorMsg = err.Error()
			return fmt.Errorf("%s: %w", e.Name, err)
		}
		u.Pending, u.Source, u.ErrorMsg = c, e.Name, ""
		return nil

	case ProceedEvent:
		if u.Pending == nil || u.Pending.Mesh1 == nil || u.Pending.Mesh2 == nil {
			u.ErrorMsg = "both arches must be uploaded"
			return fmt.Errorf("%w: both arches must be uploaded", viewer.ErrMissingInputs)
		}
		if err := u.session.Load(u.Pending); err != nil {
			u.ErrorMsg = err.Error()
			return err
		}
		u.manager.Change(NewCompareScreen(u.manager, u.session))
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnhandledEvent, event)
}

// Render implements Screen.
func (u *UploadScreen) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Upload annotation\n")
	if u.Pending != nil {
		fmt.Fprintf(&b, "  loaded %s: mesh1 %d teeth", u.Source, u.Pending.Mesh1.Len())
		if u.Pending.Mesh2 != nil {
			fmt.Fprintf(&b, ", mesh2 %d teeth", u.Pending.Mesh2.Len())
		}
		b.WriteString("\n")
	}
	if u.ErrorMsg != "" {
		fmt.Fprintf(&b, "  error: %s\n", u.ErrorMsg)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// CompareScreen shows both arches and lets the clinician refine the
// selection and display numbers.
type CompareScreen struct {
	manager *Manager
	session *viewer.Session

	// FieldErrors holds validation messages keyed by "side/tooth".
	FieldErrors map[string]string
}

// NewCompareScreen creates the compare screen.
func NewCompareScreen(m *Manager, s *viewer.Session) *CompareScreen {
	return &CompareScreen{manager: m, session: s, FieldErrors: make(map[string]string)}
}

// Name implements Screen.
func (c *CompareScreen) Name() string { return "compare" }

// Enter implements Screen.
func (c *CompareScreen) Enter() error {
	for _, side := range viewer.Sides {
		if !c.session.Loaded(side) {
			return fmt.Errorf("%w: no %s document", viewer.ErrMissingInputs, side)
		}
	}
	return nil
}

// Exit implements Screen.
func (c *CompareScreen) Exit() error { return nil }

func fieldKey(side viewer.Side, id string) string {
	return side.String() + "/" + id
}

// HandleInput implements Screen. Invalid display numbers are recorded in
// FieldErrors and leave the document unchanged.
func (c *CompareScreen) HandleInput(event any) error {
	switch e := event.(type) {
	case PickEvent:
		_, _, err := c.session.Pick(e.Side, e.Ray)
		return err

	case HoverEvent:
		_, err := c.session.Hover(e.Side, e.Ray)
		return err

	case ToggleEvent:
		_, err := c.session.ToggleFromList(e.Side, e.ID)
		return err

	case RenumberEvent:
		key := fieldKey(e.Side, e.ID)
		err := c.session.Renumber(e.Side, e.ID, e.Text)
		if errors.Is(err, annotation.ErrInvalidDisplayNumber) {
			c.FieldErrors[key] = err.Error()
			return nil
		}
		if err != nil {
			return err
		}
		delete(c.FieldErrors, key)
		return nil

	case ProceedEvent:
		review, err := c.session.Handoff()
		if err != nil {
			return err
		}
		c.manager.Change(NewReviewScreen(c.manager, c.session, review))
		return nil

	case BackEvent:
		c.manager.Change(NewUploadScreen(c.manager, c.session))
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnhandledEvent, event)
}

// Render implements Screen.
func (c *CompareScreen) Render(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Compare arches\n")
	for _, side := range viewer.Sides {
		doc := c.session.Document(side)
		hovered := c.session.Hovered(side)
		fmt.Fprintf(&b, "  %s (v%d)\n", side, c.session.Version(side))
		for _, id := range doc.IDs() {
			t := doc.Centers[id]
			mark := " "
			if c.session.IsSelected(side, id) {
				mark = "x"
			}
			line := fmt.Sprintf("    [%s] tooth %s  #%d", mark, id, t.Num)
			if t.IsDefective() {
				line += "  prep"
			}
			if id == hovered {
				line += "  <"
			}
			if msg, ok := c.FieldErrors[fieldKey(side, id)]; ok {
				line += "  ! " + msg
			}
			b.WriteString(line + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ReviewScreen shows the refined selection handed off by the compare step.
type ReviewScreen struct {
	manager *Manager
	session *viewer.Session
	review  *viewer.Review
}

// NewReviewScreen creates the review screen. review may be nil, in which
// case entering the screen falls back.
func NewReviewScreen(m *Manager, s *viewer.Session, review *viewer.Review) *ReviewScreen {
	return &ReviewScreen{manager: m, session: s, review: review}
}

// Name implements Screen.
func (r *ReviewScreen) Name() string { return "review" }

// Review returns the handoff shown on this screen.
func (r *ReviewScreen) Review() *viewer.Review { return r.review }

// Enter implements Screen.
func (r *ReviewScreen) Enter() error {
	if r.review == nil {
		return fmt.Errorf("%w: no review handoff", viewer.ErrMissingInputs)
	}
	return nil
}

// Exit implements Screen.
func (r *ReviewScreen) Exit() error { return nil }

// HandleInput implements Screen.
func (r *ReviewScreen) HandleInput(event any) error {
	if _, ok := event.(BackEvent); ok {
		r.manager.Change(NewCompareScreen(r.manager, r.session))
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnhandledEvent, event)
}

// Render implements Screen.
func (r *ReviewScreen) Render(w io.Writer) error {
	return WriteReview(w, r.review)
}

// WriteReview writes a plain text summary of a handoff.
func WriteReview(w io.Writer, review *viewer.Review) error {
	var b strings.Builder
	b.WriteString("Review\n")
	for _, side := range viewer.Sides {
		rs := review.Side(side)
		fmt.Fprintf(&b, "  %s: %d selected\n", side, len(rs.Selected))
		for _, t := range rs.Teeth {
			if !t.Selected {
				continue
			}
			fmt.Fprintf(&b, "    tooth %s  #%d\n", t.ID, t.Num)
		}
		nums := make([]int, 0, len(rs.Duplicates))
		for num := range rs.Duplicates {
			nums = append(nums, num)
		}
		sort.Ints(nums)
		for _, num := range nums {
			fmt.Fprintf(&b, "    warning: #%d used by %s\n", num, strings.Join(rs.Duplicates[num], ", "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
