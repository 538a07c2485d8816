// Package viewer holds the per-case viewing session: the editable document
// for each arch, its picking registry, the clinician's tooth selection and
// the highlight geometry derived from it.
package viewer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/engine/picking"
	"github.com/Faultbox/prepview/internal/logger"
	"github.com/Faultbox/prepview/pkg/annotation"
)

// Session errors.
var (
	ErrMissingInputs = errors.New("missing required inputs")
	ErrUnknownSide   = errors.New("unknown side")
)

// Options controls picking for a session.
type Options struct {
	EdgeBuffer float64
	Near       float64
	Far        float64
	CurveLift  float64
}

// DefaultOptions returns unbounded picking with the default edge buffer.
func DefaultOptions() Options {
	return Options{
		EdgeBuffer: picking.DefaultEdgeBuffer,
		Near:       0,
		Far:        math.Inf(1),
		CurveLift:  0.05,
	}
}

// sideState is the viewer state for one arch.
type sideState struct {
	original  *annotation.Mesh
	doc       *annotation.Mesh
	version   uint64
	registry  *picking.Registry
	builtFor  uint64
	selection *Selection
	hovered   string
}

// Session tracks both arches of a case. Every document change produces a
// new snapshot and bumps the side's version; the picking registry is
// rebuilt from scratch for each new version.
type Session struct {
	mu    sync.Mutex
	opts  Options
	sides map[Side]*sideState
	log   *zap.Logger
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	return &Session{
		opts:  opts,
		sides: make(map[Side]*sideState),
		log:   logger.Named("viewer"),
	}
}

// Options returns the session's picking options.
func (s *Session) Options() Options {
	return s.opts
}

// Load replaces both sides with the meshes of c. Each mesh is placed by its
// is_lower flag; if both claim the same arch, mesh1 is taken as upper and
// mesh2 as lower. Every defective tooth starts selected.
func (s *Session) Load(c *annotation.Case) error {
	if c == nil || c.Mesh1 == nil {
		return fmt.Errorf("%w: mesh1", ErrMissingInputs)
	}

	first, second := SideOf(c.Mesh1), SideOf(c.Mesh2)
	if c.Mesh2 != nil && first == second {
		s.log.Warn("both meshes claim the same arch, using document order",
			zap.Stringer("side", first))
		first, second = Upper, Lower
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sides = make(map[Side]*sideState)
	s.sides[first] = newSideState(c.Mesh1)
	if c.Mesh2 != nil {
		s.sides[second] = newSideState(c.Mesh2)
	}

	for side, st := range s.sides {
		s.log.Info("document loaded",
			zap.Stringer("side", side),
			zap.Int("teeth", st.doc.Len()),
			zap.Int("defective", st.selection.Len()))
		for _, id := range st.doc.OutOfRangeDisplayNumbers() {
			s.log.Warn("display number out of range",
				zap.Stringer("side", side),
				zap.String("tooth", id),
				zap.Int("num", st.doc.Centers[id].Num))
		}
	}
	return nil
}

func newSideState(m *annotation.Mesh) *sideState {
	return &sideState{
		original:  m,
		doc:       m,
		version:   1,
		selection: NewSelection(m.Defective()...),
	}
}

// state returns the loaded state for side.
func (s *Session) state(side Side) (*sideState, error) {
	if !side.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSide, int(side))
	}
	st, ok := s.sides[side]
	if !ok {
		return nil, fmt.Errorf("%w: no %s document", ErrMissingInputs, side)
	}
	return st, nil
}

// Loaded reports whether side has a document.
func (s *Session) Loaded(side Side) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sides[side]
	return ok
}

// Document returns the current snapshot for side, or nil.
func (s *Session) Document(side Side) *annotation.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sides[side]; ok {
		return st.doc
	}
	return nil
}

// Original returns the document side was loaded with, or nil.
func (s *Session) Original(side Side) *annotation.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sides[side]; ok {
		return st.original
	}
	return nil
}

// Version returns the document version for side; 0 when not loaded.
func (s *Session) Version(side Side) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sides[side]; ok {
		return st.version
	}
	return 0
}

// ReplaceDocument swaps in a new snapshot for side, e.g. after the
// annotation file changed on disk. Selected and hovered identifiers that
// no longer exist are dropped.
func (s *Session) ReplaceDocument(side Side, m *annotation.Mesh) error {
	if m == nil {
		return fmt.Errorf("%w: nil document for %s", ErrMissingInputs, side)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(side)
	if err != nil {
		return err
	}
	s.setDocument(st, m)
	st.selection.Retain(func(id string) bool {
		_, ok := m.Tooth(id)
		return ok
	})
	if _, ok := m.Tooth(st.hovered); !ok {
		st.hovered = ""
	}

	s.log.Info("document replaced",
		zap.Stringer("side", side),
		zap.Uint64("version", st.version),
		zap.Int("teeth", m.Len()))
	return nil
}

func (s *Session) setDocument(st *sideState, m *annotation.Mesh) {
	st.doc = m
	st.version++
}

// Renumber validates text as a display number and commits it to tooth id.
// Invalid input leaves the document unchanged.
func (s *Session) Renumber(side Side, id, text string) error {
	n, err := annotation.ParseDisplayNumber(text)
	if err != nil {
		s.log.Warn("rejected display number",
			zap.Stringer("side", side),
			zap.String("tooth", id),
			zap.String("input", text))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(side)
	if err != nil {
		return err
	}
	next, err := st.doc.WithDisplayNumber(id, n)
	if err != nil {
		return err
	}
	s.setDocument(st, next)

	s.log.Info("display number changed",
		zap.Stringer("side", side),
		zap.String("tooth", id),
		zap.Int("num", n),
		zap.Uint64("version", st.version))
	return nil
}

// Registry returns the picking registry for side's current document,
// rebuilding it if the document changed since the last build.
func (s *Session) Registry(side Side) (*picking.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(side)
	if err != nil {
		return nil, err
	}
	return s.registry(st), nil
}

func (s *Session) registry(st *sideState) *picking.Registry {
	if st.registry == nil || st.builtFor != st.version {
		st.registry = picking.BuildRegistry(st.doc, s.opts.EdgeBuffer)
		st.builtFor = st.version
	}
	return st.registry
}

// Pick casts ray against side's defective teeth and toggles the selection
// of the nearest accepted hit. It reports the hit and whether one occurred.
func (s *Session) Pick(side Side, ray picking.Ray) (picking.Hit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(side)
	if err != nil {
		return picking.Hit{}, false, err
	}
	hit, ok := s.registry(st).Pick(ray, s.opts.Near, s.opts.Far)
	if !ok {
		return picking.Hit{}, false, nil
	}

	selected := st.selection.Toggle(hit.ToothID())
	s.log.Debug("tooth picked",
		zap.Stringer("side", side),
		zap.String("tooth", hit.ToothID()),
		zap.Float64("distance", hit.Distance),
		zap.Bool("selected", selected))
	return hit, true, nil
}

// Hover updates the hovered tooth for side from ray and returns it; the
// empty string means nothing is hovered.
func (s *Session) Hover(side Side, ray picking.Ray) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(side)
	if err != nil {
		return "", err
	}
	hit, ok := s.registry(st).Pick(ray, s.opts.Near, s.opts.Far)
	if !ok {
		st.hovered = ""
		return "", nil
	}
	st.hovered = hit.ToothID()
	return st.hovered, nil
}

// Hovered returns the hovered tooth for side.
func (s *Session) Hovered(side Side) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sides[side]; ok {
		return st.hovered
	}
	return ""
}

// ToggleFromList toggles tooth id as if chosen from the tooth list and
// reports whether it is now selected.
func (s *Session) ToggleFromList(side Side, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state(side)
	if err != nil {
		return false, err
	}
	if _, ok := st.doc.Tooth(id); !ok {
		return false, fmt.Errorf("%w: %q", annotation.ErrUnknownTooth, id)
	}
	return st.selection.Toggle(id), nil
}

// Selected returns the selected identifiers for side in annotation order.
func (s *Session) Selected(side Side) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sides[side]; ok {
		return st.selection.IDs()
	}
	return nil
}

// IsSelected reports whether tooth id is selected on side.
func (s *Session) IsSelected(side Side, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sides[side]; ok {
		return st.selection.Has(id)
	}
	return false
}
