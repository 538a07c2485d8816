// Package workflow implements the screen flow of a review session:
// upload, compare and review.
package workflow

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/prepview/internal/logger"
	"github.com/Faultbox/prepview/internal/viewer"
)

// ErrUnhandledEvent is returned by screens for events they do not accept.
var ErrUnhandledEvent = errors.New("event not handled by this screen")

// Screen represents one step of the workflow.
type Screen interface {
	// Name identifies the screen in logs.
	Name() string

	// Enter is called when entering this screen. Returning an error that
	// wraps viewer.ErrMissingInputs sends the user back to the fallback
	// screen instead of failing.
	Enter() error

	// Exit is called when leaving this screen.
	Exit() error

	// Render writes a text view of the screen.
	Render(w io.Writer) error

	// HandleInput processes input events.
	HandleInput(event any) error
}

// Manager manages screen transitions.
type Manager struct {
	current  Screen
	next     Screen
	fallback func() Screen
	log      *zap.Logger
}

// NewManager creates a new screen manager. fallback builds the screen shown
// when another screen is entered without its inputs.
func NewManager(fallback func() Screen) *Manager {
	return &Manager{
		fallback: fallback,
		log:      logger.Named("workflow"),
	}
}

// Current returns the current screen.
func (m *Manager) Current() Screen {
	return m.current
}

// Change schedules a screen change.
func (m *Manager) Change(next Screen) {
	m.next = next
}

// Update applies a scheduled screen change.
func (m *Manager) Update() error {
	if m.next == nil {
		return nil
	}

	if m.current != nil {
		if err := m.current.Exit(); err != nil {
			return err
		}
	}
	m.current = m.next
	m.next = nil

	err := m.current.Enter()
	if err == nil {
		m.log.Debug("entered screen", zap.String("screen", m.current.Name()))
		return nil
	}
	if !errors.Is(err, viewer.ErrMissingInputs) || m.fallback == nil {
		return fmt.Errorf("entering %s: %w", m.current.Name(), err)
	}

	m.log.Warn("screen inputs missing, falling back",
		zap.String("screen", m.current.Name()),
		zap.Error(err))
	m.current = m.fallback()
	if err := m.current.Enter(); err != nil {
		return fmt.Errorf("entering %s: %w", m.current.Name(), err)
	}
	return nil
}

// HandleInput forwards event to the current screen and applies any screen
// change it scheduled.
func (m *Manager) HandleInput(event any) error {
	if m.current == nil {
		return fmt.Errorf("%w: no current screen", ErrUnhandledEvent)
	}
	if err := m.current.HandleInput(event); err != nil {
		return err
	}
	return m.Update()
}

// Render renders the current screen.
func (m *Manager) Render(w io.Writer) error {
	if m.current != nil {
		return m.current.Render(w)
	}
	return nil
}
