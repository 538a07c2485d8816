package viewer

import (
	"fmt"
	"strings"

	"github.com/Faultbox/prepview/pkg/annotation"
)

// Side identifies one of the two scanned arches.
type Side int

const (
	Upper Side = iota
	Lower
)

// Sides lists both sides in display order.
var Sides = [...]Side{Upper, Lower}

func (s Side) String() string {
	switch s {
	case Upper:
		return "upper"
	case Lower:
		return "lower"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

func (s Side) valid() bool {
	return s == Upper || s == Lower
}

// ParseSide parses "upper" or "lower".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upper":
		return Upper, nil
	case "lower":
		return Lower, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// SideOf returns the side a mesh document belongs to.
func SideOf(m *annotation.Mesh) Side {
	if m != nil && m.IsLower {
		return Lower
	}
	return Upper
}
