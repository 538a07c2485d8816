package workflow

import (
	"github.com/Faultbox/prepview/internal/engine/picking"
	"github.com/Faultbox/prepview/internal/viewer"
)

// UploadEvent delivers the raw annotation document.
type UploadEvent struct {
	Name string
	Data []byte
}

// ProceedEvent moves to the next screen.
type ProceedEvent struct{}

// BackEvent returns to the previous screen.
type BackEvent struct{}

// PickEvent is a click ray on one arch.
type PickEvent struct {
	Side viewer.Side
	Ray  picking.Ray
}

// HoverEvent is a pointer-move ray on one arch.
type HoverEvent struct {
	Side viewer.Side
	Ray  picking.Ray
}

// ToggleEvent toggles a tooth from the tooth list.
type ToggleEvent struct {
	Side viewer.Side
	ID   string
}

// RenumberEvent commits display number text for a tooth.
type RenumberEvent struct {
	Side viewer.Side
	ID   string
	Text string
}
