package emit

import (
	"github.com/bnema/gesturebridge/internal/event"
)

// Fixed geometry of every emitted touch contact
const (
	TouchRadius        = 2.5
	TouchRotationAngle = 10.0
	TouchForce         = 0.5
)

// PointerEvent is a native pointer event at an absolute surface position
type PointerEvent struct {
	Kind       event.Kind
	X, Y       float64
	ClickCount int // zero when not attached
}

// ScrollEvent is a native scroll-wheel event in whole pixels
type ScrollEvent struct {
	DeltaX int
	DeltaY int
}

// TouchPoint is one contact of a multi-touch event
type TouchPoint struct {
	ID            int
	X, Y          float64
	RadiusX       float64
	RadiusY       float64
	RotationAngle float64
	Force         float64
}

// TouchEvent is a native multi-touch event dispatched to a target element
type TouchEvent struct {
	Phase   event.TouchPhase
	Target  string
	Touches []TouchPoint
	Changed []TouchPoint
}

// Sink is the OS input subsystem. Each call injects one semantic event.
// Errors are reported to the emitter for logging only.
type Sink interface {
	Pointer(ev PointerEvent) error
	Scroll(ev ScrollEvent) error
	Touch(ev TouchEvent) error
	Close() error
}
