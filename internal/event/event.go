// Package event defines the inbound event descriptors and the resolved
// actions the translator produces from them.
package event

import (
	"fmt"
	"strings"

	"github.com/bnema/gesturebridge/internal/surface"
)

// Domain is the source family of an event descriptor
type Domain int

const (
	DomainMouse Domain = iota + 1
	DomainTouch
)

func (d Domain) String() string {
	switch d {
	case DomainMouse:
		return "mouse"
	case DomainTouch:
		return "touch"
	default:
		return fmt.Sprintf("domain(%d)", int(d))
	}
}

// MouseType is the mouse type code. Values match the integers used by the
// device-mapping library callback.
type MouseType int

const (
	MouseMoved   MouseType = 0
	LeftUp       MouseType = 1
	LeftDown     MouseType = 2
	LeftDragged  MouseType = 3
	RightUp      MouseType = 4
	RightDown    MouseType = 5
	RightDragged MouseType = 6
	Scroll       MouseType = 7
)

// MouseTypes lists every declared mouse type code
var MouseTypes = []MouseType{MouseMoved, LeftUp, LeftDown, LeftDragged, RightUp, RightDown, RightDragged, Scroll}

// Valid reports whether t is one of the declared codes
func (t MouseType) Valid() bool {
	return t >= MouseMoved && t <= Scroll
}

func (t MouseType) String() string {
	switch t {
	case MouseMoved:
		return "mouse-moved"
	case LeftUp:
		return "left-up"
	case LeftDown:
		return "left-down"
	case LeftDragged:
		return "left-dragged"
	case RightUp:
		return "right-up"
	case RightDown:
		return "right-down"
	case RightDragged:
		return "right-dragged"
	case Scroll:
		return "scroll"
	default:
		return fmt.Sprintf("mouse-type(%d)", int(t))
	}
}

// TouchPhase is the touch type code
type TouchPhase int

const (
	TouchUnknown TouchPhase = iota
	TouchStart
	TouchMove
	TouchEnd
	TouchCancel
)

// TouchPhases lists every declared touch phase
var TouchPhases = []TouchPhase{TouchStart, TouchMove, TouchEnd, TouchCancel}

// Valid reports whether p is one of the declared phases
func (p TouchPhase) Valid() bool {
	return p >= TouchStart && p <= TouchCancel
}

// String returns the wire name of the phase
func (p TouchPhase) String() string {
	switch p {
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	case TouchCancel:
		return "touchcancel"
	default:
		return "touchunknown"
	}
}

// ParseTouchPhase maps a feed type string to its phase. Unrecognized names
// return TouchUnknown and false.
func ParseTouchPhase(name string) (TouchPhase, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "touchstart":
		return TouchStart, true
	case "touchmove":
		return TouchMove, true
	case "touchend":
		return TouchEnd, true
	case "touchcancel":
		return TouchCancel, true
	default:
		return TouchUnknown, false
	}
}

// Descriptor is one inbound input event before translation
type Descriptor struct {
	Domain Domain
	Mouse  MouseType  // set when Domain is DomainMouse
	Touch  TouchPhase // set when Domain is DomainTouch
	Raw    string     // original type name, kept for logging unknown touch types

	X, Y       float64
	ID         *int
	ClickCount int
}

// NewMouse builds a mouse descriptor from the library callback arguments
func NewMouse(code int, x, y float64, clickCount int) Descriptor {
	return Descriptor{
		Domain:     DomainMouse,
		Mouse:      MouseType(code),
		X:          x,
		Y:          y,
		ClickCount: clickCount,
	}
}

// NewTouch builds a touch descriptor from a feed element
func NewTouch(typeName string, x, y float64, id *int) Descriptor {
	phase, _ := ParseTouchPhase(typeName)
	return Descriptor{
		Domain: DomainTouch,
		Touch:  phase,
		Raw:    typeName,
		X:      x,
		Y:      y,
		ID:     id,
	}
}

// Identifier returns the touch identifier, 0 when absent
func (d Descriptor) Identifier() int {
	if d.ID == nil {
		return 0
	}
	return *d.ID
}

// TypeName returns a printable name for the descriptor's type code
func (d Descriptor) TypeName() string {
	switch d.Domain {
	case DomainMouse:
		return d.Mouse.String()
	case DomainTouch:
		if !d.Touch.Valid() && d.Raw != "" {
			return d.Raw
		}
		return d.Touch.String()
	default:
		return d.Domain.String()
	}
}

// Kind is the semantic action a descriptor resolves to
type Kind int

const (
	KindMouseMoved Kind = iota + 1
	KindLeftDown
	KindLeftUp
	KindLeftDragged
	KindRightDown
	KindRightUp
	KindRightDragged
	KindScroll
	KindTouch
)

func (k Kind) String() string {
	switch k {
	case KindMouseMoved:
		return "mouse-moved"
	case KindLeftDown:
		return "left-down"
	case KindLeftUp:
		return "left-up"
	case KindLeftDragged:
		return "left-dragged"
	case KindRightDown:
		return "right-down"
	case KindRightUp:
		return "right-up"
	case KindRightDragged:
		return "right-dragged"
	case KindScroll:
		return "scroll"
	case KindTouch:
		return "touch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsPointer reports whether k is emitted as a pointer event
func (k Kind) IsPointer() bool {
	return k >= KindMouseMoved && k <= KindRightDragged
}

// Action is the resolved form of a descriptor, consumed immediately by the emitter
type Action struct {
	Kind     Kind
	Position surface.Point

	// ClickCount is zero unless the source reported more than one click
	ClickCount int

	// Scroll deltas, integer-truncated from the mapped position
	DeltaX int
	DeltaY int

	// Touch phase and contact identifier
	Phase TouchPhase
	ID    int
}
