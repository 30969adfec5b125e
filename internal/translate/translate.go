// Package translate resolves event descriptors into semantic actions.
package translate

import (
	"errors"
	"fmt"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/surface"
)

var (
	// ErrNonFinite is returned when a descriptor carries a NaN or infinite coordinate
	ErrNonFinite = errors.New("non-finite coordinate")
	// ErrUnknownType is returned for a type code outside the declared set
	ErrUnknownType = errors.New("unrecognized event type")
)

// Translator maps descriptors onto a surface and resolves their actions
type Translator struct {
	size surface.Size
}

// New creates a translator for the given surface
func New(size surface.Size) *Translator {
	return &Translator{size: size}
}

// Size returns the surface the translator maps onto
func (t *Translator) Size() surface.Size {
	return t.size
}

// Resolve turns d into an action. Non-finite coordinates and unknown type
// codes are reported as errors so the caller can drop and count them; they are
// never fatal.
func (t *Translator) Resolve(d event.Descriptor) (event.Action, error) {
	if !surface.Finite(d.X, d.Y) {
		return event.Action{}, fmt.Errorf("%w: %s at (%v, %v)", ErrNonFinite, d.TypeName(), d.X, d.Y)
	}

	pos := t.size.Map(d.X, d.Y)

	switch d.Domain {
	case event.DomainMouse:
		return t.resolveMouse(d, pos)
	case event.DomainTouch:
		return t.resolveTouch(d, pos)
	default:
		return event.Action{}, fmt.Errorf("%w: %s", ErrUnknownType, d.Domain)
	}
}

func (t *Translator) resolveMouse(d event.Descriptor, pos surface.Point) (event.Action, error) {
	var kind event.Kind

	switch d.Mouse {
	case event.MouseMoved:
		kind = event.KindMouseMoved
	case event.LeftDown:
		kind = event.KindLeftDown
	case event.LeftUp:
		kind = event.KindLeftUp
	case event.LeftDragged:
		kind = event.KindLeftDragged
	case event.RightDown:
		kind = event.KindRightDown
	case event.RightUp:
		kind = event.KindRightUp
	case event.RightDragged:
		kind = event.KindRightDragged
	case event.Scroll:
		// Scroll never becomes a pointer action; its deltas come from the mapped position.
		return event.Action{
			Kind:     event.KindScroll,
			Position: pos,
			DeltaX:   surface.TruncInt(pos.X),
			DeltaY:   surface.TruncInt(pos.Y),
		}, nil
	default:
		return event.Action{}, fmt.Errorf("%w: %s", ErrUnknownType, d.Mouse)
	}

	action := event.Action{Kind: kind, Position: pos}
	if d.ClickCount > 1 {
		action.ClickCount = d.ClickCount
	}
	return action, nil
}

func (t *Translator) resolveTouch(d event.Descriptor, pos surface.Point) (event.Action, error) {
	switch d.Touch {
	case event.TouchStart, event.TouchMove, event.TouchEnd, event.TouchCancel:
		return event.Action{
			Kind:     event.KindTouch,
			Position: pos,
			Phase:    d.Touch,
			ID:       d.Identifier(),
		}, nil
	default:
		return event.Action{}, fmt.Errorf("%w: %q", ErrUnknownType, d.TypeName())
	}
}
