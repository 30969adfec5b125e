// Package emit builds native input events from resolved actions and submits
// them to an OS input sink.
package emit

import (
	"errors"
	"sync/atomic"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/logger"
)

var (
	// ErrSinkClosed is returned by sinks after Close
	ErrSinkClosed = errors.New("sink is closed")
	// ErrDeviceUnavailable is returned when the injection device cannot be opened
	ErrDeviceUnavailable = errors.New("input device unavailable")
	// ErrNoTouchSlot is returned when every multi-touch slot is held by a live contact
	ErrNoTouchSlot = errors.New("no free touch slot")
)

// Stats counts emitted events per path
type Stats struct {
	Pointer int64
	Scroll  int64
	Touch   int64
	Failed  int64
}

// Emitter submits resolved actions to a sink. Emission is fire-and-forget:
// sink failures are logged and counted, never returned.
type Emitter struct {
	sink   Sink
	target string

	pointer atomic.Int64
	scroll  atomic.Int64
	touch   atomic.Int64
	failed  atomic.Int64
}

// NewEmitter creates an emitter bound to sink. Touch events are dispatched to target.
func NewEmitter(sink Sink, target string) *Emitter {
	return &Emitter{sink: sink, target: target}
}

// Emit submits a.
func (e *Emitter) Emit(a event.Action) {
	var err error

	switch {
	case a.Kind == event.KindScroll:
		err = e.sink.Scroll(ScrollEvent{DeltaX: a.DeltaX, DeltaY: a.DeltaY})
		e.count(&e.scroll, err)
	case a.Kind == event.KindTouch:
		err = e.sink.Touch(e.touchEvent(a))
		e.count(&e.touch, err)
	case a.Kind.IsPointer():
		ev := PointerEvent{Kind: a.Kind, X: a.Position.X, Y: a.Position.Y}
		if a.ClickCount > 1 {
			ev.ClickCount = a.ClickCount
		}
		err = e.sink.Pointer(ev)
		e.count(&e.pointer, err)
	default:
		logger.Warn("[EMIT] unsupported action", "kind", a.Kind)
		return
	}

	if err != nil {
		logger.Warn("[EMIT] sink rejected event", "kind", a.Kind, "err", err)
	}
}

func (e *Emitter) touchEvent(a event.Action) TouchEvent {
	contact := TouchPoint{
		ID:            a.ID,
		X:             a.Position.X,
		Y:             a.Position.Y,
		RadiusX:       TouchRadius,
		RadiusY:       TouchRadius,
		RotationAngle: TouchRotationAngle,
		Force:         TouchForce,
	}
	return TouchEvent{
		Phase:   a.Phase,
		Target:  e.target,
		Touches: []TouchPoint{contact},
		Changed: []TouchPoint{contact},
	}
}

func (e *Emitter) count(c *atomic.Int64, err error) {
	if err != nil {
		e.failed.Add(1)
		return
	}
	c.Add(1)
}

// Stats returns a snapshot of the counters
func (e *Emitter) Stats() Stats {
	return Stats{
		Pointer: e.pointer.Load(),
		Scroll:  e.scroll.Load(),
		Touch:   e.touch.Load(),
		Failed:  e.failed.Load(),
	}
}

// Close closes the underlying sink
func (e *Emitter) Close() error {
	return e.sink.Close()
}
