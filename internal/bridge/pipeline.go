// Package bridge wires descriptors from both input paths through the
// translator, the touch sequencer and the emitter.
package bridge

import (
	"errors"
	"sync/atomic"

	"github.com/bnema/gesturebridge/internal/emit"
	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/bnema/gesturebridge/internal/surface"
	"github.com/bnema/gesturebridge/internal/touch"
	"github.com/bnema/gesturebridge/internal/translate"
)

// Stats is a snapshot of the pipeline counters
type Stats struct {
	Mouse          int64
	Touch          int64
	NonFinite      int64
	UnknownType    int64
	UnknownContact int64
	ActiveContacts int
	Emitted        emit.Stats
}

// Dropped returns the total number of descriptors that produced no event
func (s Stats) Dropped() int64 {
	return s.NonFinite + s.UnknownType + s.UnknownContact
}

// Pipeline turns inbound descriptors into synthetic events
type Pipeline struct {
	translator *translate.Translator
	contacts   *touch.Sequencer
	emitter    *emit.Emitter

	mouse          atomic.Int64
	touch          atomic.Int64
	nonFinite      atomic.Int64
	unknownType    atomic.Int64
	unknownContact atomic.Int64
}

// New creates a pipeline mapping onto size and emitting through emitter
func New(size surface.Size, emitter *emit.Emitter) *Pipeline {
	return &Pipeline{
		translator: translate.New(size),
		contacts:   touch.NewSequencer(),
		emitter:    emitter,
	}
}

// Size returns the surface the pipeline maps onto
func (p *Pipeline) Size() surface.Size {
	return p.translator.Size()
}

// HandleMouse processes one device callback. Invalid coordinates produce no event.
func (p *Pipeline) HandleMouse(code int, x, y float64, clickCount int) {
	p.mouse.Add(1)
	p.handle(event.NewMouse(code, x, y, clickCount))
}

// HandleTouchBatch processes each element of batch in order. Each element
// is resolved before the sequencer sees it, so a dropped element never
// changes contact state.
func (p *Pipeline) HandleTouchBatch(batch []event.Descriptor) {
	for _, d := range batch {
		p.touch.Add(1)
		p.handle(d)
	}
}

// CancelContacts ends every live contact with a cancel event. Called when
// the touch feed drops so no contact stays down.
func (p *Pipeline) CancelContacts() {
	for _, c := range p.contacts.Reset() {
		logger.Debug("[BRIDGE] cancelling contact", "id", c.ID)
		p.emitter.Emit(event.Action{
			Kind:     event.KindTouch,
			Phase:    event.TouchCancel,
			ID:       c.ID,
			Position: c.LastPosition,
		})
	}
}

func (p *Pipeline) handle(d event.Descriptor) {
	action, err := p.translator.Resolve(d)
	if err != nil {
		p.dropped(err)
		return
	}

	if action.Kind == event.KindTouch {
		if _, err := p.contacts.Apply(action.Phase, action.ID, action.Position); err != nil {
			p.dropped(err)
			return
		}
	}

	p.emitter.Emit(action)
}

func (p *Pipeline) dropped(err error) {
	switch {
	case errors.Is(err, translate.ErrNonFinite):
		p.nonFinite.Add(1)
		logger.Debug("[BRIDGE] dropping event", "reason", err)
	case errors.Is(err, translate.ErrUnknownType), errors.Is(err, touch.ErrInvalidPhase):
		p.unknownType.Add(1)
		logger.Warn("[BRIDGE] dropping event", "reason", err)
	case errors.Is(err, touch.ErrUnknownContact):
		p.unknownContact.Add(1)
		logger.Debug("[BRIDGE] dropping event", "reason", err)
	default:
		logger.Warn("[BRIDGE] dropping event", "reason", err)
	}
}

// Stats returns a snapshot of the counters
func (p *Pipeline) Stats() Stats {
	return Stats{
		Mouse:          p.mouse.Load(),
		Touch:          p.touch.Load(),
		NonFinite:      p.nonFinite.Load(),
		UnknownType:    p.unknownType.Load(),
		UnknownContact: p.unknownContact.Load(),
		ActiveContacts: p.contacts.Active(),
		Emitted:        p.emitter.Stats(),
	}
}
