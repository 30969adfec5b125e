// Package touch tracks the lifecycle of touch contacts by identifier.
package touch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/surface"
)

var (
	// ErrUnknownContact is returned when End or Cancel names no live contact
	ErrUnknownContact = errors.New("no live contact")
	// ErrInvalidPhase is returned for phases outside start/move/end/cancel
	ErrInvalidPhase = errors.New("invalid touch phase")
)

// Contact is the tracked state of one touch point
type Contact struct {
	ID           int
	Phase        event.TouchPhase
	LastPosition surface.Point
}

// Sequencer validates phase ordering per identifier.
//
// A Move for an unknown identifier is an implicit Start. An End or Cancel
// for an unknown identifier is rejected.
type Sequencer struct {
	mu       sync.Mutex
	contacts map[int]*Contact
}

// NewSequencer creates an empty sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{contacts: make(map[int]*Contact)}
}

// Start creates the contact for id, overwriting the position of an existing one
func (s *Sequencer) Start(id int, pos surface.Point) Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		c = &Contact{ID: id}
		s.contacts[id] = c
	}
	c.Phase = event.TouchStart
	c.LastPosition = pos
	return *c
}

// Move updates the contact's position. The boolean is true when the move
// created the contact.
func (s *Sequencer) Move(id int, pos surface.Point) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		c = &Contact{ID: id}
		s.contacts[id] = c
	}
	c.Phase = event.TouchMove
	c.LastPosition = pos
	return *c, !ok
}

// End removes the contact
func (s *Sequencer) End(id int, pos surface.Point) (Contact, error) {
	return s.remove(id, pos, event.TouchEnd)
}

// Cancel removes the contact
func (s *Sequencer) Cancel(id int, pos surface.Point) (Contact, error) {
	return s.remove(id, pos, event.TouchCancel)
}

func (s *Sequencer) remove(id int, pos surface.Point, phase event.TouchPhase) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		return Contact{}, fmt.Errorf("%w: %s for id %d", ErrUnknownContact, phase, id)
	}
	delete(s.contacts, id)

	c.Phase = phase
	c.LastPosition = pos
	return *c, nil
}

// Apply dispatches on phase
func (s *Sequencer) Apply(phase event.TouchPhase, id int, pos surface.Point) (Contact, error) {
	switch phase {
	case event.TouchStart:
		return s.Start(id, pos), nil
	case event.TouchMove:
		c, _ := s.Move(id, pos)
		return c, nil
	case event.TouchEnd:
		return s.End(id, pos)
	case event.TouchCancel:
		return s.Cancel(id, pos)
	default:
		return Contact{}, fmt.Errorf("%w: %s", ErrInvalidPhase, phase)
	}
}

// Contact returns the live contact for id
func (s *Sequencer) Contact(id int) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok {
		return Contact{}, false
	}
	return *c, true
}

// Active returns the number of live contacts
func (s *Sequencer) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

// Reset drops every live contact, used when the feed connection drops
func (s *Sequencer) Reset() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := make([]Contact, 0, len(s.contacts))
	for id, c := range s.contacts {
		dropped = append(dropped, *c)
		delete(s.contacts, id)
	}
	return dropped
}
