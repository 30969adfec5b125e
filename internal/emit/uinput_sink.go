package emit

import (
	"fmt"
	"sync"

	"github.com/ThomasT75/uinput"
	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/bnema/gesturebridge/internal/surface"
	"golang.org/x/sys/unix"
)

// UinputSink injects events through virtual uinput devices: an absolute
// touchpad for pointer events, a relative mouse for the wheel and a
// multi-touch panel for touch events. All three span the target surface.
type UinputSink struct {
	mu     sync.Mutex
	closed bool

	pad     uinput.TouchPad
	wheel   uinput.Mouse
	panel   uinput.MultiTouch
	touches *touchPanel
}

// NewUinputSink creates the virtual devices at path. maxContacts bounds the
// number of simultaneously live touch identifiers.
func NewUinputSink(path, target string, size surface.Size, maxContacts int) (*UinputSink, error) {
	if err := unix.Access(path, unix.W_OK); err != nil {
		return nil, fmt.Errorf("%w: %s: %v (try: sudo chmod 666 %s or add user to input group)",
			ErrDeviceUnavailable, path, err, path)
	}
	if maxContacts < 1 {
		maxContacts = 1
	}

	maxX, maxY := surface.TruncInt32(size.Width), surface.TruncInt32(size.Height)
	prefix := "gesturebridge " + target

	pad, err := uinput.CreateTouchPad(path, []byte(prefix+" pointer"), 0, maxX, 0, maxY)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual pointer: %w", err)
	}

	wheel, err := uinput.CreateMouse(path, []byte(prefix+" wheel"))
	if err != nil {
		_ = pad.Close()
		return nil, fmt.Errorf("failed to create virtual wheel: %w", err)
	}

	panel, err := uinput.CreateMultiTouch(path, []byte(prefix+" touch"), 0, maxX, 0, maxY, int32(maxContacts))
	if err != nil {
		_ = pad.Close()
		_ = wheel.Close()
		return nil, fmt.Errorf("failed to create virtual touch panel: %w", err)
	}

	raw := panel.GetContacts()
	contacts := make([]touchContact, len(raw))
	for i := range raw {
		contacts[i] = raw[i]
	}

	logger.Infof("Created uinput devices for %s (%dx%d, %d contact(s))", target, maxX, maxY, maxContacts)

	return &UinputSink{
		pad:     pad,
		wheel:   wheel,
		panel:   panel,
		touches: newTouchPanel(contacts),
	}, nil
}

func (s *UinputSink) Pointer(ev PointerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	x, y := surface.TruncInt32(ev.X), surface.TruncInt32(ev.Y)
	if err := s.pad.MoveTo(x, y); err != nil {
		return fmt.Errorf("move to (%d, %d): %w", x, y, err)
	}

	if ev.ClickCount > 1 {
		// uinput has no click-state field; the compositor derives multi-clicks from timing
		logger.Debug("[SINK] click count not representable on uinput", "clicks", ev.ClickCount)
	}

	switch ev.Kind {
	case event.KindMouseMoved, event.KindLeftDragged, event.KindRightDragged:
		return nil
	case event.KindLeftDown:
		return s.pad.LeftPress()
	case event.KindLeftUp:
		return s.pad.LeftRelease()
	case event.KindRightDown:
		return s.pad.RightPress()
	case event.KindRightUp:
		return s.pad.RightRelease()
	default:
		return fmt.Errorf("unsupported pointer kind %s", ev.Kind)
	}
}

func (s *UinputSink) Scroll(ev ScrollEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	if ev.DeltaY != 0 {
		if err := s.wheel.Wheel(false, surface.TruncInt32(float64(ev.DeltaY))); err != nil {
			return fmt.Errorf("vertical wheel: %w", err)
		}
	}
	if ev.DeltaX != 0 {
		if err := s.wheel.Wheel(true, surface.TruncInt32(float64(ev.DeltaX))); err != nil {
			return fmt.Errorf("horizontal wheel: %w", err)
		}
	}
	return nil
}

func (s *UinputSink) Touch(ev TouchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	return s.touches.apply(ev)
}

// Close releases every virtual device, lifting any contact still down
func (s *UinputSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.touches.liftAll()

	var err error
	for _, c := range []interface{ Close() error }{s.pad, s.wheel, s.panel} {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// touchContact is one slot of a multi-touch device. TouchDownAt on a slot
// that is already down moves it.
type touchContact interface {
	TouchDownAt(x, y int32) error
	TouchUp() error
}

// touchPanel maps live touch identifiers onto device slots
type touchPanel struct {
	contacts []touchContact
	slots    map[int]int
	free     []int
}

func newTouchPanel(contacts []touchContact) *touchPanel {
	free := make([]int, 0, len(contacts))
	for i := len(contacts) - 1; i >= 0; i-- {
		free = append(free, i)
	}
	return &touchPanel{contacts: contacts, slots: make(map[int]int), free: free}
}

func (p *touchPanel) apply(ev TouchEvent) error {
	for _, tp := range ev.Changed {
		x, y := surface.TruncInt32(tp.X), surface.TruncInt32(tp.Y)

		switch ev.Phase {
		case event.TouchStart, event.TouchMove:
			slot, live := p.slots[tp.ID]
			if !live {
				if len(p.free) == 0 {
					return fmt.Errorf("%w for id %d", ErrNoTouchSlot, tp.ID)
				}
				slot = p.free[len(p.free)-1]
				p.free = p.free[:len(p.free)-1]
				p.slots[tp.ID] = slot
			}
			if err := p.contacts[slot].TouchDownAt(x, y); err != nil {
				return fmt.Errorf("touch %s id %d: %w", ev.Phase, tp.ID, err)
			}

		case event.TouchEnd, event.TouchCancel:
			slot, live := p.slots[tp.ID]
			if !live {
				continue
			}
			p.release(tp.ID, slot)
			if err := p.contacts[slot].TouchUp(); err != nil {
				return fmt.Errorf("touch up id %d: %w", tp.ID, err)
			}

		default:
			return fmt.Errorf("unsupported touch phase %s", ev.Phase)
		}
	}
	return nil
}

// liftAll releases every live contact
func (p *touchPanel) liftAll() {
	for id, slot := range p.slots {
		p.release(id, slot)
		if err := p.contacts[slot].TouchUp(); err != nil {
			logger.Debug("[SINK] touch up on close failed", "id", id, "err", err)
		}
	}
}

func (p *touchPanel) release(id, slot int) {
	delete(p.slots, id)
	p.free = append(p.free, slot)
}
