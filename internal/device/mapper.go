package device

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/gesturebridge/internal/event"
)

// Signal names understood by SignalMapper
const (
	SignalPosition    = "position"
	SignalLeftButton  = "button/left"
	SignalRightButton = "button/right"
	SignalScrollWheel = "scrollWheel"
)

const (
	// Movement below this on both axes is ignored
	moveEpsilon = 0.001
	// A press within this window of the previous press is a double click
	doubleClickWindow = time.Second
)

var signalArity = map[string]int{
	SignalPosition:    2,
	SignalLeftButton:  1,
	SignalRightButton: 1,
	SignalScrollWheel: 2,
}

// Signal is one decoded signal update
type Signal struct {
	Name   string
	Values []float64
}

// ParseSignal decodes a datagram of the form "<signal> <value>...".
func ParseSignal(datagram []byte) (Signal, error) {
	fields := strings.Fields(string(datagram))
	if len(fields) == 0 {
		return Signal{}, fmt.Errorf("%w: empty datagram", ErrBadSignal)
	}

	name := fields[0]
	arity, ok := signalArity[name]
	if !ok {
		return Signal{}, fmt.Errorf("%w: unknown signal %q", ErrBadSignal, name)
	}
	if len(fields)-1 != arity {
		return Signal{}, fmt.Errorf("%w: %s expects %d value(s), got %d", ErrBadSignal, name, arity, len(fields)-1)
	}

	values := make([]float64, arity)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Signal{}, fmt.Errorf("%w: %s value %q: %v", ErrBadSignal, name, f, err)
		}
		values[i] = v
	}
	return Signal{Name: name, Values: values}, nil
}

type point struct {
	x, y float64
}

// SignalMapper turns position, button and scroll signal updates into mouse
// events. Each update yields at most one event.
type SignalMapper struct {
	now func() time.Time

	current point
	last    point

	leftHeld  bool
	rightHeld bool

	lastPress time.Time
	clicks    int
}

// NewSignalMapper creates a mapper with both buttons released at (0, 0)
func NewSignalMapper() *SignalMapper {
	return &SignalMapper{now: time.Now, clicks: 1}
}

// Apply feeds one signal update into the state machine
func (m *SignalMapper) Apply(sig Signal) (RawEvent, bool) {
	switch sig.Name {
	case SignalPosition:
		m.current = point{sig.Values[0], sig.Values[1]}
		return m.motion()
	case SignalLeftButton:
		return m.button(sig.Values[0] > 0, &m.leftHeld, event.LeftDown, event.LeftUp)
	case SignalRightButton:
		return m.button(sig.Values[0] > 0, &m.rightHeld, event.RightDown, event.RightUp)
	case SignalScrollWheel:
		return RawEvent{Type: int(event.Scroll), X: sig.Values[0], Y: sig.Values[1], ClickCount: 1}, true
	default:
		return RawEvent{}, false
	}
}

func (m *SignalMapper) motion() (RawEvent, bool) {
	dx := m.current.x - m.last.x
	dy := m.current.y - m.last.y
	if math.Abs(dx) < moveEpsilon && math.Abs(dy) < moveEpsilon {
		return RawEvent{}, false
	}
	m.last = m.current

	code := event.MouseMoved
	switch {
	case m.leftHeld:
		code = event.LeftDragged
	case m.rightHeld:
		code = event.RightDragged
	}
	return RawEvent{Type: int(code), X: m.current.x, Y: m.current.y}, true
}

func (m *SignalMapper) button(pressed bool, held *bool, down, up event.MouseType) (RawEvent, bool) {
	if pressed == *held {
		return RawEvent{}, false
	}
	*held = pressed

	code := up
	if pressed {
		code = down
		now := m.now()
		if !m.lastPress.IsZero() && now.Sub(m.lastPress) < doubleClickWindow {
			m.clicks = 2
		} else {
			m.clicks = 1
		}
		m.lastPress = now
	}
	return RawEvent{Type: int(code), X: m.current.x, Y: m.current.y, ClickCount: m.clicks}, true
}
