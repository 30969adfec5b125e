package emit

import (
	"errors"
	"os"
	"testing"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_Pointer(t *testing.T) {
	rec := &Recorder{}
	em := NewEmitter(rec, "surface")

	em.Emit(event.Action{Kind: event.KindLeftDown, Position: surface.Point{X: 10, Y: 20}, ClickCount: 2})
	em.Emit(event.Action{Kind: event.KindLeftUp, Position: surface.Point{X: 10, Y: 20}})

	events := rec.Events()
	require.Len(t, events, 2)

	require.NotNil(t, events[0].Pointer)
	assert.Equal(t, PointerEvent{Kind: event.KindLeftDown, X: 10, Y: 20, ClickCount: 2}, *events[0].Pointer)

	require.NotNil(t, events[1].Pointer)
	assert.Zero(t, events[1].Pointer.ClickCount)

	assert.Equal(t, Stats{Pointer: 2}, em.Stats())
}

func TestEmitter_ClickCountOmittedWhenSingle(t *testing.T) {
	rec := &Recorder{}
	em := NewEmitter(rec, "surface")

	em.Emit(event.Action{Kind: event.KindRightDown, ClickCount: 1})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Zero(t, events[0].Pointer.ClickCount)
}

func TestEmitter_ScrollUsesScrollEntryPoint(t *testing.T) {
	rec := &Recorder{}
	em := NewEmitter(rec, "surface")

	em.Emit(event.Action{Kind: event.KindScroll, Position: surface.Point{X: 5.7, Y: -3.9}, DeltaX: 5, DeltaY: -3})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Pointer)
	require.NotNil(t, events[0].Scroll)
	assert.Equal(t, ScrollEvent{DeltaX: 5, DeltaY: -3}, *events[0].Scroll)
	assert.Equal(t, Stats{Scroll: 1}, em.Stats())
}

func TestEmitter_TouchGeometry(t *testing.T) {
	rec := &Recorder{}
	em := NewEmitter(rec, "canvas")

	phases := []event.TouchPhase{event.TouchStart, event.TouchMove, event.TouchEnd, event.TouchCancel}
	for _, p := range phases {
		em.Emit(event.Action{Kind: event.KindTouch, Phase: p, ID: 1, Position: surface.Point{X: 150, Y: 200}})
	}

	touches := rec.Touches()
	require.Len(t, touches, len(phases))

	for i, ev := range touches {
		assert.Equal(t, phases[i], ev.Phase)
		assert.Equal(t, "canvas", ev.Target)
		require.Len(t, ev.Touches, 1)
		require.Len(t, ev.Changed, 1)

		c := ev.Changed[0]
		assert.Equal(t, 1, c.ID)
		assert.Equal(t, 150.0, c.X)
		assert.Equal(t, 200.0, c.Y)
		assert.Equal(t, 2.5, c.RadiusX)
		assert.Equal(t, 2.5, c.RadiusY)
		assert.Equal(t, 10.0, c.RotationAngle)
		assert.Equal(t, 0.5, c.Force)
		assert.Equal(t, c, ev.Touches[0])
	}
}

func TestEmitter_SinkFailureIsCountedNotPropagated(t *testing.T) {
	rec := &Recorder{Fail: errors.New("injection refused")}
	em := NewEmitter(rec, "surface")

	assert.NotPanics(t, func() {
		em.Emit(event.Action{Kind: event.KindMouseMoved})
		em.Emit(event.Action{Kind: event.KindScroll})
		em.Emit(event.Action{Kind: event.KindTouch, Phase: event.TouchStart})
	})

	assert.Equal(t, Stats{Failed: 3}, em.Stats())
	assert.Equal(t, 0, rec.Len())
}

func TestEmitter_UnsupportedKind(t *testing.T) {
	rec := &Recorder{}
	em := NewEmitter(rec, "surface")

	em.Emit(event.Action{Kind: event.Kind(0)})

	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, Stats{}, em.Stats())
}

func TestEmitter_Close(t *testing.T) {
	rec := &Recorder{}
	em := NewEmitter(rec, "surface")

	require.NoError(t, em.Close())
	em.Emit(event.Action{Kind: event.KindMouseMoved})

	assert.Equal(t, int64(1), em.Stats().Failed)
}

func TestLogSink(t *testing.T) {
	s := NewLogSink()

	assert.NoError(t, s.Pointer(PointerEvent{Kind: event.KindLeftDown, X: 1, Y: 2, ClickCount: 2}))
	assert.NoError(t, s.Scroll(ScrollEvent{DeltaX: 1}))
	assert.NoError(t, s.Touch(TouchEvent{Phase: event.TouchStart, Changed: []TouchPoint{{ID: 1}}}))

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Pointer(PointerEvent{}), ErrSinkClosed)
	assert.ErrorIs(t, s.Scroll(ScrollEvent{}), ErrSinkClosed)
	assert.ErrorIs(t, s.Touch(TouchEvent{}), ErrSinkClosed)
}

// TestUinputSink_Integration performs actual uinput injection if permissions allow
func TestUinputSink_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := os.Stat("/dev/uinput"); os.IsNotExist(err) {
		t.Skip("/dev/uinput does not exist - uinput module not loaded")
	}

	sink, err := NewUinputSink("/dev/uinput", "test", surface.Size{Width: 1920, Height: 1080}, 1)
	if err != nil {
		t.Skipf("Cannot create uinput sink: %v", err)
	}
	defer func() { _ = sink.Close() }()

	assert.NoError(t, sink.Pointer(PointerEvent{Kind: event.KindMouseMoved, X: 100, Y: 100}))
	assert.NoError(t, sink.Scroll(ScrollEvent{DeltaY: 1}))

	touch := func(p event.TouchPhase) TouchEvent {
		tp := TouchPoint{ID: 0, X: 200, Y: 200}
		return TouchEvent{Phase: p, Touches: []TouchPoint{tp}, Changed: []TouchPoint{tp}}
	}
	assert.NoError(t, sink.Touch(touch(event.TouchStart)))
	assert.NoError(t, sink.Touch(touch(event.TouchMove)))
	assert.NoError(t, sink.Touch(touch(event.TouchEnd)))
}

func TestUinputSink_MissingDevice(t *testing.T) {
	_, err := NewUinputSink("/nonexistent/uinput", "test", surface.Size{Width: 10, Height: 10}, 1)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}
