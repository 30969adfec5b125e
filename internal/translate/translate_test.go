package translate

import (
	"math"
	"testing"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSize = surface.Size{Width: 1920, Height: 1080}

func TestResolve_MouseTypes(t *testing.T) {
	tr := New(testSize)

	want := map[event.MouseType]event.Kind{
		event.MouseMoved:   event.KindMouseMoved,
		event.LeftDown:     event.KindLeftDown,
		event.LeftUp:       event.KindLeftUp,
		event.LeftDragged:  event.KindLeftDragged,
		event.RightDown:    event.KindRightDown,
		event.RightUp:      event.KindRightUp,
		event.RightDragged: event.KindRightDragged,
		event.Scroll:       event.KindScroll,
	}

	// Every declared code must resolve
	for _, code := range event.MouseTypes {
		t.Run(code.String(), func(t *testing.T) {
			action, err := tr.Resolve(event.NewMouse(int(code), 0.5, 0.5, 0))
			require.NoError(t, err)
			assert.Equal(t, want[code], action.Kind)
			assert.Equal(t, surface.Point{X: 960, Y: 540}, action.Position)
		})
	}
}

func TestResolve_TouchPhases(t *testing.T) {
	tr := New(testSize)
	id := 3

	for _, phase := range event.TouchPhases {
		t.Run(phase.String(), func(t *testing.T) {
			action, err := tr.Resolve(event.NewTouch(phase.String(), 0.25, 0.5, &id))
			require.NoError(t, err)
			assert.Equal(t, event.KindTouch, action.Kind)
			assert.Equal(t, phase, action.Phase)
			assert.Equal(t, 3, action.ID)
			assert.Equal(t, surface.Point{X: 480, Y: 540}, action.Position)
		})
	}
}

func TestResolve_ClickCount(t *testing.T) {
	tr := New(testSize)

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"double click attached", 2, 2},
		{"triple click attached", 3, 3},
		{"single click omitted", 1, 0},
		{"zero omitted", 0, 0},
		{"negative omitted", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := tr.Resolve(event.NewMouse(int(event.LeftDown), 0.1, 0.1, tt.count))
			require.NoError(t, err)
			assert.Equal(t, tt.want, action.ClickCount)
		})
	}
}

func TestResolve_Scroll(t *testing.T) {
	tr := New(surface.Size{Width: 100, Height: 100})

	action, err := tr.Resolve(event.NewMouse(int(event.Scroll), 0.057, -0.039, 1))
	require.NoError(t, err)

	assert.Equal(t, event.KindScroll, action.Kind)
	assert.False(t, action.Kind.IsPointer())
	// Deltas derive from the same mapping as pointer positions, truncated toward zero
	mapped := tr.Size().Map(0.057, -0.039)
	assert.Equal(t, int(mapped.X), action.DeltaX)
	assert.Equal(t, int(mapped.Y), action.DeltaY)
	assert.Equal(t, 5, action.DeltaX)
	assert.Equal(t, -3, action.DeltaY)
	assert.Zero(t, action.ClickCount)
}

func TestResolve_ScrollSaturates(t *testing.T) {
	tr := New(surface.Size{Width: 1920, Height: 1080})

	action, err := tr.Resolve(event.NewMouse(int(event.Scroll), 1e300, -1e300, 1))
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt, action.DeltaX)
	assert.Equal(t, math.MinInt, action.DeltaY)
}

func TestResolve_NonFinite(t *testing.T) {
	tr := New(testSize)

	descriptors := []event.Descriptor{
		event.NewMouse(int(event.MouseMoved), math.NaN(), 0.5, 0),
		event.NewMouse(int(event.Scroll), 0.5, math.NaN(), 0),
		event.NewMouse(99, math.NaN(), math.NaN(), 0),
		event.NewTouch("touchstart", math.Inf(1), 0, nil),
		event.NewTouch("touchmove", 0, math.NaN(), nil),
	}

	for _, d := range descriptors {
		_, err := tr.Resolve(d)
		assert.ErrorIs(t, err, ErrNonFinite, d.TypeName())
	}
}

func TestResolve_UnknownType(t *testing.T) {
	tr := New(testSize)

	tests := []struct {
		name string
		d    event.Descriptor
	}{
		{"mouse code out of range", event.NewMouse(8, 0.5, 0.5, 0)},
		{"negative mouse code", event.NewMouse(-1, 0.5, 0.5, 0)},
		{"unknown touch type", event.NewTouch("touchwiggle", 0.5, 0.5, nil)},
		{"empty touch type", event.NewTouch("", 0.5, 0.5, nil)},
		{"no domain", event.Descriptor{X: 0.5, Y: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Resolve(tt.d)
			assert.ErrorIs(t, err, ErrUnknownType)
		})
	}
}
