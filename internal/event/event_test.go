package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTouchPhase(t *testing.T) {
	tests := []struct {
		name  string
		want  TouchPhase
		valid bool
	}{
		{"touchstart", TouchStart, true},
		{"touchmove", TouchMove, true},
		{"touchend", TouchEnd, true},
		{"touchcancel", TouchCancel, true},
		{" TouchStart ", TouchStart, true},
		{"touchwiggle", TouchUnknown, false},
		{"", TouchUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTouchPhase(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.valid, got.Valid())
		})
	}
}

func TestTouchPhase_StringRoundTrip(t *testing.T) {
	for _, p := range TouchPhases {
		got, ok := ParseTouchPhase(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
}

func TestMouseType_Valid(t *testing.T) {
	for _, mt := range MouseTypes {
		assert.True(t, mt.Valid(), mt.String())
	}
	assert.False(t, MouseType(-1).Valid())
	assert.False(t, MouseType(8).Valid())
	assert.Equal(t, "mouse-type(42)", MouseType(42).String())
}

func TestDescriptor(t *testing.T) {
	id := 7
	d := NewTouch("touchwiggle", 0.1, 0.2, &id)
	assert.Equal(t, DomainTouch, d.Domain)
	assert.Equal(t, "touchwiggle", d.TypeName())
	assert.Equal(t, 7, d.Identifier())

	m := NewMouse(int(LeftDown), 0.3, 0.4, 2)
	assert.Equal(t, DomainMouse, m.Domain)
	assert.Equal(t, LeftDown, m.Mouse)
	assert.Equal(t, 2, m.ClickCount)
	assert.Equal(t, 0, m.Identifier())
}

func TestKind_IsPointer(t *testing.T) {
	pointer := []Kind{KindMouseMoved, KindLeftDown, KindLeftUp, KindLeftDragged, KindRightDown, KindRightUp, KindRightDragged}
	for _, k := range pointer {
		assert.True(t, k.IsPointer(), k.String())
	}
	assert.False(t, KindScroll.IsPointer())
	assert.False(t, KindTouch.IsPointer())
}
