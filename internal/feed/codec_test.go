package feed

import (
	"math"
	"testing"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch(t *testing.T) {
	raw := []byte(`{"touches":[{"x":150,"y":150,"type":"touchstart"},{"x":220,"y":200,"type":"touchmove"},{"x":220,"y":200,"type":"touchend"}]}`)

	batch, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	want := []event.TouchPhase{event.TouchStart, event.TouchMove, event.TouchEnd}
	for i, d := range batch {
		assert.Equal(t, event.DomainTouch, d.Domain)
		assert.Equal(t, want[i], d.Touch)
		assert.Nil(t, d.ID)
	}
	assert.Equal(t, 150.0, batch[0].X)
	assert.Equal(t, 200.0, batch[2].Y)
}

func TestDecodeBatch_Identifiers(t *testing.T) {
	batch, err := DecodeBatch([]byte(`{"touches":[{"x":0.1,"y":0.2,"type":"touchstart","id":4}]}`))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, 4, batch[0].Identifier())
}

func TestDecodeBatch_KeepsUnknownTypes(t *testing.T) {
	batch, err := DecodeBatch([]byte(`{"touches":[{"x":0.1,"y":0.2,"type":"touchwiggle"}]}`))
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, event.TouchUnknown, batch[0].Touch)
	assert.Equal(t, "touchwiggle", batch[0].TypeName())
}

func TestDecodeBatch_MissingCoordinateIsNaN(t *testing.T) {
	batch, err := DecodeBatch([]byte(`{"touches":[{"y":0.2,"type":"touchmove"}]}`))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(batch[0].X))
	assert.Equal(t, 0.2, batch[0].Y)
}

func TestDecodeBatch_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty payload", ``, ErrEmptyBatch},
		{"invalid json", `{"touches":[`, ErrMalformedBatch},
		{"not json", `touch connected.`, ErrMalformedBatch},
		{"no touches key", `{"mouse":[]}`, ErrMalformedBatch},
		{"touches not array", `{"touches":"abc"}`, ErrMalformedBatch},
		{"null touches", `{"touches":null}`, ErrMalformedBatch},
		{"empty touches", `{"touches":[]}`, ErrEmptyBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBatch([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeBatch(t *testing.T) {
	id := 2
	in := []event.Descriptor{
		event.NewTouch("touchstart", 0.25, 0.75, &id),
		event.NewTouch("touchend", 0.5, 0.5, nil),
	}

	raw, err := EncodeBatch(in)
	require.NoError(t, err)

	out, err := DecodeBatch(raw)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, event.TouchStart, out[0].Touch)
	assert.Equal(t, 2, out[0].Identifier())
	assert.Equal(t, 0.75, out[0].Y)
	assert.Equal(t, event.TouchEnd, out[1].Touch)
	assert.Nil(t, out[1].ID)
}
