package feed

import (
	"errors"
	"fmt"
	"math"

	"github.com/bnema/gesturebridge/internal/event"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrMalformedBatch is returned for payloads that are not a touch batch
	ErrMalformedBatch = errors.New("malformed touch batch")
	// ErrEmptyBatch is returned for a batch without elements
	ErrEmptyBatch = errors.New("empty touch batch")
)

type wireTouch struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Type string   `json:"type"`
	ID   *int     `json:"id,omitempty"`
}

type wireBatch struct {
	Touches []wireTouch `json:"touches"`
}

// DecodeBatch parses a frame shaped {"touches":[{"x","y","type"},...]} into
// touch descriptors in array order. A missing coordinate decodes as NaN so
// the translator drops that element.
func DecodeBatch(raw []byte) ([]event.Descriptor, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBatch
	}

	var batch wireBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	if batch.Touches == nil {
		return nil, fmt.Errorf("%w: no touches array", ErrMalformedBatch)
	}
	if len(batch.Touches) == 0 {
		return nil, ErrEmptyBatch
	}

	out := make([]event.Descriptor, 0, len(batch.Touches))
	for _, t := range batch.Touches {
		out = append(out, event.NewTouch(t.Type, coord(t.X), coord(t.Y), t.ID))
	}
	return out, nil
}

// EncodeBatch is the inverse of DecodeBatch, used by feed producers and tests
func EncodeBatch(descriptors []event.Descriptor) ([]byte, error) {
	batch := wireBatch{Touches: make([]wireTouch, 0, len(descriptors))}
	for _, d := range descriptors {
		x, y := d.X, d.Y
		batch.Touches = append(batch.Touches, wireTouch{X: &x, Y: &y, Type: d.TypeName(), ID: d.ID})
	}
	return json.Marshal(batch)
}

func coord(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
