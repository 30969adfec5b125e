package touch

import (
	"sync"
	"testing"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_Lifecycle(t *testing.T) {
	s := NewSequencer()

	c := s.Start(1, surface.Point{X: 10, Y: 20})
	assert.Equal(t, event.TouchStart, c.Phase)
	assert.Equal(t, 1, s.Active())

	c, created := s.Move(1, surface.Point{X: 30, Y: 40})
	assert.False(t, created)
	assert.Equal(t, event.TouchMove, c.Phase)
	assert.Equal(t, surface.Point{X: 30, Y: 40}, c.LastPosition)

	live, ok := s.Contact(1)
	require.True(t, ok)
	assert.Equal(t, surface.Point{X: 30, Y: 40}, live.LastPosition)

	c, err := s.End(1, surface.Point{X: 30, Y: 40})
	require.NoError(t, err)
	assert.Equal(t, event.TouchEnd, c.Phase)
	assert.Equal(t, 0, s.Active())

	_, ok = s.Contact(1)
	assert.False(t, ok)
}

func TestSequencer_StartIsIdempotent(t *testing.T) {
	s := NewSequencer()

	s.Start(4, surface.Point{X: 1, Y: 1})
	c := s.Start(4, surface.Point{X: 2, Y: 3})

	assert.Equal(t, 1, s.Active())
	assert.Equal(t, surface.Point{X: 2, Y: 3}, c.LastPosition)
}

func TestSequencer_MoveWithoutStartIsImplicitStart(t *testing.T) {
	s := NewSequencer()

	c, created := s.Move(9, surface.Point{X: 5, Y: 6})
	assert.True(t, created)
	assert.Equal(t, event.TouchMove, c.Phase)
	assert.Equal(t, 1, s.Active())
}

func TestSequencer_EndWithoutStartIsRejected(t *testing.T) {
	s := NewSequencer()

	_, err := s.End(2, surface.Point{})
	assert.ErrorIs(t, err, ErrUnknownContact)

	_, err = s.Cancel(2, surface.Point{})
	assert.ErrorIs(t, err, ErrUnknownContact)

	assert.Equal(t, 0, s.Active())
}

func TestSequencer_CancelRemoves(t *testing.T) {
	s := NewSequencer()
	s.Start(1, surface.Point{})

	c, err := s.Cancel(1, surface.Point{X: 7, Y: 7})
	require.NoError(t, err)
	assert.Equal(t, event.TouchCancel, c.Phase)
	assert.Equal(t, 0, s.Active())
}

func TestSequencer_IdentifiersAreIndependent(t *testing.T) {
	s := NewSequencer()
	s.Start(1, surface.Point{X: 1})
	s.Start(2, surface.Point{X: 2})
	assert.Equal(t, 2, s.Active())

	_, err := s.End(1, surface.Point{})
	require.NoError(t, err)

	c, ok := s.Contact(2)
	require.True(t, ok)
	assert.Equal(t, 2.0, c.LastPosition.X)
}

func TestSequencer_Apply(t *testing.T) {
	s := NewSequencer()

	phases := []event.TouchPhase{event.TouchStart, event.TouchMove, event.TouchEnd}
	for _, p := range phases {
		c, err := s.Apply(p, 0, surface.Point{X: 1, Y: 1})
		require.NoError(t, err)
		assert.Equal(t, p, c.Phase)
	}

	_, err := s.Apply(event.TouchUnknown, 0, surface.Point{})
	assert.ErrorIs(t, err, ErrInvalidPhase)
	assert.Equal(t, 0, s.Active())
}

func TestSequencer_Reset(t *testing.T) {
	s := NewSequencer()
	s.Start(1, surface.Point{})
	s.Start(2, surface.Point{})

	dropped := s.Reset()
	assert.Len(t, dropped, 2)
	assert.Equal(t, 0, s.Active())
}

func TestSequencer_ConcurrentAccess(t *testing.T) {
	s := NewSequencer()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Start(id, surface.Point{X: float64(j)})
				s.Move(id, surface.Point{Y: float64(j)})
				_, _ = s.End(id, surface.Point{})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, s.Active())
}
