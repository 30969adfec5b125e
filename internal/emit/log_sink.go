package emit

import (
	"sync/atomic"

	"github.com/bnema/gesturebridge/internal/logger"
)

// LogSink writes every event to the logger instead of injecting it.
type LogSink struct {
	closed atomic.Bool
}

// NewLogSink creates a dry-run sink
func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Pointer(ev PointerEvent) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	if ev.ClickCount > 0 {
		logger.Info("[SINK] pointer", "kind", ev.Kind, "x", ev.X, "y", ev.Y, "clicks", ev.ClickCount)
	} else {
		logger.Info("[SINK] pointer", "kind", ev.Kind, "x", ev.X, "y", ev.Y)
	}
	return nil
}

func (s *LogSink) Scroll(ev ScrollEvent) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	logger.Info("[SINK] scroll", "dx", ev.DeltaX, "dy", ev.DeltaY)
	return nil
}

func (s *LogSink) Touch(ev TouchEvent) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	for _, c := range ev.Changed {
		logger.Info("[SINK] touch", "phase", ev.Phase, "target", ev.Target, "id", c.ID, "x", c.X, "y", c.Y,
			"touches", len(ev.Touches))
	}
	return nil
}

func (s *LogSink) Close() error {
	s.closed.Store(true)
	return nil
}
