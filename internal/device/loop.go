package device

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bnema/gesturebridge/internal/logger"
)

// PollLoop repeatedly polls one device and hands each event to its handler
type PollLoop struct {
	lib     Library
	name    string
	handler func(RawEvent)

	stop    atomic.Bool
	polls   atomic.Int64
	events  atomic.Int64
	errored atomic.Int64
}

// LoopStats is a snapshot of a loop's activity
type LoopStats struct {
	Polls  int64
	Events int64
	Errors int64
}

// NewPollLoop creates a loop for the device called name
func NewPollLoop(lib Library, name string, handler func(RawEvent)) *PollLoop {
	return &PollLoop{lib: lib, name: name, handler: handler}
}

// Run opens the device, then polls until Stop is called. Events are handled
// synchronously on the calling goroutine. Poll errors are logged and the loop
// continues; the device is closed on exit.
func (l *PollLoop) Run() error {
	h, err := l.lib.Open(l.name)
	if err != nil {
		return fmt.Errorf("open device %q: %w", l.name, err)
	}

	defer func() {
		if err := l.lib.Close(h); err != nil {
			logger.Warnf("[DEVICE] Failed to close %q: %v", l.name, err)
		}
		logger.Infof("[DEVICE] Closed %q", l.name)
	}()

	for !l.stop.Load() {
		l.polls.Add(1)
		ev, ok, err := l.lib.Poll(h)
		if err != nil {
			if errors.Is(err, ErrUnknownHandle) {
				return fmt.Errorf("poll device %q: %w", l.name, err)
			}
			l.errored.Add(1)
			logger.Warnf("[DEVICE] Poll %q: %v", l.name, err)
			continue
		}
		if !ok {
			continue
		}

		l.events.Add(1)
		if l.handler != nil {
			l.handler(ev)
		}
	}
	return nil
}

// Stop asks the loop to exit after the current poll returns
func (l *PollLoop) Stop() {
	l.stop.Store(true)
}

// Stats returns a snapshot of the loop counters
func (l *PollLoop) Stats() LoopStats {
	return LoopStats{
		Polls:  l.polls.Load(),
		Events: l.events.Load(),
		Errors: l.errored.Load(),
	}
}
