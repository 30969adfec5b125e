// Package device drives the device-mapping library on the mouse path.
//
// The library is reached through the Library capability interface so the
// poll loop has no dependency on its transport. UDPLibrary is the concrete
// implementation: a peer sends signal datagrams which SignalMapper turns into
// raw mouse events.
package device

import "errors"

var (
	// ErrUnknownHandle is returned for a handle that was never opened or is already closed
	ErrUnknownHandle = errors.New("unknown device handle")
	// ErrBadSignal is returned for a datagram that is not a known signal
	ErrBadSignal = errors.New("bad signal")
)

// Handle identifies an opened device
type Handle int

// RawEvent is one event yielded by a poll, in the library callback's shape
type RawEvent struct {
	Type       int
	X, Y       float64
	ClickCount int
}

// Library is the device-mapping library capability.
type Library interface {
	Open(name string) (Handle, error)
	// Poll waits a bounded time and yields zero or one event.
	Poll(h Handle) (RawEvent, bool, error)
	Close(h Handle) error
}
