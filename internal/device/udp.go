package device

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bnema/gesturebridge/internal/logger"
)

const maxDatagram = 512

// UDPLibrary receives signal datagrams on a UDP socket. Each opened device
// listens on Listen and keeps its own SignalMapper.
type UDPLibrary struct {
	Listen      string
	PollTimeout time.Duration

	mu      sync.Mutex
	next    Handle
	devices map[Handle]*udpDevice
}

type udpDevice struct {
	name   string
	conn   net.PacketConn
	mapper *SignalMapper
	buf    []byte
}

// NewUDPLibrary creates a library listening on listen. pollTimeout bounds a
// single Poll call.
func NewUDPLibrary(listen string, pollTimeout time.Duration) *UDPLibrary {
	if pollTimeout <= 0 {
		pollTimeout = 100 * time.Millisecond
	}
	return &UDPLibrary{
		Listen:      listen,
		PollTimeout: pollTimeout,
		devices:     make(map[Handle]*udpDevice),
	}
}

func (l *UDPLibrary) Open(name string) (Handle, error) {
	conn, err := net.ListenPacket("udp", l.Listen)
	if err != nil {
		return 0, fmt.Errorf("failed to open device %q on %s: %w", name, l.Listen, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	h := l.next
	l.devices[h] = &udpDevice{
		name:   name,
		conn:   conn,
		mapper: NewSignalMapper(),
		buf:    make([]byte, maxDatagram),
	}
	logger.Infof("[DEVICE] Opened %q on %s", name, conn.LocalAddr())
	return h, nil
}

// Poll waits up to PollTimeout for one datagram. A timeout, or a datagram
// that does not change the mapper state, yields no event.
func (l *UDPLibrary) Poll(h Handle) (RawEvent, bool, error) {
	dev, err := l.device(h)
	if err != nil {
		return RawEvent{}, false, err
	}

	_ = dev.conn.SetReadDeadline(time.Now().Add(l.PollTimeout))
	n, _, err := dev.conn.ReadFrom(dev.buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return RawEvent{}, false, nil
		}
		if errors.Is(err, net.ErrClosed) {
			return RawEvent{}, false, fmt.Errorf("%w: %v", ErrUnknownHandle, err)
		}
		return RawEvent{}, false, fmt.Errorf("read %q: %w", dev.name, err)
	}

	sig, err := ParseSignal(dev.buf[:n])
	if err != nil {
		return RawEvent{}, false, err
	}

	ev, ok := dev.mapper.Apply(sig)
	return ev, ok, nil
}

func (l *UDPLibrary) Close(h Handle) error {
	l.mu.Lock()
	dev, ok := l.devices[h]
	delete(l.devices, h)
	l.mu.Unlock()

	if !ok {
		return ErrUnknownHandle
	}
	return dev.conn.Close()
}

// Addr returns the local address of an opened device
func (l *UDPLibrary) Addr(h Handle) (net.Addr, error) {
	dev, err := l.device(h)
	if err != nil {
		return nil, err
	}
	return dev.conn.LocalAddr(), nil
}

func (l *UDPLibrary) device(h Handle) (*udpDevice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dev, ok := l.devices[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return dev, nil
}
