// Package feed keeps the touch feed websocket alive and hands each inbound
// batch to the translation pipeline.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/gesturebridge/internal/event"
	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/gorilla/websocket"
)

var (
	// ErrAttemptInFlight is returned when a connect is requested while one is outstanding or established
	ErrAttemptInFlight = errors.New("connection attempt already in flight or connected")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("feed manager closed")
)

const writeWait = 5 * time.Second

// State is the connection state of the feed
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Dialer opens the websocket. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// BatchHandler receives every decoded batch, in array order. The next frame
// is not read until it returns.
type BatchHandler func(batch []event.Descriptor)

// Options configures a Manager
type Options struct {
	URL              string
	Handshake        string
	HealthInterval   time.Duration
	PingInterval     time.Duration // 0 disables pings
	HandshakeTimeout time.Duration
	Dialer           Dialer // nil uses a websocket.Dialer with TCP keepalive
}

// Counters is a snapshot of the manager's activity
type Counters struct {
	Attempts  int64
	Batches   int64
	Malformed int64
	Drops     int64
}

// Manager owns the feed connection and its state
type Manager struct {
	opts    Options
	dialer  Dialer
	handler BatchHandler

	mu            sync.Mutex
	state         State
	conn          *websocket.Conn
	closed        bool
	onStateChange func(State)

	writeMu sync.Mutex
	wg      sync.WaitGroup

	attempts  atomic.Int64
	batches   atomic.Int64
	malformed atomic.Int64
	drops     atomic.Int64
}

// NewManager creates a disconnected manager
func NewManager(opts Options, handler BatchHandler) *Manager {
	if opts.HealthInterval <= 0 {
		opts.HealthInterval = 30 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}

	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			HandshakeTimeout: opts.HandshakeTimeout,
			NetDialContext: (&net.Dialer{
				Timeout:   opts.HandshakeTimeout,
				KeepAlive: 15 * time.Second,
			}).DialContext,
		}
	}

	return &Manager{
		opts:    opts,
		dialer:  dialer,
		handler: handler,
		state:   Disconnected,
	}
}

// OnStateChange sets a callback invoked after every state transition
func (m *Manager) OnStateChange(callback func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = callback
}

// State returns the current connection state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// URL returns the feed address
func (m *Manager) URL() string {
	return m.opts.URL
}

// Counters returns a snapshot of the activity counters
func (m *Manager) Counters() Counters {
	return Counters{
		Attempts:  m.attempts.Load(),
		Batches:   m.batches.Load(),
		Malformed: m.malformed.Load(),
		Drops:     m.drops.Load(),
	}
}

// Connect performs one synchronous connection attempt. It returns
// ErrAttemptInFlight unless the manager is Disconnected.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.beginAttempt() {
		return ErrAttemptInFlight
	}
	return m.dial(ctx)
}

// HealthCheck starts exactly one background connection attempt when the
// manager is Disconnected and does nothing otherwise. It reports whether an
// attempt was started.
func (m *Manager) HealthCheck(ctx context.Context) bool {
	if !m.beginAttempt() {
		return false
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.dial(ctx); err != nil {
			logger.Warnf("[FEED] Connection attempt failed: %v", err)
		}
	}()
	return true
}

// Run connects and then checks the connection every HealthInterval until
// ctx is done. Retries continue indefinitely at the fixed interval.
func (m *Manager) Run(ctx context.Context) error {
	logger.Infof("[FEED] Trying to connect to %s", m.opts.URL)
	if err := m.Connect(ctx); err != nil {
		logger.Warnf("[FEED] Connection failed, will retry in %s: %v", m.opts.HealthInterval, err)
	}

	ticker := time.NewTicker(m.opts.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return ctx.Err()
		case <-ticker.C:
			if state := m.State(); state != Disconnected {
				logger.Debug("[FEED] Health check", "state", state)
				continue
			}
			logger.Infof("[FEED] Disconnected, trying to connect to %s", m.opts.URL)
			m.HealthCheck(ctx)
		}
	}
}

// Close drops the connection and waits for background work. The manager
// cannot be reconnected afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	conn := m.conn
	m.conn = nil
	changed := m.state != Disconnected
	m.state = Disconnected
	callback := m.onStateChange
	m.mu.Unlock()

	if conn != nil {
		m.writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		m.writeMu.Unlock()
		_ = conn.Close()
	}
	if changed && callback != nil {
		callback(Disconnected)
	}

	m.wg.Wait()
}

// OnMessage decodes raw as a touch batch and forwards it. Malformed and empty
// payloads are dropped without a reply.
func (m *Manager) OnMessage(raw []byte) {
	batch, err := DecodeBatch(raw)
	if err != nil {
		m.malformed.Add(1)
		logger.Debug("[FEED] Ignoring message", "reason", err)
		return
	}

	m.batches.Add(1)
	if m.handler != nil {
		m.handler(batch)
	}
}

// beginAttempt moves Disconnected to Connecting. It is the only way into
// Connecting, so at most one attempt is ever outstanding.
func (m *Manager) beginAttempt() bool {
	m.mu.Lock()
	if m.closed || m.state != Disconnected {
		m.mu.Unlock()
		return false
	}
	m.state = Connecting
	callback := m.onStateChange
	m.mu.Unlock()

	m.attempts.Add(1)
	if callback != nil {
		callback(Connecting)
	}
	return true
}

func (m *Manager) dial(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, m.opts.HandshakeTimeout)
	conn, _, err := m.dialer.DialContext(dialCtx, m.opts.URL, nil)
	cancel()
	if err != nil {
		m.setState(Disconnected)
		return fmt.Errorf("failed to connect to %s: %w", m.opts.URL, err)
	}

	if m.opts.Handshake != "" {
		if err := m.write(conn, websocket.TextMessage, []byte(m.opts.Handshake)); err != nil {
			_ = conn.Close()
			m.setState(Disconnected)
			return fmt.Errorf("failed to send handshake: %w", err)
		}
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	m.conn = conn
	m.state = Connected
	callback := m.onStateChange
	m.mu.Unlock()

	if callback != nil {
		callback(Connected)
	}
	logger.Infof("[FEED] Connection established to %s", m.opts.URL)

	done := make(chan struct{})
	if m.opts.PingInterval > 0 {
		pongWait := 2 * m.opts.PingInterval
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		m.wg.Add(1)
		go m.pingLoop(conn, done)
	}

	m.wg.Add(1)
	go m.readLoop(conn, done)
	return nil
}

func (m *Manager) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer m.wg.Done()
	defer close(done)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			m.dropped(conn, err)
			return
		}
		if messageType != websocket.TextMessage {
			logger.Debug("[FEED] Ignoring non-text frame", "type", messageType)
			continue
		}
		// The batch runs to completion before the next frame is read
		m.OnMessage(data)
	}
}

func (m *Manager) pingLoop(conn *websocket.Conn, done chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := m.write(conn, websocket.PingMessage, []byte("ping")); err != nil {
				logger.Debug("[FEED] Ping failed", "err", err)
				_ = conn.Close()
				return
			}
		}
	}
}

func (m *Manager) dropped(conn *websocket.Conn, err error) {
	m.mu.Lock()
	if m.conn != conn {
		// Closed by us
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.state = Disconnected
	callback := m.onStateChange
	m.mu.Unlock()

	_ = conn.Close()
	m.drops.Add(1)

	if callback != nil {
		callback(Disconnected)
	}
	logger.Warnf("[FEED] Connection dropped, will try to reconnect in %s: %v", m.opts.HealthInterval, err)
}

func (m *Manager) write(conn *websocket.Conn, messageType int, data []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(messageType, data)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	callback := m.onStateChange
	m.mu.Unlock()

	if callback != nil {
		callback(s)
	}
}
