// Package ipc exposes the status of a running bridge over a unix socket.
// Frames are a 4-byte big-endian length followed by a protobuf Struct.
package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/gesturebridge/internal/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

// StatusProvider produces the status reported to clients
type StatusProvider interface {
	Status() Status
}

// StatusFunc adapts a function to StatusProvider
type StatusFunc func() Status

func (f StatusFunc) Status() Status { return f() }

// SocketServer handles incoming IPC connections
type SocketServer struct {
	mu         sync.Mutex
	listener   net.Listener
	socketPath string
	provider   StatusProvider
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	running    bool
}

// NewSocketServer creates a server at the default socket path
func NewSocketServer(provider StatusProvider) *SocketServer {
	return NewSocketServerAt(GetSocketPath(), provider)
}

// NewSocketServerAt creates a server listening on socketPath
func NewSocketServerAt(socketPath string, provider StatusProvider) *SocketServer {
	return &SocketServer{
		socketPath: socketPath,
		provider:   provider,
	}
}

// Path returns the socket path
func (s *SocketServer) Path() string {
	return s.socketPath
}

// Start starts the socket server
func (s *SocketServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// Remove a stale socket left by a previous run
	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	// User only
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptConnections(ctx)

	logger.Infof("IPC socket server started at %s", s.socketPath)
	return nil
}

// Stop stops the socket server and removes the socket file
func (s *SocketServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.wg.Wait()
	_ = os.RemoveAll(s.socketPath)

	logger.Info("IPC socket server stopped")
}

func (s *SocketServer) acceptConnections(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logger.Errorf("Failed to accept connection: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() { _ = conn.Close() }()

	// Unblock the read below on shutdown
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	logger.Debug("New IPC connection established")

	for {
		msg, err := readMessage(conn)
		if err != nil {
			logger.Debugf("Connection closed or read error: %v", err)
			return
		}

		if err := writeMessage(conn, s.handleMessage(msg)); err != nil {
			logger.Errorf("Failed to send response: %v", err)
			return
		}
	}
}

func (s *SocketServer) handleMessage(msg *structpb.Struct) *structpb.Struct {
	switch MessageType(msg) {
	case TypeStatus:
		return s.provider.Status().ToStruct()
	default:
		return NewErrorMessage(fmt.Sprintf("Unknown message type: %q", MessageType(msg)))
	}
}

// GetSocketPath returns $XDG_RUNTIME_DIR/gesturebridge.sock, falling back to
// a per-user path under /tmp.
func GetSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "gesturebridge.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("gesturebridge-%d.sock", os.Getuid()))
}
