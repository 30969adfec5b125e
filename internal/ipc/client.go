package ipc

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/bnema/gesturebridge/internal/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client queries a running bridge
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path
func NewClient() *Client {
	return NewClientAt(GetSocketPath(), 5*time.Second)
}

// NewClientAt creates a client for socketPath
func NewClientAt(socketPath string, timeout time.Duration) *Client {
	return &Client{socketPath: socketPath, timeout: timeout}
}

// SendStatus asks the running bridge for its status
func (c *Client) SendStatus() (*Status, error) {
	response, err := c.sendMessage(NewStatusQuery())
	if err != nil {
		return nil, err
	}
	return StatusFromStruct(response)
}

// IsRunning reports whether a bridge answers on the socket
func (c *Client) IsRunning() bool {
	_, err := c.SendStatus()
	return err == nil
}

func (c *Client) sendMessage(msg *structpb.Struct) (*structpb.Struct, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isNotListening(err) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("failed to connect to gesturebridge: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close IPC connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeMessage(conn, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	response, err := readMessage(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return response, nil
}

// isNotListening matches a missing socket file or a refused connection
func isNotListening(err error) bool {
	return errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED)
}
