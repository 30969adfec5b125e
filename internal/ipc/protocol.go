package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message types carried in the "type" field of every frame
const (
	TypeStatus         = "status"
	TypeStatusResponse = "status_response"
	TypeError          = "error"
)

// maxFrameSize bounds a single frame
const maxFrameSize = 1 << 20

var (
	// ErrNotRunning is returned when no bridge is listening on the socket
	ErrNotRunning = errors.New("gesturebridge is not running")
	// ErrFrameTooLarge is returned for a frame over maxFrameSize
	ErrFrameTooLarge = errors.New("ipc frame too large")
)

// Status is the snapshot a running bridge reports
type Status struct {
	FeedEnabled   bool
	FeedState     string
	FeedURL       string
	DeviceEnabled bool
	DeviceListen  string
	Backend       string
	Width         float64
	Height        float64
	Uptime        time.Duration

	ActiveContacts int64
	MouseEvents    int64
	TouchEvents    int64
	Dropped        int64
	Emitted        int64
	EmitFailed     int64
	FeedAttempts   int64
	FeedDrops      int64
	FeedMalformed  int64
}

// NewStatusQuery creates a status request
func NewStatusQuery() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type": structpb.NewStringValue(TypeStatus),
	}}
}

// NewErrorMessage creates an error response
func NewErrorMessage(msg string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":  structpb.NewStringValue(TypeError),
		"error": structpb.NewStringValue(msg),
	}}
}

// MessageType returns the "type" field of msg
func MessageType(msg *structpb.Struct) string {
	return msg.GetFields()["type"].GetStringValue()
}

// ToStruct encodes s as a status response
func (s Status) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"type":            structpb.NewStringValue(TypeStatusResponse),
		"feed_enabled":    structpb.NewBoolValue(s.FeedEnabled),
		"feed_state":      structpb.NewStringValue(s.FeedState),
		"feed_url":        structpb.NewStringValue(s.FeedURL),
		"device_enabled":  structpb.NewBoolValue(s.DeviceEnabled),
		"device_listen":   structpb.NewStringValue(s.DeviceListen),
		"backend":         structpb.NewStringValue(s.Backend),
		"width":           structpb.NewNumberValue(s.Width),
		"height":          structpb.NewNumberValue(s.Height),
		"uptime_seconds":  structpb.NewNumberValue(s.Uptime.Seconds()),
		"active_contacts": structpb.NewNumberValue(float64(s.ActiveContacts)),
		"mouse_events":    structpb.NewNumberValue(float64(s.MouseEvents)),
		"touch_events":    structpb.NewNumberValue(float64(s.TouchEvents)),
		"dropped":         structpb.NewNumberValue(float64(s.Dropped)),
		"emitted":         structpb.NewNumberValue(float64(s.Emitted)),
		"emit_failed":     structpb.NewNumberValue(float64(s.EmitFailed)),
		"feed_attempts":   structpb.NewNumberValue(float64(s.FeedAttempts)),
		"feed_drops":      structpb.NewNumberValue(float64(s.FeedDrops)),
		"feed_malformed":  structpb.NewNumberValue(float64(s.FeedMalformed)),
	}}
}

// StatusFromStruct decodes a status response
func StatusFromStruct(msg *structpb.Struct) (*Status, error) {
	switch MessageType(msg) {
	case TypeStatusResponse:
	case TypeError:
		return nil, fmt.Errorf("server error: %s", msg.GetFields()["error"].GetStringValue())
	default:
		return nil, fmt.Errorf("unexpected response type: %q", MessageType(msg))
	}

	f := msg.GetFields()
	count := func(key string) int64 { return int64(f[key].GetNumberValue()) }

	return &Status{
		FeedEnabled:    f["feed_enabled"].GetBoolValue(),
		FeedState:      f["feed_state"].GetStringValue(),
		FeedURL:        f["feed_url"].GetStringValue(),
		DeviceEnabled:  f["device_enabled"].GetBoolValue(),
		DeviceListen:   f["device_listen"].GetStringValue(),
		Backend:        f["backend"].GetStringValue(),
		Width:          f["width"].GetNumberValue(),
		Height:         f["height"].GetNumberValue(),
		Uptime:         time.Duration(f["uptime_seconds"].GetNumberValue() * float64(time.Second)),
		ActiveContacts: count("active_contacts"),
		MouseEvents:    count("mouse_events"),
		TouchEvents:    count("touch_events"),
		Dropped:        count("dropped"),
		Emitted:        count("emitted"),
		EmitFailed:     count("emit_failed"),
		FeedAttempts:   count("feed_attempts"),
		FeedDrops:      count("feed_drops"),
		FeedMalformed:  count("feed_malformed"),
	}, nil
}

// readMessage reads one length-prefixed frame
func readMessage(r io.Reader) (*structpb.Struct, error) {
	// Message length (4 bytes, big endian)
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read message length: %w", err)
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read message data: %w", err)
	}

	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}

// writeMessage writes one length-prefixed frame
func writeMessage(w io.Writer, msg *structpb.Struct) error {
	data, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	length := uint32(len(data)) //nolint:gosec // bounded by maxFrameSize on read
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write message data: %w", err)
	}
	return nil
}
