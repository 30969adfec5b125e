// Package setup runs the interactive first-run configuration and the
// environment checks behind the setup command.
package setup

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/gesturebridge/internal/config"
	"github.com/charmbracelet/huh"
	"golang.org/x/sys/unix"
)

var (
	// ErrInvalidNumber is returned for a surface dimension that is not a positive number
	ErrInvalidNumber = errors.New("must be a positive number")
	// ErrInvalidURL is returned for a feed address that is not a ws:// or wss:// URL
	ErrInvalidURL = errors.New("must be a ws:// or wss:// URL")
	// ErrInvalidAddress is returned for a listen address that is not host:port
	ErrInvalidAddress = errors.New("must be host:port")
)

// Answers holds the wizard fields as the form edits them
type Answers struct {
	Width  string
	Height string
	Target string

	FeedEnabled bool
	FeedURL     string

	DeviceEnabled bool
	DeviceListen  string

	Backend string
}

// AnswersFrom prefills the wizard from c
func AnswersFrom(c *config.Config) *Answers {
	return &Answers{
		Width:         strconv.FormatFloat(c.Surface.Width, 'f', -1, 64),
		Height:        strconv.FormatFloat(c.Surface.Height, 'f', -1, 64),
		Target:        c.Surface.Target,
		FeedEnabled:   c.Feed.Enabled,
		FeedURL:       c.Feed.URL,
		DeviceEnabled: c.Device.Enabled,
		DeviceListen:  c.Device.Listen,
		Backend:       c.Output.Backend,
	}
}

// Apply writes the answers into a copy of base and validates the result
func (a *Answers) Apply(base *config.Config) (*config.Config, error) {
	out := *base

	width, err := parseDimension(a.Width)
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	height, err := parseDimension(a.Height)
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	out.Surface.Width = width
	out.Surface.Height = height
	if t := strings.TrimSpace(a.Target); t != "" {
		out.Surface.Target = t
	}

	out.Feed.Enabled = a.FeedEnabled
	if a.FeedEnabled {
		if err := validateFeedURL(a.FeedURL); err != nil {
			return nil, fmt.Errorf("feed url: %w", err)
		}
		out.Feed.URL = strings.TrimSpace(a.FeedURL)
	}

	out.Device.Enabled = a.DeviceEnabled
	if a.DeviceEnabled {
		if err := validateListen(a.DeviceListen); err != nil {
			return nil, fmt.Errorf("device listen: %w", err)
		}
		out.Device.Listen = strings.TrimSpace(a.DeviceListen)
	}

	out.Output.Backend = a.Backend

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Form builds the interactive form bound to a
func Form(a *Answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Target surface").
				Description("Normalized coordinates are projected onto this size"),
			huh.NewInput().
				Title("Width").
				Value(&a.Width).
				Validate(func(s string) error { _, err := parseDimension(s); return err }),
			huh.NewInput().
				Title("Height").
				Value(&a.Height).
				Validate(func(s string) error { _, err := parseDimension(s); return err }),
			huh.NewInput().
				Title("Target element").
				Value(&a.Target),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable the touch feed?").
				Value(&a.FeedEnabled),
			huh.NewInput().
				Title("Touch feed URL").
				Value(&a.FeedURL).
				Validate(func(s string) error {
					if !a.FeedEnabled {
						return nil
					}
					return validateFeedURL(s)
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable the mouse device?").
				Value(&a.DeviceEnabled),
			huh.NewInput().
				Title("Device listen address").
				Value(&a.DeviceListen).
				Validate(func(s string) error {
					if !a.DeviceEnabled {
						return nil
					}
					return validateListen(s)
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output backend").
				Options(
					huh.NewOption("uinput (inject into the OS)", config.BackendUinput),
					huh.NewOption("log (dry run)", config.BackendLog),
				).
				Value(&a.Backend),
		),
	)
}

// Check is the outcome of one environment check
type Check struct {
	Name    string
	OK      bool
	Message string
}

// CheckEnvironment verifies what the configured backend needs
func CheckEnvironment(c *config.Config) []Check {
	var checks []Check

	if c.Output.Backend == config.BackendUinput {
		checks = append(checks, checkUinput(c.Output.UinputPath))
	}
	if c.Device.Enabled {
		checks = append(checks, checkListen(c.Device.Listen))
	}
	return checks
}

func checkUinput(path string) Check {
	if _, err := os.Stat(path); err != nil {
		return Check{Name: "uinput", Message: fmt.Sprintf("%s not found (try: sudo modprobe uinput)", path)}
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return Check{Name: "uinput", Message: fmt.Sprintf("%s not writable (try: sudo chmod 666 %s or add user to input group)", path, path)}
	}
	return Check{Name: "uinput", OK: true, Message: path + " writable"}
}

func checkListen(addr string) Check {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return Check{Name: "device", Message: fmt.Sprintf("cannot listen on %s: %v", addr, err)}
	}
	_ = conn.Close()
	return Check{Name: "device", OK: true, Message: addr + " available"}
}

func parseDimension(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

func validateFeedURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

func validateListen(s string) error {
	if _, _, err := net.SplitHostPort(strings.TrimSpace(s)); err != nil {
		return ErrInvalidAddress
	}
	return nil
}
