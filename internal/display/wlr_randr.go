package display

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/bnema/gesturebridge/internal/logger"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WlrRandr detects monitors with `wlr-randr --json`
type WlrRandr struct {
	// Run returns the command output. nil runs wlr-randr.
	Run func(ctx context.Context) ([]byte, error)
}

// NewWlrRandr checks that wlr-randr is installed
func NewWlrRandr() (*WlrRandr, error) {
	if _, err := exec.LookPath("wlr-randr"); err != nil {
		return nil, fmt.Errorf("wlr-randr not found. Please install wlr-randr: https://gitlab.freedesktop.org/emersion/wlr-randr")
	}
	return &WlrRandr{}, nil
}

type wlrOutput struct {
	Name     string  `json:"name"`
	Enabled  bool    `json:"enabled"`
	Scale    float64 `json:"scale"`
	Position struct {
		X int32 `json:"x"`
		Y int32 `json:"y"`
	} `json:"position"`
	Modes []struct {
		Width   int32   `json:"width"`
		Height  int32   `json:"height"`
		Refresh float64 `json:"refresh"`
		Current bool    `json:"current"`
	} `json:"modes"`
}

func (w *WlrRandr) GetMonitors(ctx context.Context) ([]*Monitor, error) {
	run := w.Run
	if run == nil {
		run = func(ctx context.Context) ([]byte, error) {
			return exec.CommandContext(ctx, "wlr-randr", "--json").Output()
		}
	}

	output, err := run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run wlr-randr: %w", err)
	}
	return parseWlrRandr(output)
}

func parseWlrRandr(output []byte) ([]*Monitor, error) {
	var outputs []wlrOutput
	if err := json.Unmarshal(output, &outputs); err != nil {
		return nil, fmt.Errorf("failed to parse wlr-randr output: %w", err)
	}

	var monitors []*Monitor
	for _, o := range outputs {
		if !o.Enabled {
			continue
		}

		m := &Monitor{
			Name:  o.Name,
			X:     o.Position.X,
			Y:     o.Position.Y,
			Scale: o.Scale,
		}
		if m.Scale == 0 {
			m.Scale = 1.0
		}
		for _, mode := range o.Modes {
			if mode.Current {
				m.Width, m.Height = mode.Width, mode.Height
				break
			}
		}

		// Skip monitors with invalid dimensions
		if m.Width <= 0 || m.Height <= 0 {
			logger.Warnf("Skipping monitor %s with invalid dimensions: %dx%d", m.Name, m.Width, m.Height)
			continue
		}
		monitors = append(monitors, m)
	}

	if len(monitors) == 0 {
		return nil, ErrNoMonitors
	}
	return monitors, nil
}
