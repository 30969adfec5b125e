// Package display detects the attached monitors so the target surface can
// take the size of the primary output.
package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/gesturebridge/internal/logger"
	"github.com/bnema/gesturebridge/internal/surface"
)

// ErrNoMonitors is returned when detection finds no enabled output
var ErrNoMonitors = errors.New("no active monitors found")

// Monitor represents a physical display
type Monitor struct {
	Name    string
	X       int32 // Position in global coordinate space
	Y       int32
	Width   int32
	Height  int32
	Primary bool
	Scale   float64
}

// Size returns the monitor's mode size as a surface
func (m *Monitor) Size() surface.Size {
	return surface.Size{Width: float64(m.Width), Height: float64(m.Height)}
}

// Backend lists monitors
type Backend interface {
	GetMonitors(ctx context.Context) ([]*Monitor, error)
}

// PrimaryMonitor returns the monitor marked primary, else the one at (0,0),
// else the first one.
func PrimaryMonitor(monitors []*Monitor) (*Monitor, error) {
	if len(monitors) == 0 {
		return nil, ErrNoMonitors
	}
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	for _, m := range monitors {
		if m.X == 0 && m.Y == 0 {
			return m, nil
		}
	}
	return monitors[0], nil
}

// DetectSurface returns the size of the primary monitor reported by backend
func DetectSurface(ctx context.Context, backend Backend) (surface.Size, error) {
	monitors, err := backend.GetMonitors(ctx)
	if err != nil {
		return surface.Size{}, fmt.Errorf("monitor detection failed: %w", err)
	}

	primary, err := PrimaryMonitor(monitors)
	if err != nil {
		return surface.Size{}, err
	}

	logger.Debugf("Primary monitor %s: %dx%d at (%d,%d) scale=%.2f",
		primary.Name, primary.Width, primary.Height, primary.X, primary.Y, primary.Scale)
	return primary.Size(), nil
}
