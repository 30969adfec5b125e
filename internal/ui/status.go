package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/gesturebridge/internal/ipc"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders a running bridge's status as a boxed report
func RenderStatus(s *ipc.Status) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("gesturebridge"))
	b.WriteString("\n")
	b.WriteString(FormatKV("uptime", s.Uptime.Truncate(time.Second)))
	b.WriteString("\n")
	b.WriteString(FormatKV("surface", fmt.Sprintf("%gx%g", s.Width, s.Height)))
	b.WriteString("\n")
	b.WriteString(FormatKV("backend", s.Backend))

	b.WriteString("\n")
	b.WriteString(SectionStyle.Render("Touch feed"))
	b.WriteString("\n")
	if s.FeedEnabled {
		b.WriteString(FormatKV("state", FormatState(s.FeedState)))
		b.WriteString("\n")
		b.WriteString(FormatKV("url", s.FeedURL))
		b.WriteString("\n")
		b.WriteString(FormatKV("attempts", s.FeedAttempts))
		b.WriteString("\n")
		b.WriteString(FormatKV("drops", s.FeedDrops))
		b.WriteString("\n")
		b.WriteString(FormatKV("malformed", s.FeedMalformed))
		b.WriteString("\n")
		b.WriteString(FormatKV("active contacts", s.ActiveContacts))
	} else {
		b.WriteString(SubtleStyle.Render("disabled"))
	}

	b.WriteString("\n")
	b.WriteString(SectionStyle.Render("Mouse device"))
	b.WriteString("\n")
	if s.DeviceEnabled {
		b.WriteString(FormatKV("listen", s.DeviceListen))
	} else {
		b.WriteString(SubtleStyle.Render("disabled"))
	}

	b.WriteString("\n")
	b.WriteString(SectionStyle.Render("Events"))
	b.WriteString("\n")
	b.WriteString(FormatKV("mouse in", s.MouseEvents))
	b.WriteString("\n")
	b.WriteString(FormatKV("touch in", s.TouchEvents))
	b.WriteString("\n")
	b.WriteString(FormatKV("emitted", s.Emitted))
	b.WriteString("\n")
	b.WriteString(FormatKV("dropped", s.Dropped))
	b.WriteString("\n")

	failed := FormatKV("sink failures", s.EmitFailed)
	if s.EmitFailed > 0 {
		failed = KeyStyle.Render("sink failures") + WarningStyle.Render(fmt.Sprint(s.EmitFailed))
	}
	b.WriteString(failed)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, b.String()))
}
