// Package ui provides consistent styling for the gesturebridge CLI
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette, consistent across the application
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray

	ColorConnected    = ColorSuccess
	ColorConnecting   = ColorWarning
	ColorDisconnected = ColorError
)

var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Icons and indicators
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconSetup   = "»"

	ConnectedIndicator = lipgloss.NewStyle().
				Foreground(ColorConnected).
				Render("●")

	ConnectingIndicator = lipgloss.NewStyle().
				Foreground(ColorConnecting).
				Render("◐")

	DisconnectedIndicator = lipgloss.NewStyle().
				Foreground(ColorDisconnected).
				Render("○")
)

// FormatState renders a feed connection state with its indicator
func FormatState(state string) string {
	switch state {
	case "connected":
		return ConnectedIndicator + " " + SuccessStyle.Render(state)
	case "connecting":
		return ConnectingIndicator + " " + WarningStyle.Render(state)
	default:
		return DisconnectedIndicator + " " + ErrorStyle.Render(state)
	}
}

// FormatKV renders one aligned key/value line
func FormatKV(key string, value any) string {
	return KeyStyle.Render(key) + ValueStyle.Render(fmt.Sprint(value))
}

// FormatSetupHeader renders the header of an interactive setup step
func FormatSetupHeader(title string) string {
	coloredIcon := InfoStyle.Render(IconSetup)
	header := HeaderStyle.Render(coloredIcon + " " + title)
	return header + "\n" + CreateSeparator(50, "─")
}

// FormatSetupResult renders the outcome of a setup step
func FormatSetupResult(success bool, step, message string) string {
	icon := SuccessStyle.Render(IconSuccess)
	style := SuccessStyle
	if !success {
		icon = ErrorStyle.Render(IconError)
		style = ErrorStyle
	}

	result := "   " + icon + " " + step
	if message != "" {
		result += " - " + style.Render(message)
	}
	return result
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50
	}
	if char == "" {
		char = "─"
	}

	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
