// Package color names the terminal colors used outside the TUI palette.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors, which follow the user's terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	HiRed  = New("9")
	HiBlue = New("12")
)

var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)
