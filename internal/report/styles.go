// Package report renders analysis results for the terminal.
package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/venueops/registerwatch/internal/model"
)

// Styles contains the styling definitions for report rendering.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Subtle   lipgloss.Style
	Error    lipgloss.Style
	Normal   lipgloss.Style

	// Activity-level styles mirror the dashboard palette: gold for High,
	// grey shades for Mid and Low.
	High lipgloss.Style
	Mid  lipgloss.Style
	Low  lipgloss.Style

	Unmanned lipgloss.Style
	Masked   lipgloss.Style

	Header lipgloss.Style
	Cell   lipgloss.Style
}

// NewStyles creates a Styles instance with the default palette.
func NewStyles() *Styles {
	subtle := lipgloss.Color("#666666")
	s := &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle).
			MarginBottom(1),
		Subtle: lipgloss.NewStyle().
			Foreground(subtle),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		Normal: lipgloss.NewStyle(),

		High: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")),
		Mid: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9A9A9")),
		Low: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D3D3D3")),

		Unmanned: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")),
		Masked: lipgloss.NewStyle().
			Foreground(subtle),

		Header: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#333")),
		Cell: lipgloss.NewStyle().
			PaddingRight(1),
	}
	return s
}

// levelStyle picks the style for an activity level.
func (s *Styles) levelStyle(level model.ActivityLevel) lipgloss.Style {
	switch level {
	case model.ActivityHigh:
		return s.High
	case model.ActivityLow:
		return s.Low
	default:
		return s.Mid
	}
}
