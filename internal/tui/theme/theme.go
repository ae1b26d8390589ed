// Package theme holds the palette of the console printer and the page browser.
package theme

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.Color("63")
	ColorOK     = lipgloss.Color("42")
	ColorWarn   = lipgloss.Color("229")
	ColorFail   = lipgloss.Color("196")
	ColorDim    = lipgloss.Color("245")
	ColorRule   = lipgloss.Color("238")

	colorBarBg = lipgloss.Color("236")
	colorBarFg = lipgloss.Color("252")
)

var (
	// StyleFrame wraps the contact table.
	StyleFrame = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent)

	// StyleHeading renders titles and column headers.
	StyleHeading = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleDim  = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFail = lipgloss.NewStyle().Foreground(ColorFail)

	StyleStatusBar = lipgloss.NewStyle().
			Background(colorBarBg).
			Foreground(colorBarFg).
			Padding(0, 1)
)
