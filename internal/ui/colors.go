package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Spotify green for titles; the rest match common terminal status colors.
const (
	colorTitle = "#1DB954"
	colorOK    = "#04B575"
	colorErr   = "#FF0000"
	colorWarn  = "#FFA500"
	colorHelp  = "#626262"
)

var styles = NewPalette(colorTitle, colorOK, colorErr, colorWarn, colorHelp)

// Palette holds one [lipgloss.Style] per kind of status text.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette builds a palette from hex foreground colors. Titles, successes and errors are bold, help is italic.
func NewPalette(title, ok, errColor, warn, help string) *Palette {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return &Palette{
		title: fg(title).Bold(true),
		ok:    fg(ok).Bold(true),
		err:   fg(errColor).Bold(true),
		warn:  fg(warn),
		help:  fg(help).Italic(true),
	}
}
