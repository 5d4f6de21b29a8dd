// Package styles provides shared lipgloss styles for folio's terminal output.
//
// Colours come from the active [Theme]; call [Init] after loading config.
// Output written through [NewWriter] is downsampled to what the terminal
// supports, so styles can be rendered unconditionally.
package styles

import (
	"image/color"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Colours of the active theme.
var (
	Primary color.Color = lipgloss.Color("68")
	Accent  color.Color = lipgloss.Color("209")
	Success color.Color = lipgloss.Color("78")
	Error   color.Color = lipgloss.Color("167")
	Muted   color.Color = lipgloss.Color("241")
	Normal  color.Color = lipgloss.Color("253")
	Info    color.Color = lipgloss.Color("110")
	Warning color.Color = lipgloss.Color("179")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	// HighlightStyle marks fuzzy-matched characters.
	HighlightStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true).Underline(true)
)

// NewWriter wraps w so ANSI sequences are downsampled (or stripped) for the
// terminal on the other end. Respects NO_COLOR and pipes.
func NewWriter(w io.Writer) io.Writer {
	return colorprofile.NewWriter(w, os.Environ())
}

// ColorEnabled reports whether w is a terminal that renders colour.
func ColorEnabled(w io.Writer) bool {
	return colorprofile.Detect(w, os.Environ()) != colorprofile.NoTTY
}
