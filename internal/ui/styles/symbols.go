package styles

import (
	"net/url"
	"path/filepath"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Symbols holds the icon set for check results and project status.
type Symbols struct {
	OK         string
	Warn       string
	Fail       string
	Planning   string
	InProgress string
	Complete   string
}

// Default symbols
var defaultSymbols = Symbols{
	OK:         "✓",
	Warn:       "⚠",
	Fail:       "✗",
	Planning:   "○",
	InProgress: "◐",
	Complete:   "●",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	OK:         "\uf00c", // nf-fa-check
	Warn:       "\uf071", // nf-fa-warning
	Fail:       "\uf00d", // nf-fa-times
	Planning:   "\uf10c", // nf-fa-circle_o
	InProgress: "\uf042", // nf-fa-adjust
	Complete:   "\uf111", // nf-fa-circle
}

var useNerdfont bool

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// FormatStatus returns the coloured symbol and label for a project status.
// Unknown statuses are returned unstyled; empty stays empty.
func FormatStatus(status string) string {
	var sym string
	var style lipgloss.Style
	switch status {
	case "planning":
		sym, style = currentSymbols.Planning, MutedStyle
	case "in-progress":
		sym, style = currentSymbols.InProgress, WarningStyle
	case "complete":
		sym, style = currentSymbols.Complete, SuccessStyle
	default:
		return status
	}
	return style.Render(sym + " " + status)
}

// FormatCheck renders a doctor or validation line prefix.
func FormatCheck(ok bool) string {
	if ok {
		return SuccessStyle.Render(currentSymbols.OK)
	}
	return ErrorStyle.Render(currentSymbols.Fail)
}

// FormatWarn renders the warning symbol.
func FormatWarn() string {
	return WarningStyle.Render(currentSymbols.Warn)
}

// FormatPath renders path as an OSC 8 file:// hyperlink showing text.
// Relative paths are returned as plain text.
func FormatPath(path, text string) string {
	if text == "" {
		text = path
	}
	if !filepath.IsAbs(path) {
		return text
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return ansi.SetHyperlink(u.String()) + text + ansi.ResetHyperlink()
}
