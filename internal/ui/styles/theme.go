package styles

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/raphi011/folio/internal/config"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // main accent color (borders, titles)
	Accent  color.Color // highlight color (selected items)
	Success color.Color // success indicators (checkmarks)
	Error   color.Color // error messages
	Muted   color.Color // disabled/inactive text
	Normal  color.Color // standard text
	Info    color.Color // informational text
	Warning color.Color // warning indicators (stale items)
}

// themeFamily groups light and dark variants of a theme
type themeFamily struct {
	Light *Theme // nil if no light variant
	Dark  *Theme // nil if no dark variant
}

var (
	// DefaultTheme uses the 256-colour palette so it renders on any terminal.
	DefaultTheme = Theme{
		Primary: lipgloss.Color("68"),  // steel blue
		Accent:  lipgloss.Color("209"), // salmon
		Success: lipgloss.Color("78"),  // green
		Error:   lipgloss.Color("167"), // red
		Muted:   lipgloss.Color("241"), // gray
		Normal:  lipgloss.Color("253"), // off-white
		Info:    lipgloss.Color("110"), // light blue
		Warning: lipgloss.Color("179"), // ochre
	}

	// DefaultLightTheme is DefaultTheme darkened for light backgrounds.
	DefaultLightTheme = Theme{
		Primary: lipgloss.Color("25"),
		Accent:  lipgloss.Color("166"),
		Success: lipgloss.Color("28"),
		Error:   lipgloss.Color("124"),
		Muted:   lipgloss.Color("245"),
		Normal:  lipgloss.Color("236"),
		Info:    lipgloss.Color("31"),
		Warning: lipgloss.Color("130"),
	}

	// StudioTheme takes its colours from print proofing: ink, paper and
	// press marks. Needs a truecolor terminal to look as intended.
	StudioTheme = Theme{
		Primary: lipgloss.Color("#7aa6da"), // cyan plate
		Accent:  lipgloss.Color("#e78a4e"), // proof orange
		Success: lipgloss.Color("#8fbf7f"),
		Error:   lipgloss.Color("#d75f5f"),
		Muted:   lipgloss.Color("#5f6672"),
		Normal:  lipgloss.Color("#e6e1d6"), // paper
		Info:    lipgloss.Color("#9fb8c8"),
		Warning: lipgloss.Color("#e0b45c"),
	}

	StudioLightTheme = Theme{
		Primary: lipgloss.Color("#2f5f8a"),
		Accent:  lipgloss.Color("#b4531f"),
		Success: lipgloss.Color("#3f7a3a"),
		Error:   lipgloss.Color("#a82a2a"),
		Muted:   lipgloss.Color("#8a8f98"),
		Normal:  lipgloss.Color("#2b2a28"), // ink
		Info:    lipgloss.Color("#4a6b80"),
		Warning: lipgloss.Color("#9a6a10"),
	}

	// NoneTheme leaves colour to the terminal. Bold and italic still apply.
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

// themeFamilies is keyed by config.ValidThemeNames.
var themeFamilies = map[string]themeFamily{
	"default": {Light: &DefaultLightTheme, Dark: &DefaultTheme},
	"studio":  {Light: &StudioLightTheme, Dark: &StudioTheme},
	"none":    {Light: &NoneTheme, Dark: &NoneTheme},
}

// Apply makes t the active theme without consulting config.
func Apply(t Theme) {
	currentTheme = t
	applyTheme(t)
}

// currentTheme holds the active theme
var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// Init initializes the theme from config.
// Call this after loading config and before rendering any table.
func Init(cfg config.ThemeConfig) {
	Apply(selectTheme(cfg))
	SetNerdfont(cfg.Nerdfont)
}

// selectTheme picks the family variant for cfg.Mode. "auto" (or empty)
// asks the terminal for its background colour.
func selectTheme(cfg config.ThemeConfig) Theme {
	family, ok := themeFamilies[cfg.Name]
	if !ok {
		family = themeFamilies["default"]
	}

	var theme *Theme
	switch cfg.Mode {
	case "light":
		theme = family.Light
	case "dark":
		theme = family.Dark
	default:
		if lipgloss.HasDarkBackground(os.Stdin, os.Stderr) {
			theme = family.Dark
		} else {
			theme = family.Light
		}
	}

	// Fall back if the requested variant doesn't exist
	switch {
	case theme != nil:
		return *theme
	case family.Dark != nil:
		return *family.Dark
	case family.Light != nil:
		return *family.Light
	}
	return DefaultTheme
}

// applyTheme updates all global style variables to use the given theme
func applyTheme(t Theme) {
	// Update color variables
	Primary = t.Primary
	Accent = t.Accent
	Success = t.Success
	Error = t.Error
	Muted = t.Muted
	Normal = t.Normal
	Info = t.Info
	Warning = t.Warning

	// Update style variables
	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Normal)
	InfoStyle = lipgloss.NewStyle().Foreground(t.Info).Italic(true)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)

	// Update highlight style
	HighlightStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Underline(true)
}

// GetPreset returns a theme preset by name, or nil if not found.
// For theme families with variants, returns the dark variant.
func GetPreset(name string) *Theme {
	if family, ok := themeFamilies[name]; ok {
		if family.Dark != nil {
			return family.Dark
		}
		return family.Light
	}
	return nil
}

// PresetNames returns the available theme families.
func PresetNames() []string {
	return config.ValidThemeNames
}
