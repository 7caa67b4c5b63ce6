// Package theme defines color themes for the advisor TUI.
package theme

import (
	"github.com/theirongolddev/advisor/internal/present"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Highlighted surface (active tab, selected row)
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderBright  lipgloss.Color
	BorderAccent  lipgloss.Color // Focus borders
	TextDim       lipgloss.Color // Hints, disabled
	TextMuted     lipgloss.Color // Labels, metadata
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	AccentDim     lipgloss.Color
	Green         lipgloss.Color
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Blue          lipgloss.Color
	BlueBright    lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// Active is the currently selected theme.
var Active = Indigo

// Indigo is the default theme: slate surfaces with an indigo accent.
var Indigo = Theme{
	Name:          "indigo",
	Background:    lipgloss.Color("#0F172A"),
	Surface:       lipgloss.Color("#1E293B"),
	SurfaceHover:  lipgloss.Color("#334155"),
	SurfaceBright: lipgloss.Color("#475569"),
	Border:        lipgloss.Color("#334155"),
	BorderBright:  lipgloss.Color("#64748B"),
	BorderAccent:  lipgloss.Color("#6366F1"),
	TextDim:       lipgloss.Color("#64748B"),
	TextMuted:     lipgloss.Color("#94A3B8"),
	TextPrimary:   lipgloss.Color("#F1F5F9"),
	Accent:        lipgloss.Color("#6366F1"),
	AccentBright:  lipgloss.Color("#818CF8"),
	AccentDim:     lipgloss.Color("#312E81"),
	Green:         lipgloss.Color("#10B981"),
	GreenBright:   lipgloss.Color("#34D399"),
	Orange:        lipgloss.Color("#F97316"),
	Red:           lipgloss.Color("#EF4444"),
	Blue:          lipgloss.Color("#3B82F6"),
	BlueBright:    lipgloss.Color("#60A5FA"),
	Yellow:        lipgloss.Color("#F59E0B"),
	Magenta:       lipgloss.Color("#A855F7"),
	Cyan:          lipgloss.Color("#06B6D4"),
}

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderBright:  lipgloss.Color("#575653"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	AccentDim:     lipgloss.Color("#1A3533"),
	Green:         lipgloss.Color("#879A39"),
	GreenBright:   lipgloss.Color("#A3B859"),
	Orange:        lipgloss.Color("#DA702C"),
	Red:           lipgloss.Color("#D14D41"),
	Blue:          lipgloss.Color("#4385BE"),
	BlueBright:    lipgloss.Color("#6BA3D6"),
	Yellow:        lipgloss.Color("#D0A215"),
	Magenta:       lipgloss.Color("#CE5D97"),
	Cyan:          lipgloss.Color("#24837B"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("5"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("5"),
	AccentBright:  lipgloss.Color("13"),
	AccentDim:     lipgloss.Color("0"),
	Green:         lipgloss.Color("2"),
	GreenBright:   lipgloss.Color("10"),
	Orange:        lipgloss.Color("3"),
	Red:           lipgloss.Color("1"),
	Blue:          lipgloss.Color("4"),
	BlueBright:    lipgloss.Color("12"),
	Yellow:        lipgloss.Color("11"),
	Magenta:       lipgloss.Color("5"),
	Cyan:          lipgloss.Color("6"),
}

// All available themes.
var All = []Theme{Indigo, FlexokiDark, Terminal}

// ByName returns a theme by its name, defaulting to Indigo.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Indigo
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Role resolves a presentation role to this theme's color.
func (t Theme) Role(r present.Role) lipgloss.Color {
	switch r {
	case present.RoleAccent:
		return t.Accent
	case present.RoleGreen:
		return t.Green
	case present.RoleBlue:
		return t.Blue
	case present.RoleCyan:
		return t.Cyan
	case present.RoleYellow:
		return t.Yellow
	case present.RoleOrange:
		return t.Orange
	case present.RoleRed:
		return t.Red
	case present.RoleMagenta:
		return t.Magenta
	default:
		return t.TextMuted
	}
}
