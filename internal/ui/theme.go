package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/player"
)

// ArtworkTheme derives its colors from the playing artwork.
const ArtworkTheme = "Artwork"

// Theme defines colors for the kiosk.
type Theme struct {
	Name string

	Background string
	Surface    string
	Text       string
	Muted      string
	Faint      string
	Accent     string
	AccentAlt  string
	Warning    string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Background lipgloss.Style
	Title      lipgloss.Style
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	FaintText  lipgloss.Style
	AccentText lipgloss.Style
	Warning    lipgloss.Style
	Selected   lipgloss.Style
	Clock      lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)).
			Foreground(lipgloss.Color(t.Text)),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Warning)).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Accent)).
			Bold(true),

		Clock: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
	}
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{ArtworkTheme, "Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name. The artwork theme is built from colors.
func GetTheme(name string, colors player.ImageColors) Theme {
	if name == ArtworkTheme {
		return artworkTheme(colors)
	}
	if t, ok := themes[name]; ok {
		return t
	}
	return artworkTheme(colors)
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// artworkTheme uses the secondary color as the backdrop and the primary color
// as the accent. Text flips to dark on bright artwork.
func artworkTheme(colors player.ImageColors) Theme {
	t := Theme{
		Name:       ArtworkTheme,
		Background: hexColor(darken(colors.Secondary, 0.6)),
		Surface:    hexColor(darken(colors.Secondary, 0.45)),
		Text:       "#f2f2f2",
		Muted:      "#b8b8b8",
		Faint:      "#8a8a8a",
		Accent:     hexColor(colors.Primary),
		AccentAlt:  hexColor(colors.Secondary),
		Warning:    "#dbc074",
	}
	if luminance(colors.Primary) < 0.25 {
		t.Accent = hexColor(lighten(colors.Primary, 0.5))
	}
	return t
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:       "Nightfox",
		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		Text:       "#cdcecf", // fg1
		Muted:      "#738091", // comment
		Faint:      "#71839b", // fg3
		Accent:     "#719cd6", // blue
		AccentAlt:  "#9d79d6", // magenta
		Warning:    "#dbc074", // yellow
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name:       "Kanagawa",
		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		Text:       "#DCD7BA", // fujiWhite
		Muted:      "#C8C093", // oldWhite
		Faint:      "#727169", // fujiGray
		Accent:     "#7E9CD8", // crystalBlue
		AccentAlt:  "#957FB8", // oniViolet
		Warning:    "#E6C384", // carpYellow
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name:       "Slate",
		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		Text:       "#e2e8f0", // slate-200
		Muted:      "#94a3b8", // slate-400
		Faint:      "#64748b", // slate-500
		Accent:     "#38bdf8", // sky-400
		AccentAlt:  "#0284c7", // sky-600
		Warning:    "#fbbf24", // amber-400
	}
}

func hexColor(c player.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func darken(c player.RGB, amount float64) player.RGB {
	f := 1 - amount
	return player.RGB{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f)}
}

func lighten(c player.RGB, amount float64) player.RGB {
	up := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*amount) }
	return player.RGB{R: up(c.R), G: up(c.G), B: up(c.B)}
}

// luminance is the relative brightness in [0, 1].
func luminance(c player.RGB) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}
