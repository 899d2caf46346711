package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/campusreels/crfind/internal/search"
)

// ColorScheme holds all adaptive color definitions for the TUI
type ColorScheme struct {
	// Title and branding
	Title       lipgloss.AdaptiveColor
	CampusWave  string // Pre-rendered gradient wave
	Version     lipgloss.AdaptiveColor
	LibraryInfo lipgloss.AdaptiveColor

	// Input prompt
	Prompt lipgloss.AdaptiveColor

	// Entry list
	Normal     lipgloss.AdaptiveColor
	Selected   lipgloss.AdaptiveColor
	SelectedBg lipgloss.AdaptiveColor
	Highlight  lipgloss.AdaptiveColor // For query match highlighting
	Snippet    lipgloss.AdaptiveColor

	// Kind badges
	KindReel    lipgloss.AdaptiveColor
	KindPost    lipgloss.AdaptiveColor
	KindPointer lipgloss.AdaptiveColor
	KindUser    lipgloss.AdaptiveColor
	KindCourse  lipgloss.AdaptiveColor

	// Status and counts
	Count       lipgloss.AdaptiveColor
	CountActive lipgloss.AdaptiveColor

	// Indicators
	Cursor lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor

	// Status indicators
	StatusActive lipgloss.AdaptiveColor // Green for loading
	StatusError  lipgloss.AdaptiveColor // Red for errors
	StatusIdle   lipgloss.AdaptiveColor // Gray for idle

	// Help text
	Help lipgloss.AdaptiveColor
}

// NewColorScheme creates a new color scheme with adaptive colors for terminal theme
func NewColorScheme() *ColorScheme {
	return &ColorScheme{
		// Title: bright cyan for dark, darker blue for light
		Title: lipgloss.AdaptiveColor{
			Light: "#0066CC",
			Dark:  "#5AD4E6",
		},

		// CampusReels gradient wave (generated once)
		CampusWave: renderCampusWave(),

		Version: lipgloss.AdaptiveColor{
			Light: "#666666",
			Dark:  "#6967A3",
		},

		LibraryInfo: lipgloss.AdaptiveColor{
			Light: "#666666",
			Dark:  "#6967A3",
		},

		// Prompt: CampusReels maroon
		Prompt: lipgloss.AdaptiveColor{
			Light: "#8C1D40",
			Dark:  "#D4637F",
		},

		Normal: lipgloss.AdaptiveColor{
			Light: "#1A1A1A",
			Dark:  "#F7F1FF",
		},

		Selected: lipgloss.AdaptiveColor{
			Light: "#000000",
			Dark:  "#E4E4E4",
		},

		SelectedBg: lipgloss.AdaptiveColor{
			Light: "#E0E0E0",
			Dark:  "#303030",
		},

		// Query match highlight: gold
		Highlight: lipgloss.AdaptiveColor{
			Light: "#B8860B",
			Dark:  "#FFC627",
		},

		Snippet: lipgloss.AdaptiveColor{
			Light: "#737373",
			Dark:  "#999999",
		},

		// Kind badges: one hue per content kind
		KindReel: lipgloss.AdaptiveColor{
			Light: "#C2410C",
			Dark:  "#FC9867",
		},
		KindPost: lipgloss.AdaptiveColor{
			Light: "#0E7490",
			Dark:  "#5AD4E6",
		},
		KindPointer: lipgloss.AdaptiveColor{
			Light: "#15803D",
			Dark:  "#7BD88F",
		},
		KindUser: lipgloss.AdaptiveColor{
			Light: "#7C3AED",
			Dark:  "#B195F5",
		},
		KindCourse: lipgloss.AdaptiveColor{
			Light: "#B45309",
			Dark:  "#FFC627",
		},

		Count: lipgloss.AdaptiveColor{
			Light: "#666666",
			Dark:  "#6967A3",
		},

		CountActive: lipgloss.AdaptiveColor{
			Light: "#B8860B",
			Dark:  "#FFC627",
		},

		// Cursor indicator: maroon accent
		Cursor: lipgloss.AdaptiveColor{
			Light: "#8C1D40",
			Dark:  "#D4637F",
		},

		// Muted entries: very muted
		Muted: lipgloss.AdaptiveColor{
			Light: "#A3A3A3",
			Dark:  "#5A5A5A",
		},

		StatusActive: lipgloss.AdaptiveColor{
			Light: "#16A34A",
			Dark:  "#7BD88F",
		},

		StatusError: lipgloss.AdaptiveColor{
			Light: "#DC2626",
			Dark:  "#FC618D",
		},

		StatusIdle: lipgloss.AdaptiveColor{
			Light: "#737373",
			Dark:  "#666666",
		},

		Help: lipgloss.AdaptiveColor{
			Light: "#737373",
			Dark:  "#666666",
		},
	}
}

// renderCampusWave creates the CampusReels gradient wave █▓▒░
// Colors: #8C1D40 (0%) → #C2410C (50%) → #FFC627 (100%)
func renderCampusWave() string {
	stops := []struct {
		position float64
		color    [3]int // RGB
	}{
		{0.0, [3]int{0x8C, 0x1D, 0x40}}, // Maroon
		{0.5, [3]int{0xC2, 0x41, 0x0C}}, // Burnt orange
		{1.0, [3]int{0xFF, 0xC6, 0x27}}, // Gold
	}

	// Characters for wave (from darkest to lightest)
	chars := []string{"█", "▓", "▒", "░"}

	var result string
	for i, char := range chars {
		// Position in gradient (0.0 to 1.0)
		position := float64(i) / float64(len(chars)-1)

		// Find the two stops to interpolate between
		var start, end int
		for j := 0; j < len(stops)-1; j++ {
			if position >= stops[j].position && position <= stops[j+1].position {
				start = j
				end = j + 1
				break
			}
		}

		localPos := (position - stops[start].position) / (stops[end].position - stops[start].position)

		r := int(float64(stops[start].color[0]) + float64(stops[end].color[0]-stops[start].color[0])*localPos)
		g := int(float64(stops[start].color[1]) + float64(stops[end].color[1]-stops[start].color[1])*localPos)
		b := int(float64(stops[start].color[2]) + float64(stops[end].color[2]-stops[start].color[2])*localPos)

		color := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
		style := lipgloss.NewStyle().Foreground(color)
		result += style.Render(char)
	}

	return result
}

// GetStyles returns pre-configured lipgloss styles using the color scheme
func (cs *ColorScheme) GetStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(cs.Title),

		Version: lipgloss.NewStyle().
			Foreground(cs.Version),

		LibraryInfo: lipgloss.NewStyle().
			Foreground(cs.LibraryInfo),

		Prompt: lipgloss.NewStyle().
			Foreground(cs.Prompt),

		Normal: lipgloss.NewStyle().
			Foreground(cs.Normal),

		Selected: lipgloss.NewStyle().
			Foreground(cs.Selected).
			Background(cs.SelectedBg).
			Bold(false),

		Highlight: lipgloss.NewStyle().
			Foreground(cs.Highlight).
			Bold(true),

		Snippet: lipgloss.NewStyle().
			Foreground(cs.Snippet).
			Italic(true),

		KindBadges: map[search.Kind]lipgloss.Style{
			search.KindReel:    lipgloss.NewStyle().Foreground(cs.KindReel),
			search.KindPost:    lipgloss.NewStyle().Foreground(cs.KindPost),
			search.KindPointer: lipgloss.NewStyle().Foreground(cs.KindPointer),
			search.KindUser:    lipgloss.NewStyle().Foreground(cs.KindUser),
			search.KindCourse:  lipgloss.NewStyle().Foreground(cs.KindCourse),
		},

		Count: lipgloss.NewStyle().
			Foreground(cs.Count),

		CountActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(cs.CountActive),

		Cursor: lipgloss.NewStyle().
			Foreground(cs.Cursor).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(cs.Muted),

		StatusActive: lipgloss.NewStyle().
			Foreground(cs.StatusActive),

		StatusError: lipgloss.NewStyle().
			Foreground(cs.StatusError),

		StatusIdle: lipgloss.NewStyle().
			Foreground(cs.StatusIdle),

		Help: lipgloss.NewStyle().
			Foreground(cs.Help),
	}
}

// Styles holds pre-configured lipgloss styles
type Styles struct {
	Title        lipgloss.Style
	Version      lipgloss.Style
	LibraryInfo  lipgloss.Style
	Prompt       lipgloss.Style
	Normal       lipgloss.Style
	Selected     lipgloss.Style
	Highlight    lipgloss.Style
	Snippet      lipgloss.Style
	KindBadges   map[search.Kind]lipgloss.Style
	Count        lipgloss.Style
	CountActive  lipgloss.Style
	Cursor       lipgloss.Style
	Muted        lipgloss.Style
	StatusActive lipgloss.Style
	StatusError  lipgloss.Style
	StatusIdle   lipgloss.Style
	Help         lipgloss.Style
}
