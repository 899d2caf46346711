package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/campusreels/crfind/internal/index"
	"github.com/campusreels/crfind/internal/search"
)

// CampusReels brand colors
var (
	// CampusReels maroon: #8C1D40
	campusMaroon = lipgloss.Color("#8C1D40")
	// CampusReels gold: #FFC627
	campusGold = lipgloss.Color("#FFC627")
	// Success green
	successGreen = lipgloss.Color("#00C853")
	// Muted gray
	mutedGray = lipgloss.Color("#9E9E9E")
)

// Style definitions
var (
	// Title style - bold with maroon accent
	titleStyle = lipgloss.NewStyle().
			Foreground(campusMaroon).
			Bold(true)

	// Success style
	successStyle = lipgloss.NewStyle().
			Foreground(successGreen).
			Bold(true)

	// Muted text style
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	// Input prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(campusGold)

	// Snippet style for entry descriptions
	snippetStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)
)

// One badge color per content kind, matching the TUI palette
var kindColors = map[search.Kind]lipgloss.Color{
	search.KindReel:    lipgloss.Color("#C2410C"),
	search.KindPost:    lipgloss.Color("#0E7490"),
	search.KindPointer: lipgloss.Color("#15803D"),
	search.KindUser:    lipgloss.Color("#7C3AED"),
	search.KindCourse:  lipgloss.Color("#B45309"),
}

// printLogo prints the styled crfind logo with version
func printLogo(ver string) {
	// Gradient blocks █▓▒░
	gradient := lipgloss.NewStyle().Foreground(campusMaroon).Render("█▓") +
		lipgloss.NewStyle().Foreground(campusGold).Render("▒░")
	title := lipgloss.NewStyle().Foreground(campusMaroon).Bold(true).Render("crfind")
	versionText := mutedStyle.Render(ver)

	fmt.Printf("%s %s %s\n", gradient, title, versionText)
	fmt.Println(mutedStyle.Render("CampusReels Finder"))
	fmt.Println()
}

// printTitle prints a styled section title
func printTitle(text string) {
	fmt.Println(titleStyle.Render(text))
	fmt.Println()
}

// printSuccess prints a success message
func printSuccess(text string) {
	fmt.Println(successStyle.Render("✓ " + text))
}

// printMuted prints muted text
func printMuted(text string) {
	fmt.Println(mutedStyle.Render(text))
}

// printPrompt prints an input prompt on same line
func printPrompt(text string) {
	fmt.Print(promptStyle.Render(text))
}

// printEntry prints one search result line plus an optional snippet line
func printEntry(e search.Entry, showScore bool) {
	badge := fmt.Sprintf("[%s]", e.Kind)
	if color, ok := kindColors[e.Kind]; ok {
		badge = lipgloss.NewStyle().Foreground(color).Render(badge)
	}

	fmt.Printf("%s %s", badge, e.Title)
	if e.CourseID != "" {
		fmt.Printf(" %s", mutedStyle.Render(e.CourseID))
	}
	if showScore {
		fmt.Printf(" %s", mutedStyle.Render(fmt.Sprintf("(%.1f)", e.Score)))
	}
	fmt.Println()

	if e.Description != "" {
		fmt.Println(snippetStyle.Render("    " + e.Description))
	}
}

// printDeepMatch prints one deep search result with its body snippet
func printDeepMatch(m index.DeepMatch, showScore bool) {
	badge := fmt.Sprintf("[%s]", m.Kind)
	if kind, err := search.ParseKind(m.Kind); err == nil {
		if color, ok := kindColors[kind]; ok {
			badge = lipgloss.NewStyle().Foreground(color).Render(badge)
		}
	}

	fmt.Printf("%s %s", badge, m.Title)
	if m.CourseID != "" {
		fmt.Printf(" %s", mutedStyle.Render(m.CourseID))
	}
	if showScore {
		fmt.Printf(" %s", mutedStyle.Render(fmt.Sprintf("(%.2f)", m.Score)))
	}
	fmt.Println()

	if m.Snippet != "" {
		fmt.Println(snippetStyle.Render("    " + m.Snippet))
	}
}
