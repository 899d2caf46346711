// Package tui implements the interactive finder over the content library
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/history"
	"github.com/campusreels/crfind/internal/search"
)

// ReloadCompleteMsg is sent when a library reload finishes
type ReloadCompleteMsg struct {
	Err  error
	Repo search.Repository
}

// HistoryLoadedMsg is sent when history finishes loading
type HistoryLoadedMsg struct {
	Err error
}

// EntryMatch pairs an index entry with its display scores
// Total = relevance score + decayed history boost
type EntryMatch struct {
	Entry        search.Entry
	HistoryScore int
	Total        float64
}

// Model represents the TUI state
type Model struct {
	textInput textinput.Model
	styles    Styles

	engine        *search.Engine // Relevance engine over the library
	filtered      []EntryMatch   // Current matches, history-boosted and muted-filtered
	selected      string         // Selected entry key (when user presses Enter)
	selectedQuery string         // Query active at selection time

	dataDir     string // Library data directory
	version     string // Application version
	reloadError error

	history     *history.History // Open-frequency tracker
	config      *config.Config   // Application config (for muted tags)
	colorScheme *ColorScheme
	onReload    func() tea.Cmd // Callback to re-read the library from disk

	cursor int
	width  int
	height int

	quitting       bool
	reloading      bool
	historyLoading bool
	showMuted      bool // Whether to show entries carrying muted tags
	showScores     bool // Whether to show score breakdown
	showHelp       bool
}

// New creates a new TUI model over the given engine with an optional initial query
func New(engine *search.Engine, initialQuery string, onReload func() tea.Cmd, dataDir string, cfg *config.Config, showScores bool, version string) Model {
	colorScheme := NewColorScheme()
	styles := colorScheme.GetStyles()

	ti := textinput.New()
	ti.Placeholder = "Search reels, posts, pointers, people, courses..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 50

	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt

	if initialQuery != "" {
		ti.SetValue(initialQuery)
	}

	historyPath := filepath.Join(dataDir, "history.gob")
	hist := history.New(historyPath)

	m := Model{
		textInput:      ti,
		engine:         engine,
		filtered:       []EntryMatch{},
		cursor:         0,
		onReload:       onReload,
		history:        hist,
		historyLoading: true, // Loaded async in Init
		config:         cfg,
		dataDir:        dataDir,
		showScores:     showScores,
		colorScheme:    colorScheme,
		styles:         styles,
		version:        version,
	}

	m.filter()

	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if m.history != nil {
		cmds = append(cmds, func() tea.Msg {
			errCh := m.history.LoadAsync()
			err := <-errCh
			return HistoryLoadedMsg{Err: err}
		})
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			// Save history before quitting
			if m.history != nil {
				_ = m.history.Save() // Don't prevent quit
			}
			return m, tea.Quit

		case "ctrl+r":
			// Re-read the library from disk (only if not already running)
			if m.onReload != nil && !m.reloading {
				m.reloading = true
				m.reloadError = nil
				return m, m.onReload()
			}

		case "enter":
			// Select current entry
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				entry := m.filtered[m.cursor].Entry
				m.selected = entry.Key()
				m.selectedQuery = strings.TrimSpace(m.textInput.Value())

				if m.history != nil && m.selected != "" {
					m.history.RecordPickWithQuery(m.selectedQuery, m.selected)
					_ = m.history.Save() // Don't prevent selection
				}
			}
			m.quitting = true
			return m, tea.Quit

		case "ctrl+x":
			// Toggle muting of the selected entry's first tag
			if m.config != nil && len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				tags := m.filtered[m.cursor].Entry.Tags
				if len(tags) > 0 {
					tag := tags[0]
					if m.config.IsMuted(tag) {
						_ = m.config.RemoveMutedTag(tag) // Don't block the UI
					} else {
						_ = m.config.AddMutedTag(tag)
					}
					m.filter()
					if m.cursor >= len(m.filtered) && m.cursor > 0 {
						m.cursor = len(m.filtered) - 1
					}
				}
			}

		case "ctrl+h":
			// Toggle showing muted entries
			m.showMuted = !m.showMuted
			m.filter()
			if m.cursor >= len(m.filtered) && m.cursor > 0 {
				m.cursor = len(m.filtered) - 1
			}

		case "?":
			m.showHelp = !m.showHelp

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		default:
			m.textInput, cmd = m.textInput.Update(msg)
			m.filter()
			m.cursor = 0 // Reset cursor when query changes
		}

	case ReloadCompleteMsg:
		m.reloading = false
		if msg.Err != nil {
			m.reloadError = msg.Err
		} else {
			m.engine = search.New(msg.Repo)
			m.filter()
			m.reloadError = nil
		}

	case HistoryLoadedMsg:
		m.historyLoading = false
		if msg.Err == nil {
			// Re-filter with history scores available
			m.filter()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, cmd
}

// filter recomputes the match list from the current query
// An empty query browses the whole index ordered by history; otherwise the
// engine ranks by relevance and history adds a boost on top
func (m *Model) filter() {
	query := strings.TrimSpace(m.textInput.Value())

	var historyScores map[string]int
	if m.history != nil && !m.historyLoading {
		historyScores = m.history.GetAllScoresForQuery(query)
	} else {
		historyScores = make(map[string]int)
	}

	var matches []EntryMatch
	if query == "" {
		for _, entry := range m.engine.Entries() {
			boost := historyScores[entry.Key()]
			matches = append(matches, EntryMatch{
				Entry:        entry,
				HistoryScore: boost,
				Total:        float64(boost),
			})
		}
	} else {
		for _, entry := range m.engine.Search(query, nil) {
			boost := historyScores[entry.Key()]
			matches = append(matches, EntryMatch{
				Entry:        entry,
				HistoryScore: boost,
				Total:        entry.Score + float64(boost),
			})
		}
	}

	// Stable keeps index order for ties
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Total > matches[j].Total
	})

	// Hide entries with muted tags unless toggled visible
	if m.config != nil && !m.showMuted {
		visible := make([]EntryMatch, 0, len(matches))
		for _, match := range matches {
			if !m.config.HasMutedTag(match.Entry.Tags) {
				visible = append(visible, match)
			}
		}
		matches = visible
	}

	m.filtered = matches
}

// renderMatch renders a matched entry with kind badge and optional snippet
// Returns multiple lines when the description snippet is present
func (m Model) renderMatch(match EntryMatch, query string) string {
	var result strings.Builder

	entry := match.Entry

	// Kind badge, colored per content kind
	badge := fmt.Sprintf("[%s]", entry.Kind)
	if style, ok := m.styles.KindBadges[entry.Kind]; ok {
		result.WriteString(style.Render(badge))
	} else {
		result.WriteString(badge)
	}
	result.WriteString(" ")

	result.WriteString(renderHighlighted(entry.Title, query, lipgloss.NewStyle(), m.styles.Highlight))

	if entry.CourseID != "" {
		result.WriteString(m.styles.Count.Render(" " + entry.CourseID))
	}

	if m.showScores {
		scoreStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Gray
		scoreText := fmt.Sprintf(" [S:%.1f H:%d T:%.1f]",
			entry.Score,
			match.HistoryScore,
			match.Total)
		result.WriteString(scoreStyle.Render(scoreText))
	}

	if entry.Description != "" {
		// Truncate to 60 runes at word boundary for UTF-8 safety
		snippet := truncateSnippet(entry.Description, 60)
		result.WriteString("\n") // Indent handled by caller
		result.WriteString(m.styles.Snippet.Render(snippet))
	}

	return result.String()
}

// renderHighlighted performs substring highlighting on the display string
func renderHighlighted(displayStr, query string, style lipgloss.Style, highlightStyle lipgloss.Style) string {
	if query == "" {
		return style.Render(displayStr)
	}

	// For multi-token queries, just use first token for highlighting
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return style.Render(displayStr)
	}
	matchToken := tokens[0]

	lowerDisplay := strings.ToLower(displayStr)
	lowerToken := strings.ToLower(matchToken)

	idx := strings.Index(lowerDisplay, lowerToken)
	if idx < 0 {
		return style.Render(displayStr)
	}

	before := displayStr[:idx]
	matched := displayStr[idx : idx+len(matchToken)]
	after := displayStr[idx+len(matchToken):]

	return style.Render(before) + highlightStyle.Render(matched) + style.Render(after)
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Status indicator: ○ idle, ● active (green) or error (red)
	var statusIndicator string
	if m.reloading || m.historyLoading {
		statusIndicator = m.styles.StatusActive.Render("●")
	} else if m.reloadError != nil {
		statusIndicator = m.styles.StatusError.Render("●")
	} else {
		statusIndicator = m.styles.StatusIdle.Render("○")
	}

	// Title line: wave + app name + version on left
	titleLeft := fmt.Sprintf("%s %s %s",
		m.colorScheme.CampusWave,
		m.styles.Title.Render("crfind"),
		m.styles.Version.Render(m.version))

	entryCount := fmt.Sprintf("%d/%d entries",
		len(m.filtered),
		m.engine.Size())

	libraryInfo := fmt.Sprintf("[ %s ]", m.dataDir)
	helpIndicator := m.styles.Help.Render("[?] Help")

	// Adaptive layout based on terminal width
	leftWidth := lipgloss.Width(titleLeft)
	countWidth := lipgloss.Width(entryCount)
	libraryWidth := lipgloss.Width(libraryInfo)
	statusWidth := lipgloss.Width(statusIndicator)

	var titleRight string

	minWidth := leftWidth + countWidth + statusWidth + 4 // +4 for spacing

	if m.width < minWidth+30 {
		// Very narrow: only crfind + count + status
		titleRight = fmt.Sprintf("%s %s",
			m.styles.Count.Render(entryCount),
			statusIndicator)
	} else if m.width < minWidth+libraryWidth+30 {
		// Medium: crfind + count + help + status
		titleRight = fmt.Sprintf("%s %s %s",
			m.styles.Count.Render(entryCount),
			helpIndicator,
			statusIndicator)
	} else {
		// Wide: full display with library path
		titleRight = fmt.Sprintf("%s %s %s %s",
			m.styles.Count.Render(entryCount),
			m.styles.LibraryInfo.Render(libraryInfo),
			helpIndicator,
			statusIndicator)
	}

	rightWidth := lipgloss.Width(titleRight)
	spacing := ""
	if m.width > leftWidth+rightWidth {
		spacing = strings.Repeat(" ", m.width-leftWidth-rightWidth)
	}

	b.WriteString(titleLeft)
	b.WriteString(spacing)
	b.WriteString(titleRight)
	b.WriteString("\n")

	// Separator line (full width)
	if m.width > 0 {
		separator := strings.Repeat("─", m.width)
		b.WriteString(m.styles.Help.Render(separator))
		b.WriteString("\n")
	}

	// Search input (fixed at top, after header)
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Calculate available lines for the entry list precisely
	usedLines := 0
	usedLines++    // Title line
	usedLines++    // Separator
	usedLines++    // Empty line before search input
	usedLines++    // Search input
	usedLines += 2 // Empty lines after search input
	if m.showHelp {
		usedLines += 3 // Help text + spacing (bottom)
	}

	maxAvailableLines := m.height - usedLines - 7 // -7 for safety margin (ensure header stays visible)
	if maxAvailableLines < 1 {
		maxAvailableLines = 1
	}

	renderedLines := 0
	start := 0

	// Simple scrolling: show items from start, make sure cursor is visible
	if m.cursor > 0 && len(m.filtered) > 0 && m.cursor < len(m.filtered) {
		cursorItemLines := 1
		if m.filtered[m.cursor].Entry.Description != "" {
			cursorItemLines++
		}

		lineCount := cursorItemLines
		itemsBeforeCursor := 0

		for i := m.cursor - 1; i >= 0; i-- {
			itemLines := 1
			if m.filtered[i].Entry.Description != "" {
				itemLines++
			}
			if lineCount+itemLines > maxAvailableLines {
				break
			}
			lineCount += itemLines
			itemsBeforeCursor++
		}

		start = m.cursor - itemsBeforeCursor
		if start < 0 {
			start = 0
		}
	}

	query := strings.TrimSpace(m.textInput.Value())

	// Render visible entries, stopping when we run out of space
	for i := start; i < len(m.filtered); i++ {
		match := m.filtered[i]

		itemLines := 1
		if match.Entry.Description != "" {
			itemLines++
		}

		if renderedLines+itemLines > maxAvailableLines {
			break
		}

		isMuted := m.config != nil && m.config.HasMutedTag(match.Entry.Tags)

		// Indicator (rendered separately to preserve its color)
		if i == m.cursor {
			b.WriteString(m.styles.Cursor.Render("▌"))
		} else {
			b.WriteString(" ")
		}

		entryContent := m.renderMatch(match, query)

		// Split content by lines to apply background to each line separately
		lines := strings.Split(entryContent, "\n")
		for lineIdx, line := range lines {
			if lineIdx > 0 {
				b.WriteString("\n ")
			}

			var lineContent string
			if lineIdx == 0 {
				if isMuted && m.showMuted {
					lineContent = " [✕] " + line
				} else {
					lineContent = " " + line
				}
			} else {
				// Snippet lines: 1 space margin + 4 spaces indent
				lineContent = "     " + line
			}

			if i == m.cursor {
				styledLine := m.styles.Selected.Width(m.width - 2).Render(lineContent) // -2 for cursor + initial space
				b.WriteString(styledLine)
			} else if isMuted && m.showMuted {
				b.WriteString(m.styles.Muted.Render(lineContent))
			} else {
				b.WriteString(m.styles.Normal.Render(lineContent))
			}
		}
		b.WriteString("\n")

		renderedLines += itemLines
	}

	// Help text footer (only show if toggled with ?)
	if m.showHelp {
		b.WriteString("\n\n")

		var helpText string
		if m.showMuted {
			helpText = "↑/↓: navigate • enter: open • ctrl+x: toggle mute tag • ctrl+h: hide muted • ctrl+r: reload • ?: toggle help"
		} else {
			helpText = "↑/↓: navigate • enter: open • ctrl+x: mute tag • ctrl+h: show muted • ctrl+r: reload • ?: toggle help"
		}
		b.WriteString(m.styles.Help.Render(helpText))
	}

	return b.String()
}

// Selected returns the selected entry key (or empty string if none)
func (m Model) Selected() string {
	return m.selected
}

// SelectedQuery returns the query that was active when the selection happened
func (m Model) SelectedQuery() string {
	return m.selectedQuery
}

// truncateSnippet truncates text at a word boundary respecting UTF-8
func truncateSnippet(text string, maxRunes int) string {
	runes := []rune(text)

	if len(runes) <= maxRunes {
		return text
	}

	truncated := runes[:maxRunes]

	// Find last word boundary (space, comma, period, etc.)
	lastSpace := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if unicode.IsSpace(truncated[i]) || truncated[i] == ',' || truncated[i] == '.' || truncated[i] == ';' {
			lastSpace = i
			break
		}
	}

	// Use word boundary only if it lands in the last 20% to avoid losing too much text
	if lastSpace > int(float64(maxRunes)*0.8) {
		truncated = truncated[:lastSpace]
	}

	return string(truncated) + "..."
}
