// Package player renders a tape document as an interactive step-by-step
// replay. It is a pure consumer: the document is read-only input.
package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jettrobinson87/the-tape/internal/tape"
)

// Styles
var (
	listPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	detailPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("255"))

	titleStyle = lipgloss.NewStyle().Bold(true)
)

// model is the Bubble Tea model for the player
type model struct {
	doc          *tape.Document
	cursor       int
	listOffset   int
	detailOffset int
	width        int
	height       int
	quitting     bool
}

// NewModel creates a new player model for a document.
func NewModel(doc *tape.Document) tea.Model {
	return model{doc: doc}
}

// Init implements tea.Model
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		// Step navigation
		case "j", "down", " ", "enter", "l", "right":
			if m.cursor < len(m.doc.Steps)-1 {
				m.cursor++
				m.detailOffset = 0
			}
		case "k", "up", "h", "left":
			if m.cursor > 0 {
				m.cursor--
				m.detailOffset = 0
			}
		case "g", "home":
			m.cursor = 0
			m.detailOffset = 0
		case "G", "end":
			m.cursor = len(m.doc.Steps) - 1
			m.detailOffset = 0
		case "ctrl+d":
			m.cursor = min(m.cursor+m.listHeight()/2, len(m.doc.Steps)-1)
			m.detailOffset = 0
		case "ctrl+u":
			m.cursor = max(m.cursor-m.listHeight()/2, 0)
			m.detailOffset = 0

		// Detail pane scrolling
		case "J", "shift+down":
			m.detailOffset++
		case "K", "shift+up":
			if m.detailOffset > 0 {
				m.detailOffset--
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	if m.cursor >= len(m.doc.Steps) {
		m.cursor = max(0, len(m.doc.Steps)-1)
	}

	m.adjustListScroll()

	return m, nil
}

// View implements tea.Model
func (m model) View() string {
	if m.quitting {
		return ""
	}

	if len(m.doc.Steps) == 0 {
		return "Tape has no steps\n"
	}

	// Wait for terminal dimensions
	if m.width < 20 || m.height < 10 {
		return "Loading..."
	}

	contentHeight := max(m.height-3, 5)
	listWidth := max(m.width*2/5, 10)
	detailWidth := max(m.width-listWidth-1, 10)

	listPanel := m.renderList(max(listWidth-2, 5), max(contentHeight-2, 3))
	detailPanel := m.renderDetail(max(detailWidth-2, 5), max(contentHeight-2, 3))

	listPanel = listPanelStyle.
		Width(max(listWidth-2, 5)).
		Height(max(contentHeight-2, 3)).
		Render(listPanel)

	detailPanel = detailPanelStyle.
		Width(max(detailWidth-2, 5)).
		Height(max(contentHeight-2, 3)).
		Render(detailPanel)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

// renderList renders the step list panel
func (m model) renderList(width, height int) string {
	var lines []string

	visibleStart := m.listOffset
	visibleEnd := min(m.listOffset+height, len(m.doc.Steps))

	for i := visibleStart; i < visibleEnd; i++ {
		line := m.renderStepLine(m.doc.Steps[i], width, i == m.cursor)
		lines = append(lines, line)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// renderStepLine renders a single step list line
func (m model) renderStepLine(step tape.DocStep, width int, selected bool) string {
	line := fmt.Sprintf("%s %s %s", StepGlyph(step.Type), formatElapsed(step.ElapsedSeconds), StepLabel(step))

	line = TruncateText(line, width)
	if len(line) < width {
		line = line + strings.Repeat(" ", width-len(line))
	}

	if selected {
		line = selectedStyle.Render(line)
	}

	return line
}

// renderDetail renders the detail panel for the selected step
func (m model) renderDetail(width, height int) string {
	if m.cursor >= len(m.doc.Steps) {
		return "No selection"
	}

	step := m.doc.Steps[m.cursor]
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", StepGlyph(step.Type), step.Type)))
	sb.WriteString(fmt.Sprintf("\nElapsed: %s\n\n", formatElapsed(step.ElapsedSeconds)))

	switch step.Type {
	case "action":
		sb.WriteString(fmt.Sprintf("Tool: %s\n", step.Content.Tool))
		if step.Content.Output != "" {
			sb.WriteString("\nOutput:\n")
			sb.WriteString(wrapText(step.Content.Output, width-2))
		}
	case "error":
		sb.WriteString(fmt.Sprintf("Message: %s\n", step.Content.Message))
		if step.Content.StackPreview != "" {
			sb.WriteString("\nStack preview:\n")
			sb.WriteString(wrapText(step.Content.StackPreview, width-2))
		}
	case "user", "thought":
		sb.WriteString(wrapText(step.Content.Text, width-2))
	default:
		sb.WriteString(wrapText(step.Content.Description, width-2))
		if step.Content.Details != "" {
			sb.WriteString("\n\nDetails:\n")
			sb.WriteString(wrapText(step.Content.Details, width-2))
		}
	}

	lines := strings.Split(sb.String(), "\n")

	if m.detailOffset > 0 && m.detailOffset < len(lines) {
		lines = lines[m.detailOffset:]
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// renderStatusBar renders the status bar
func (m model) renderStatusBar() string {
	position := fmt.Sprintf("%d/%d", m.cursor+1, len(m.doc.Steps))
	context := TruncateText(m.doc.Metadata.Title, 40)
	help := "j/k,space:step  g/G:ends  J/K:scroll  q:quit"

	status := fmt.Sprintf(" %s | %s | %s", position, context, help)

	return statusBarStyle.Width(m.width).Render(status)
}

func (m model) listHeight() int {
	return max(m.height-5, 1) // Account for borders and status bar
}

func (m *model) adjustListScroll() {
	visibleHeight := m.listHeight()

	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleHeight {
		m.listOffset = m.cursor - visibleHeight + 1
	}
}

func wrapText(s string, width int) string {
	if width < 1 {
		width = 1
	}

	var result strings.Builder
	for _, line := range strings.Split(s, "\n") {
		for len(line) > width {
			result.WriteString(line[:width])
			result.WriteString("\n")
			line = line[width:]
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	return strings.TrimSuffix(result.String(), "\n")
}

// Run starts the interactive player for a document.
func Run(doc *tape.Document) error {
	p := tea.NewProgram(NewModel(doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
