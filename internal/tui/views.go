package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Loading board..."
	}
	if m.quitting {
		return ""
	}

	switch m.currentView {
	case ViewQueue:
		return m.renderQueue()
	case ViewHelp:
		return m.renderHelp()
	default:
		return m.renderBoard()
	}
}

func (m Model) renderBoard() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("flowforge board"))
	b.WriteString("\n")

	rendered := make([]string, 0, len(m.columns))
	for i, col := range m.columns {
		rendered = append(rendered, m.renderColumn(col, i == m.col))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")

	if card, ok := m.Selected(); ok {
		detail := fmt.Sprintf("%s  %s/%s", card.Item.ID, card.Item.Type, card.Item.Priority)
		if card.Item.Assignee != "" {
			detail += "  @" + card.Item.Assignee
		}
		if card.Points > 0 {
			detail += fmt.Sprintf("  %d pt", card.Points)
		}
		b.WriteString(m.styles.Muted.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpLine())
	return b.String()
}

func (m Model) renderColumn(col Column, active bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s (%d)", col.State, len(col.Cards))
	b.WriteString(m.styles.ColumnHeader.Render(header))
	b.WriteString("\n")

	if len(col.Cards) == 0 {
		b.WriteString(m.styles.Muted.Render("-"))
	}
	for i, card := range col.Cards {
		title := card.Item.Title
		if len(title) > 18 {
			title = title[:17] + "…"
		}
		line := title
		if card.Urgent {
			line = m.styles.Urgent.Render("!") + title
		}
		if active && i == m.row {
			line = m.styles.SelectedCard.Render(line)
		} else {
			line = m.styles.Card.Render(line)
		}
		b.WriteString(line)
		if i < len(col.Cards)-1 {
			b.WriteString("\n")
		}
	}

	style := m.styles.Column
	if active {
		style = m.styles.ActiveColumn
	}
	return style.Render(b.String())
}

func (m Model) renderQueue() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("flowforge queue"))
	b.WriteString("\n")
	b.WriteString(m.queue.View())
	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Help"))
	b.WriteString("\n")

	keys := [][2]string{
		{"h/l, ←/→", "move between state columns"},
		{"j/k, ↑/↓", "move between items"},
		{"tab", "toggle board / queue view"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	for _, kv := range keys {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.styles.Key.Render(fmt.Sprintf("%-10s", kv[0])),
			m.styles.Muted.Render(kv[1])))
	}
	return b.String()
}

func (m Model) renderHelpLine() string {
	return m.styles.Help.Render("h/l: columns  j/k: items  tab: queue  ?: help  q: quit")
}
