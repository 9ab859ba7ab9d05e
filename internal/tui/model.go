// Package tui implements the interactive work item board.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/flowforge/internal/domain"
)

// ViewType represents the current view being displayed
type ViewType int

const (
	// ViewBoard shows items grouped by workflow state
	ViewBoard ViewType = iota
	// ViewQueue shows the priority-ordered queue as a table
	ViewQueue
	// ViewHelp is the help screen
	ViewHelp
)

// Card is a single work item rendered on the board.
type Card struct {
	Item   domain.WorkItem
	Urgent bool
	Points int
}

// Column holds the cards in one workflow state.
type Column struct {
	State domain.State
	Cards []Card
}

// Model represents the board application state
type Model struct {
	columns []Column
	col     int
	row     int

	queue table.Model

	currentView ViewType
	width       int
	height      int
	ready       bool
	quitting    bool

	styles Styles
}

// Styles contains the lipgloss styles for the board
type Styles struct {
	Title        lipgloss.Style
	ColumnHeader lipgloss.Style
	Column       lipgloss.Style
	ActiveColumn lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	Urgent       lipgloss.Style
	Muted        lipgloss.Style
	Help         lipgloss.Style
	Key          lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1),
		ColumnHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			Width(22),
		ActiveColumn: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(22),
		Card: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		SelectedCard: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230")).
			Bold(true),
		Urgent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")),
	}
}

// NewModel builds the board from the current workspace contents. The
// items slice is grouped by workflow state; ordered is the queue view
// and must already be in selection order.
func NewModel(cards []Card, ordered []Card) Model {
	index := make(map[domain.State][]Card)
	for _, card := range cards {
		index[card.Item.State] = append(index[card.Item.State], card)
	}

	columns := make([]Column, 0, len(domain.States()))
	for _, state := range domain.States() {
		columns = append(columns, Column{State: state, Cards: index[state]})
	}

	rows := make([]table.Row, 0, len(ordered))
	for _, card := range ordered {
		marker := ""
		if card.Urgent {
			marker = "!"
		}
		rows = append(rows, table.Row{
			marker,
			card.Item.ID.String()[:8],
			card.Item.Title,
			string(card.Item.Priority),
			fmt.Sprintf("%d", card.Points),
		})
	}
	queue := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 2},
			{Title: "ID", Width: 10},
			{Title: "TITLE", Width: 40},
			{Title: "PRIORITY", Width: 10},
			{Title: "PTS", Width: 5},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
	)

	return Model{
		columns:     columns,
		queue:       queue,
		currentView: ViewBoard,
		styles:      DefaultStyles(),
	}
}

// Selected returns the currently highlighted card, if any.
func (m Model) Selected() (Card, bool) {
	if m.col >= len(m.columns) {
		return Card{}, false
	}
	cards := m.columns[m.col].Cards
	if m.row >= len(cards) {
		return Card{}, false
	}
	return cards[m.row], true
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queue.SetHeight(max(msg.Height-6, 4))
		m.ready = true
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = ViewBoard
		} else {
			m.currentView = ViewHelp
		}
		return m, nil

	case "tab":
		if m.currentView == ViewQueue {
			m.currentView = ViewBoard
		} else {
			m.currentView = ViewQueue
		}
		return m, nil
	}

	if m.currentView == ViewQueue {
		var cmd tea.Cmd
		m.queue, cmd = m.queue.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case "right", "l":
		if m.col < len(m.columns)-1 {
			m.col++
			m.clampRow()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.columns[m.col].Cards)-1 {
			m.row++
		}
	}

	return m, nil
}

func (m *Model) clampRow() {
	if n := len(m.columns[m.col].Cards); m.row >= n {
		if n == 0 {
			m.row = 0
		} else {
			m.row = n - 1
		}
	}
}
