package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	tabSummary tab = iota
	tabBalanceSheet
	tabIncomeStatement
	tabSeries
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Balance Sheet", "Income Statement", "Series"}

// keyMap defines the dashboard keybindings.
type keyMap struct {
	PrevQuarter key.Binding
	NextQuarter key.Binding
	PrevTab     key.Binding
	NextTab     key.Binding
	CycleMetric key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	PrevQuarter: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prior quarter")),
	NextQuarter: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next quarter")),
	PrevTab:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prior tab")),
	NextTab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	CycleMetric: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle metric")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E86AB"))
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E86AB")).Underline(true)
	inactiveTab = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 2).
			Width(26)
	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).MarginTop(1)
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	session     *Session
	statements  table.Model
	activeTab   tab
	periodIdx   int
	metricIdx   int
	width       int
	height      int
}

// NewModel creates a dashboard model positioned at the latest period.
func NewModel(session *Session) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Account", Width: 56},
			{Title: "Value", Width: 16},
		}),
		table.WithHeight(16),
		table.WithFocused(true),
	)

	m := Model{
		session:    session,
		statements: t,
		periodIdx:  len(session.Periods()) - 1,
	}
	m.refreshTable()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statements.SetHeight(max(6, m.height-10))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.PrevQuarter):
			if m.periodIdx > 0 {
				m.periodIdx--
				m.refreshTable()
			}
			return m, nil
		case key.Matches(msg, keys.NextQuarter):
			if m.periodIdx < len(m.session.Periods())-1 {
				m.periodIdx++
				m.refreshTable()
			}
			return m, nil
		case key.Matches(msg, keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tabCount
			m.refreshTable()
			return m, nil
		case key.Matches(msg, keys.PrevTab):
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			m.refreshTable()
			return m, nil
		case key.Matches(msg, keys.CycleMetric):
			m.metricIdx = (m.metricIdx + 1) % len(KeyMetrics)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.statements, cmd = m.statements.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if len(m.session.Periods()) == 0 {
		return "No data loaded yet. Run 'y9c init' first.\n"
	}

	period := m.session.Periods()[m.periodIdx]

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Y-9C Dashboard · RSSD %s · %d Q%d (%s)",
		m.session.RSSDID(), period.Year, period.Quarter, period.ReportDate.Format("2006-01-02"))))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.activeTab {
	case tabSummary:
		b.WriteString(m.renderSummary(period.Year, period.Quarter))
	case tabBalanceSheet, tabIncomeStatement:
		b.WriteString(m.statements.View())
	case tabSeries:
		b.WriteString(m.renderSeries())
	}

	b.WriteString(helpStyle.Render("\n←/→ quarter · tab switch pane · m metric · q quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		if tab(i) == m.activeTab {
			parts = append(parts, activeTab.Render(name))
		} else {
			parts = append(parts, inactiveTab.Render(name))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderSummary(year, quarter int) string {
	stats := m.session.SummaryStats(year, quarter)

	cards := make([]string, 0, len(stats))
	for _, stat := range stats {
		value := "N/A"
		if stat.Current != nil {
			value = FormatValue(*stat.Current)
		}

		yoy := dimStyle.Render("Y-o-Y: n/a")
		if stat.YoY != nil {
			text := fmt.Sprintf("%+.1f%% Y-o-Y", *stat.YoY)
			if *stat.YoY >= 0 {
				yoy = upStyle.Render(text)
			} else {
				yoy = downStyle.Render(text)
			}
		}

		cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			dimStyle.Render(stat.Name),
			lipgloss.NewStyle().Bold(true).Render(value),
			yoy,
		)))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m Model) renderSeries() string {
	metric := KeyMetrics[m.metricIdx]
	points := m.session.Series(metric.Code)
	if len(points) == 0 {
		return dimStyle.Render("No observations for " + metric.Name)
	}

	maxVal := points[0].Value
	for _, p := range points {
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}

	// Trailing window that fits on screen.
	const window = 16
	if len(points) > window {
		points = points[len(points)-window:]
	}

	barWidth := 40
	var b strings.Builder
	b.WriteString(headerStyle.Render(metric.Name))
	b.WriteString("\n\n")
	for _, p := range points {
		bar := 0
		if maxVal > 0 {
			bar = int(p.Value / maxVal * float64(barWidth))
		}
		if bar < 0 {
			bar = 0
		}
		b.WriteString(fmt.Sprintf("%-9s %s %s\n",
			p.Label,
			upStyle.Render(strings.Repeat("█", bar)),
			dimStyle.Render(FormatValue(p.Value))))
	}
	return b.String()
}

// refreshTable reloads the statement table for the active tab and period.
func (m *Model) refreshTable() {
	if len(m.session.Periods()) == 0 {
		return
	}
	period := m.session.Periods()[m.periodIdx]

	var statement string
	switch m.activeTab {
	case tabBalanceSheet:
		statement = "balance_sheet"
	case tabIncomeStatement:
		statement = "income_statement"
	default:
		return
	}

	lines := m.session.StatementLines(period.Year, period.Quarter, statement)
	rows := make([]table.Row, len(lines))
	for i, line := range lines {
		rows[i] = table.Row{line.Label, FormatValue(line.Value)}
	}
	m.statements.SetRows(rows)
	m.statements.SetCursor(0)
}
