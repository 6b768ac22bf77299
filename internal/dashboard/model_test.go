package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhcwatch/y9c/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	src := &fakeSource{
		records: []storage.RecordWithItem{
			rec(2022, 4, "BHCK2170", 1000),
			rec(2023, 4, "BHCK2170", 1100),
		},
		periods: []storage.Period{period(2022, 4), period(2023, 4)},
	}
	return NewModel(newTestSession(t, src))
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_StartsAtLatestPeriod(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 1, m.periodIdx)

	view := m.View()
	assert.Contains(t, view, "2023 Q4")
}

func TestModel_QuarterNavigation(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	assert.Equal(t, 0, m.periodIdx)

	// Already at the first period; another left is a no-op.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(Model)
	assert.Equal(t, 0, m.periodIdx)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	assert.Equal(t, 1, m.periodIdx)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(Model)
	assert.Equal(t, 1, m.periodIdx)
}

func TestModel_TabCycling(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, tabSummary, m.activeTab)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, tabBalanceSheet, m.activeTab)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	assert.Equal(t, tabSummary, m.activeTab)

	// Cycling backward from the first tab wraps to the last.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(Model)
	assert.Equal(t, tabSeries, m.activeTab)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_MetricCycling(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, 0, m.metricIdx)

	updated, _ := m.Update(keyMsg("m"))
	m = updated.(Model)
	assert.Equal(t, 1, m.metricIdx)
}

func TestModel_ViewRendersTabs(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, name := range tabNames {
		assert.Contains(t, view, name)
	}
}
