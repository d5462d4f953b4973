package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/redkv/internal/browser"
)

// View renders the whole screen. It reads state only.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render returns the current frame as text: title, search line, the two
// panes (or the help overlay), status and footer.
func (m *Model) Render() string {
	l := m.layout()
	lines := []string{m.titleLine(l.Width), m.searchLine(l.Width)}

	if m.Help.Visible {
		lines = append(lines, renderPanel("help", m.Help.Lines(l.Width-2, m.styles), l.Width, l.BodyHeight, m.styles))
	} else {
		left := renderPanel(m.listTitle(), m.listLines(l), l.KeyPaneWidth, l.BodyHeight, m.styles)
		right := renderPanel(m.detailTitle(), m.detailLines(l), l.DetailWidth, l.BodyHeight, m.styles)
		lines = append(lines, joinColumns(left, right))
	}

	if m.Debug.Visible {
		lines = append(lines, m.Debug.View(m.debugInfo(l), m.styles))
	}

	status := m.Status
	status.Width = l.Width
	status.Loading = m.loadingKeys
	status.InFlight = m.Browser.InFlight()
	status.Visible = len(m.Browser.Visible())
	status.Total = len(m.Browser.Keys())
	status.Position = m.Browser.SelectedIndex() + 1
	status.Filter = m.Browser.Query()
	lines = append(lines, status.View(m.styles))

	footer := m.Footer
	footer.Width = l.Width
	footer.Search = m.Browser.Mode() == browser.ModeSearch
	lines = append(lines, footer.View(m.styles))

	return strings.Join(lines, "\n")
}

func (m *Model) titleLine(width int) string {
	left := fmt.Sprintf("redkv  %s  db %d", m.addr, m.db)
	right := ""
	if m.Browser.Loaded() {
		right = fmt.Sprintf("%d keys", len(m.Browser.Keys()))
	}
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		return m.styles.title.Render(fitWidth(left, width))
	}
	return m.styles.title.Render(left) + strings.Repeat(" ", gap) + m.styles.muted.Render(right)
}

func (m *Model) searchLine(width int) string {
	if m.Browser.Mode() == browser.ModeSearch {
		return m.styles.title.Render("/ ") + m.Input.View()
	}
	if f := m.Browser.Filter(); f != "" {
		label := "filter: "
		rest := max(1, width-len(label))
		return m.styles.muted.Render(label) + m.styles.key.Render(fitWidth(browser.EscapeBytes([]byte(f)), rest))
	}
	for _, h := range footerHints(m.KeyMode) {
		if h.Action == ActionSearch {
			return m.styles.muted.Render(fitWidth("press "+h.Keys+" to search", width))
		}
	}
	return ""
}
