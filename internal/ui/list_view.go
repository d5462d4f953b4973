package ui

import (
	"fmt"

	"github.com/oakwood-commons/redkv/internal/browser"
)

// Markers shown before a key in the list for its cached detail state.
const (
	markerNone    = " "
	markerLoading = "…"
	markerLoaded  = "•"
	markerFailed  = "!"
)

// listTitle is the border title of the key pane.
func (m *Model) listTitle() string {
	all, vis := len(m.Browser.Keys()), len(m.Browser.Visible())
	if m.Browser.Query() == "" {
		return fmt.Sprintf("keys (%d)", all)
	}
	return fmt.Sprintf("keys (%d of %d)", vis, all)
}

// listLines renders the visible window of the key list, one line per key.
func (m *Model) listLines(l Layout) []string {
	width, rows := l.KeyInnerWidth(), l.ListRows()
	visible := m.Browser.Visible()

	switch {
	case m.keysUnavailable():
		return []string{m.styles.err.Render(fitWidth(" "+m.retryHint(), width))}
	case !m.Browser.Loaded():
		return []string{m.styles.muted.Render(fitWidth(" loading keys…", width))}
	case len(m.Browser.Keys()) == 0:
		return []string{m.styles.muted.Render(fitWidth(" (no keys)", width))}
	case len(visible) == 0:
		return []string{m.styles.muted.Render(fitWidth(" (no matches)", width))}
	}

	sel := m.Browser.SelectedIndex()
	top := scrollOffset(m.listTop, sel, rows, len(visible))
	end := min(top+rows, len(visible))

	lines := make([]string, 0, end-top)
	for i := top; i < end; i++ {
		key := visible[i]
		line := fitWidth(m.entryMarker(key)+browser.EscapeBytes([]byte(key)), width)
		if i == sel {
			line = m.styles.selected.Render(line)
		} else {
			line = m.styles.key.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (m *Model) entryMarker(key string) string {
	e, ok := m.Browser.Entry(key)
	if !ok {
		return markerNone
	}
	switch e.State {
	case browser.EntryLoading:
		return markerLoading
	case browser.EntryLoaded:
		return markerLoaded
	case browser.EntryFailed:
		return markerFailed
	default:
		return markerNone
	}
}

// keysUnavailable reports that the first key list load failed and no retry
// is running.
func (m *Model) keysUnavailable() bool {
	return m.keysFailed && !m.loadingKeys && !m.Browser.Loaded()
}

func (m *Model) retryHint() string {
	return "key list unavailable, press " + hintKeys(m.Footer.KeyMode, ActionRefresh) + " to retry"
}
