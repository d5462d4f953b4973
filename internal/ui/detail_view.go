package ui

import (
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/redkv/internal/browser"
	"github.com/oakwood-commons/redkv/internal/store"
)

const detailLabelWidth = 6 // "type  "

func (m *Model) detailTitle() string {
	pane, ok := m.Browser.Detail()
	if !ok || pane.State != browser.EntryLoaded {
		return "detail"
	}
	return pane.Block.Summary
}

// detailHeader renders the metadata lines above the value.
func (m *Model) detailHeader(width int) []string {
	pane, ok := m.Browser.Detail()
	if !ok {
		return nil
	}
	typ := "-"
	ttl := store.TTL{}.String()
	switch pane.State {
	case browser.EntryLoaded:
		typ = pane.Meta.Type.String()
		ttl = pane.Meta.TTL.String()
	case browser.EntryLoading:
		ttl = "loading…"
	}
	valW := max(1, width-detailLabelWidth)
	row := func(label, val string, st func(string) string) string {
		return m.styles.muted.Render(fitWidth(label, detailLabelWidth)) + st(fitWidth(val, valW))
	}
	return []string{
		row("key", browser.EscapeBytes([]byte(pane.Key)), func(s string) string { return m.styles.key.Render(s) }),
		row("type", typ, func(s string) string { return m.styles.value.Render(s) }),
		row("ttl", ttl, func(s string) string { return m.styles.value.Render(s) }),
		"",
	}
}

// detailBody renders the value area for the selected key: a hint, a
// progress line, the failure or the value itself.
func (m *Model) detailBody(width int) []string {
	muted := func(s string) []string { return []string{m.styles.muted.Render(fitWidth(s, width))} }

	if m.keysUnavailable() {
		return muted(m.retryHint())
	}
	if !m.Browser.Loaded() {
		return muted("loading keys…")
	}
	pane, ok := m.Browser.Detail()
	if !ok {
		if len(m.Browser.Keys()) == 0 {
			return muted("the database is empty")
		}
		return muted("no key matches the filter")
	}

	switch pane.State {
	case browser.EntryLoading:
		return muted("loading…")
	case browser.EntryFailed:
		lines := []string{m.styles.err.Render(fitWidth("error", width))}
		for _, l := range wrapCells(describeError(pane.Err), width) {
			lines = append(lines, m.styles.err.Render(fitWidth(l, width)))
		}
		return append(lines, "", m.styles.muted.Render(fitWidth("press Enter to retry", width)))
	case browser.EntryLoaded:
		return blockLines(pane.Block, width, m.styles)
	default:
		return muted("press Enter to load")
	}
}

// detailLines is the content of the detail pane: the header followed by
// the body scrolled to detailTop.
func (m *Model) detailLines(l Layout) []string {
	width, rows := l.DetailInnerWidth(), l.DetailRows()
	header := m.detailHeader(width)
	body := m.detailBody(width)

	room := max(0, rows-len(header))
	top := clamp(m.detailTop, 0, max(0, len(body)-room))
	end := min(len(body), top+room)
	return append(header, body[top:end]...)
}

// maxDetailTop is the largest useful detail scroll offset.
func (m *Model) maxDetailTop() int {
	l := m.layout()
	width := l.DetailInnerWidth()
	room := l.DetailRows() - len(m.detailHeader(width))
	return max(0, len(m.detailBody(width))-room)
}

// blockLines lays out a rendered value: text is wrapped, tables get a
// header row and aligned columns.
func blockLines(b browser.DisplayBlock, width int, st styles) []string {
	if !b.IsTable() {
		var lines []string
		for _, t := range b.Text {
			for _, w := range wrapCells(t, width) {
				lines = append(lines, st.value.Render(fitWidth(w, width)))
			}
		}
		if len(lines) == 0 {
			lines = append(lines, st.muted.Render(fitWidth("(empty string)", width)))
		}
		return lines
	}

	if len(b.Rows) == 0 {
		return []string{st.muted.Render(fitWidth("(empty "+b.Type.String()+")", width))}
	}

	widths := columnWidths(b, width)
	lines := make([]string, 0, len(b.Rows)+1)
	lines = append(lines, st.header.Render(joinCells(b.Columns, widths)))
	for _, row := range b.Rows {
		if len(widths) == 1 {
			lines = append(lines, st.value.Render(fitWidth(row[0], widths[0])))
			continue
		}
		first := fitWidth(row[0], widths[0])
		rest := fitWidth(row[1], widths[1])
		if b.Type == store.TypeSortedSet {
			lines = append(lines, st.value.Render(first)+"  "+st.key.Render(rest))
		} else {
			lines = append(lines, st.key.Render(first)+"  "+st.value.Render(rest))
		}
	}
	return lines
}

// columnWidths sizes a one or two column table to width. The first of two
// columns gets its natural width, capped at two fifths of the pane.
func columnWidths(b browser.DisplayBlock, width int) []int {
	if len(b.Columns) < 2 {
		return []int{width}
	}
	natural := runewidth.StringWidth(b.Columns[0])
	for _, row := range b.Rows {
		if w := runewidth.StringWidth(row[0]); w > natural {
			natural = w
		}
	}
	first := clamp(natural, 1, max(1, width*2/5))
	return []int{first, max(1, width-first-2)}
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		c := ""
		if i < len(cells) {
			c = cells[i]
		}
		parts[i] = fitWidth(c, w)
	}
	return strings.Join(parts, "  ")
}

// wrapCells breaks s into pieces of at most width display cells.
func wrapCells(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var (
		out []string
		cur strings.Builder
		w   int
	)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && w > 0 {
			out = append(out, cur.String())
			cur.Reset()
			w = 0
		}
		cur.WriteRune(r)
		w += rw
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
