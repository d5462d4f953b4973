package ui

// Fixed line counts around the panes.
const (
	TitleLineCount   = 1
	SearchLineCount  = 1
	StatusLineCount  = 1
	FooterLineCount  = 1
	DebugLineCount   = 1
	PanelBorderLines = 2

	DefaultWinWidth     = 80
	DefaultWinHeight    = 24
	DefaultKeyPaneWidth = 40
	MinKeyPaneWidth     = 12
	MinDetailPaneWidth  = 20
	MinBodyHeight       = 3
)

// LayoutManager computes pane sizes for a window.
type LayoutManager struct {
	width        int
	height       int
	keyPaneWidth int
	debugLine    bool
}

// Layout is the result of a layout pass. Widths and heights are outer
// sizes, borders included, unless the field says inner.
type Layout struct {
	Width        int
	Height       int
	BodyHeight   int
	KeyPaneWidth int
	DetailWidth  int
}

// NewLayoutManager creates a layout manager. keyPaneWidth <= 0 selects the
// default width.
func NewLayoutManager(width, height, keyPaneWidth int) *LayoutManager {
	return &LayoutManager{width: width, height: height, keyPaneWidth: keyPaneWidth}
}

// ReserveDebugLine takes one line from the panes for the debug bar.
func (lm *LayoutManager) ReserveDebugLine(on bool) *LayoutManager {
	lm.debugLine = on
	return lm
}

// Calculate splits the window into the key list and the detail pane.
func (lm *LayoutManager) Calculate() Layout {
	w, h := lm.width, lm.height
	if w <= 0 {
		w = DefaultWinWidth
	}
	if h <= 0 {
		h = DefaultWinHeight
	}
	body := h - TitleLineCount - SearchLineCount - StatusLineCount - FooterLineCount
	if lm.debugLine {
		body -= DebugLineCount
	}
	if body < MinBodyHeight {
		body = MinBodyHeight
	}

	keyW := lm.keyPaneWidth
	if keyW <= 0 {
		keyW = DefaultKeyPaneWidth
	}
	switch {
	case w < MinKeyPaneWidth+MinDetailPaneWidth:
		keyW = w / 2
	case w-keyW < MinDetailPaneWidth:
		keyW = w - MinDetailPaneWidth
	case keyW < MinKeyPaneWidth:
		keyW = MinKeyPaneWidth
	}
	return Layout{
		Width:        w,
		Height:       h,
		BodyHeight:   body,
		KeyPaneWidth: keyW,
		DetailWidth:  w - keyW,
	}
}

// ListRows is how many keys fit in the list pane.
func (l Layout) ListRows() int { return max(1, l.BodyHeight-PanelBorderLines) }

// DetailRows is the inner height of the detail pane.
func (l Layout) DetailRows() int { return max(1, l.BodyHeight-PanelBorderLines) }

// KeyInnerWidth is the text width inside the list pane.
func (l Layout) KeyInnerWidth() int { return max(1, l.KeyPaneWidth-2) }

// DetailInnerWidth is the text width inside the detail pane.
func (l Layout) DetailInnerWidth() int { return max(1, l.DetailWidth-2) }

func (m *Model) layout() Layout {
	return NewLayoutManager(m.WinWidth, m.WinHeight, m.keyPaneWidth).ReserveDebugLine(m.Debug.Visible).Calculate()
}

// applyLayout pushes the current window size into the components that
// depend on it.
func (m *Model) applyLayout() {
	l := m.layout()
	m.Input.SetWidth(max(10, l.Width-12))
	m.Browser.SetPageSize(l.ListRows())
	m.Status.Width = l.Width
	m.Footer.Width = l.Width
	m.Debug.Width = l.Width
	m.syncListScroll()
	m.detailTop = min(m.detailTop, m.maxDetailTop())
}

// syncListScroll moves the list window so the selection stays visible.
func (m *Model) syncListScroll() {
	l := m.layout()
	m.listTop = scrollOffset(m.listTop, m.Browser.SelectedIndex(), l.ListRows(), len(m.Browser.Visible()))
}
