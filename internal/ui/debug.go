package ui

import (
	"fmt"
)

// DebugModel is the optional bar above the status line that exposes the
// browser's internal state while developing or diagnosing a server.
type DebugModel struct {
	Visible   bool
	Width     int
	LastEvent string
}

// DebugInfo is the state shown in the debug bar.
type DebugInfo struct {
	WinWidth  int
	WinHeight int
	Mode      string
	Selected  int
	Visible   int
	Total     int
	InFlight  int
	KeysSeq   uint64
	ListTop   int
	DetailTop int
}

// View renders the bar, or "" when hidden.
func (m DebugModel) View(info DebugInfo, st styles) string {
	if !m.Visible {
		return ""
	}
	msg := fmt.Sprintf("DBG win=%dx%d mode=%s sel=%d/%d all=%d inflight=%d seq=%d top=%d/%d | %s",
		info.WinWidth, info.WinHeight, info.Mode, info.Selected, info.Visible, info.Total,
		info.InFlight, info.KeysSeq, info.ListTop, info.DetailTop, m.LastEvent)
	return st.muted.Render(fitWidth(msg, m.Width))
}

// debugf records the latest event for the debug bar.
func (m *Model) debugf(format string, args ...any) {
	if m.Debug.Visible {
		m.Debug.LastEvent = fmt.Sprintf(format, args...)
	}
}

func (m *Model) debugInfo(l Layout) DebugInfo {
	return DebugInfo{
		WinWidth:  l.Width,
		WinHeight: l.Height,
		Mode:      m.Browser.Mode().String(),
		Selected:  m.Browser.SelectedIndex(),
		Visible:   len(m.Browser.Visible()),
		Total:     len(m.Browser.Keys()),
		InFlight:  m.Browser.InFlight(),
		KeysSeq:   m.keysSeq,
		ListTop:   m.listTop,
		DetailTop: m.detailTop,
	}
}
