package ui

import (
	"context"

	tea "charm.land/bubbletea/v2"
)

// SnapshotConfig configures a non-interactive render.
type SnapshotConfig struct {
	Width  int // 0 means DefaultWinWidth
	Height int // 0 means DefaultWinHeight
	Keys   []tea.KeyPressMsg
}

// RenderSnapshot loads the key list, applies the keys and returns the frame
// the interactive browser would show at that point. Every store call runs
// to completion on the calling goroutine.
func RenderSnapshot(ctx context.Context, opts Options, cfg SnapshotConfig) string {
	m := NewModel(ctx, opts)
	defer m.cancel()

	m.WinWidth, m.WinHeight = cfg.Width, cfg.Height
	if m.WinWidth <= 0 {
		m.WinWidth = DefaultWinWidth
	}
	if m.WinHeight <= 0 {
		m.WinHeight = DefaultWinHeight
	}
	m.applyLayout()

	if !drive(m, m.Init()) {
		return ""
	}
	ApplyKeys(m, cfg.Keys)
	return m.Render()
}
