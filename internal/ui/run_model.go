package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// RunConfig controls how the interactive program starts.
type RunConfig struct {
	// Width and Height force a window size; 0 auto-detects the terminal
	// size and falls back to 80x24.
	Width  int
	Height int
	// Keys are applied, with their store calls completed, before the first
	// frame is drawn.
	Keys []tea.KeyPressMsg

	ProgramOptions []tea.ProgramOption
}

// Run starts the interactive browser and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, opts Options, cfg RunConfig) error {
	m := NewModel(ctx, opts)
	defer m.cancel()

	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, cfg.ProgramOptions...)
	if cfg.Width > 0 || cfg.Height > 0 {
		w, h := resolveSize(cfg.Width, cfg.Height)
		m.ForceWindowSize = true
		m.DesiredWinWidth, m.DesiredWinHeight = w, h
		m.WinWidth, m.WinHeight = w, h
		m.applyLayout()
		progOpts = append(progOpts, tea.WithWindowSize(w, h))
	}

	if len(cfg.Keys) > 0 {
		if m.WinWidth == 0 {
			m.WinWidth, m.WinHeight = resolveSize(0, 0)
			m.applyLayout()
		}
		if !drive(m, m.Init()) || !ApplyKeys(m, cfg.Keys) {
			return nil
		}
		m.primed = true
	}

	prog := tea.NewProgram(m, progOpts...)
	if _, err := prog.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// resolveSize fills unset dimensions from the terminal, then from defaults.
func resolveSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if width <= 0 {
				width = w
			}
			if height <= 0 {
				height = h
			}
		}
	}
	if width <= 0 {
		width = DefaultWinWidth
	}
	if height <= 0 {
		height = DefaultWinHeight
	}
	return width, height
}
