package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidKeyMode(t *testing.T) {
	for _, m := range ValidKeyModes {
		assert.True(t, IsValidKeyMode(string(m)))
	}
	assert.False(t, IsValidKeyMode("nano"))
	assert.False(t, IsValidKeyMode(""))
}

func TestResolveActionPerMode(t *testing.T) {
	tests := []struct {
		mode KeyMode
		key  string
		want Action
	}{
		{KeyModeVim, "j", ActionDown},
		{KeyModeVim, "k", ActionUp},
		{KeyModeVim, "G", ActionBottom},
		{KeyModeVim, "/", ActionSearch},
		{KeyModeVim, "r", ActionRefresh},
		{KeyModeVim, "y", ActionCopy},
		{KeyModeVim, "?", ActionHelp},
		{KeyModeVim, "q", ActionQuit},
		{KeyModeVim, "ctrl+f", ActionPageDown},
		{KeyModeVim, "J", ActionDetailDown},
		{KeyModeEmacs, "ctrl+n", ActionDown},
		{KeyModeEmacs, "ctrl+p", ActionUp},
		{KeyModeEmacs, "alt+<", ActionTop},
		{KeyModeEmacs, "alt+>", ActionBottom},
		{KeyModeEmacs, "ctrl+s", ActionSearch},
		{KeyModeEmacs, "ctrl+g", ActionCancel},
		{KeyModeEmacs, "j", ActionNone},
		{KeyModeFunction, "j", ActionNone},
		{KeyModeFunction, "q", ActionNone},
		{KeyModeFunction, "f3", ActionSearch},
		{KeyModeFunction, "f10", ActionQuit},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.key, func(t *testing.T) {
			m := &Model{KeyMode: tt.mode}
			assert.Equal(t, tt.want, m.resolveAction(tt.key))
		})
	}
}

func TestCommonBindingsWorkInEveryMode(t *testing.T) {
	for _, mode := range ValidKeyModes {
		m := &Model{KeyMode: mode}
		assert.Equal(t, ActionDown, m.resolveAction("down"), mode)
		assert.Equal(t, ActionSelect, m.resolveAction("enter"), mode)
		assert.Equal(t, ActionCancel, m.resolveAction("esc"), mode)
		assert.Equal(t, ActionHelp, m.resolveAction("f1"), mode)
		assert.Equal(t, ActionQuit, m.resolveAction("ctrl+c"), mode)
	}
}

func TestVimPendingG(t *testing.T) {
	m := &Model{KeyMode: KeyModeVim}
	assert.Equal(t, ActionNone, m.resolveAction("g"))
	assert.Equal(t, ActionTop, m.resolveAction("g"))
	assert.Empty(t, m.pendingKey)

	assert.Equal(t, ActionNone, m.resolveAction("g"))
	assert.Equal(t, ActionDown, m.resolveAction("j"))
	assert.Empty(t, m.pendingKey)
}

func TestHintsCoverEveryMode(t *testing.T) {
	for _, mode := range ValidKeyModes {
		footer := footerHints(mode)
		help := helpHints(mode)
		assert.NotEmpty(t, footer, mode)
		assert.Greater(t, len(help), len(footer), mode)

		actions := map[Action]bool{}
		for _, h := range help {
			actions[h.Action] = true
		}
		for _, a := range []Action{ActionDown, ActionSearch, ActionRefresh, ActionCopy, ActionHelp, ActionQuit} {
			assert.True(t, actions[a], "%s help lacks %s", mode, a)
		}
	}
}
