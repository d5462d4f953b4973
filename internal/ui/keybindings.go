package ui

// KeyMode represents the keybinding mode for the UI.
type KeyMode string

const (
	// KeyModeVim enables vim-style single-letter bindings (j/k, gg/G, / search).
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs enables ctrl/alt chords (C-n/C-p, M-</M->, C-s search).
	KeyModeEmacs KeyMode = "emacs"
	// KeyModeFunction disables letter shortcuts and uses function keys only.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is the default keybinding mode.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists all valid key modes for validation.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeEmacs, KeyModeFunction}

// IsValidKeyMode checks if a key mode string is valid.
func IsValidKeyMode(mode string) bool {
	for _, m := range ValidKeyModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// Action is what a key press asks the browser to do.
type Action string

const (
	ActionNone       Action = ""
	ActionDown       Action = "down"
	ActionUp         Action = "up"
	ActionPageDown   Action = "page_down"
	ActionPageUp     Action = "page_up"
	ActionTop        Action = "top"
	ActionBottom     Action = "bottom"
	ActionSelect     Action = "select"
	ActionSearch     Action = "search"
	ActionCancel     Action = "cancel"
	ActionRefresh    Action = "refresh"
	ActionCopy       Action = "copy"
	ActionHelp       Action = "help"
	ActionQuit       Action = "quit"
	ActionDetailDown Action = "detail_down"
	ActionDetailUp   Action = "detail_up"
	actionPendingG   Action = "pending_g" // waiting for the second g of gg
)

// commonKeyBindings work in every key mode.
var commonKeyBindings = map[string]Action{
	"down":       ActionDown,
	"up":         ActionUp,
	"pgdown":     ActionPageDown,
	"pgup":       ActionPageUp,
	"home":       ActionTop,
	"end":        ActionBottom,
	"enter":      ActionSelect,
	"esc":        ActionCancel,
	"shift+down": ActionDetailDown,
	"shift+up":   ActionDetailUp,
	"f1":         ActionHelp,
	"f3":         ActionSearch,
	"f5":         ActionRefresh,
	"f6":         ActionCopy,
	"f10":        ActionQuit,
	"ctrl+c":     ActionQuit,
}

// VimKeyBindings maps keys to actions for vim mode.
var VimKeyBindings = map[string]Action{
	"j":      ActionDown,
	"k":      ActionUp,
	"ctrl+f": ActionPageDown,
	"ctrl+b": ActionPageUp,
	"g":      actionPendingG,
	"G":      ActionBottom,
	"J":      ActionDetailDown,
	"K":      ActionDetailUp,
	"/":      ActionSearch,
	"r":      ActionRefresh,
	"y":      ActionCopy,
	"?":      ActionHelp,
	"q":      ActionQuit,
}

// EmacsKeyBindings maps keys to actions for emacs mode.
var EmacsKeyBindings = map[string]Action{
	"ctrl+n": ActionDown,
	"ctrl+p": ActionUp,
	"ctrl+v": ActionPageDown,
	"alt+v":  ActionPageUp,
	"alt+<":  ActionTop,
	"alt+>":  ActionBottom,
	"alt+n":  ActionDetailDown,
	"alt+p":  ActionDetailUp,
	"ctrl+s": ActionSearch,
	"ctrl+r": ActionRefresh,
	"alt+w":  ActionCopy,
	"ctrl+g": ActionCancel,
	"ctrl+q": ActionQuit,
}

// resolveAction maps a key press in normal mode to an action for the
// current key mode. Mode-specific bindings win over the common ones.
func (m *Model) resolveAction(keyStr string) Action {
	if m.KeyMode == KeyModeVim && m.pendingKey == "g" {
		m.pendingKey = ""
		if keyStr == "g" {
			return ActionTop
		}
	}

	var modeBindings map[string]Action
	switch m.KeyMode {
	case KeyModeVim:
		modeBindings = VimKeyBindings
	case KeyModeEmacs:
		modeBindings = EmacsKeyBindings
	}
	if action, ok := modeBindings[keyStr]; ok {
		if action == actionPendingG {
			m.pendingKey = "g"
			return ActionNone
		}
		return action
	}
	return commonKeyBindings[keyStr]
}

// keyHint is one entry of the footer and the help overlay.
type keyHint struct {
	Keys   string
	Action Action
	Label  string
}

// footerHints returns the short list shown in the footer.
func footerHints(mode KeyMode) []keyHint {
	switch mode {
	case KeyModeEmacs:
		return []keyHint{
			{"F1", ActionHelp, "help"},
			{"C-s", ActionSearch, "search"},
			{"C-r", ActionRefresh, "refresh"},
			{"M-w", ActionCopy, "copy"},
			{"C-q", ActionQuit, "quit"},
		}
	case KeyModeFunction:
		return []keyHint{
			{"F1", ActionHelp, "help"},
			{"F3", ActionSearch, "search"},
			{"F5", ActionRefresh, "refresh"},
			{"F6", ActionCopy, "copy"},
			{"F10", ActionQuit, "quit"},
		}
	default:
		return []keyHint{
			{"?", ActionHelp, "help"},
			{"/", ActionSearch, "search"},
			{"r", ActionRefresh, "refresh"},
			{"y", ActionCopy, "copy"},
			{"q", ActionQuit, "quit"},
		}
	}
}

// hintKeys returns the key shown in help for action under mode.
func hintKeys(mode KeyMode, action Action) string {
	for _, h := range helpHints(mode) {
		if h.Action == action {
			return h.Keys
		}
	}
	return ""
}

// helpHints returns the full binding table for the help overlay.
func helpHints(mode KeyMode) []keyHint {
	switch mode {
	case KeyModeEmacs:
		return []keyHint{
			{"C-n/C-p", ActionDown, "move down/up"},
			{"C-v/M-v", ActionPageDown, "page down/up"},
			{"M-</M->", ActionTop, "go to top/bottom"},
			{"Enter", ActionSelect, "load key details"},
			{"M-n/M-p", ActionDetailDown, "scroll details"},
			{"C-s", ActionSearch, "search keys"},
			{"C-g/Esc", ActionCancel, "clear filter"},
			{"C-r", ActionRefresh, "reload key list"},
			{"M-w", ActionCopy, "copy key name"},
			{"F1", ActionHelp, "toggle help"},
			{"C-q", ActionQuit, "quit"},
		}
	case KeyModeFunction:
		return []keyHint{
			{"↑/↓", ActionDown, "move down/up"},
			{"PgDn/PgUp", ActionPageDown, "page down/up"},
			{"Home/End", ActionTop, "go to top/bottom"},
			{"Enter", ActionSelect, "load key details"},
			{"S-↓/S-↑", ActionDetailDown, "scroll details"},
			{"F3", ActionSearch, "search keys"},
			{"Esc", ActionCancel, "clear filter"},
			{"F5", ActionRefresh, "reload key list"},
			{"F6", ActionCopy, "copy key name"},
			{"F1", ActionHelp, "toggle help"},
			{"F10", ActionQuit, "quit"},
		}
	default:
		return []keyHint{
			{"j/k", ActionDown, "move down/up"},
			{"C-f/C-b", ActionPageDown, "page down/up"},
			{"gg/G", ActionTop, "go to top/bottom"},
			{"Enter", ActionSelect, "load key details"},
			{"J/K", ActionDetailDown, "scroll details"},
			{"/", ActionSearch, "search keys"},
			{"Esc", ActionCancel, "clear filter"},
			{"r", ActionRefresh, "reload key list"},
			{"y", ActionCopy, "copy key name"},
			{"?", ActionHelp, "toggle help"},
			{"q", ActionQuit, "quit"},
		}
	}
}
