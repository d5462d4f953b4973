package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/redkv/internal/browser"
	"github.com/oakwood-commons/redkv/internal/store"
	"github.com/oakwood-commons/redkv/pkg/logger"
)

// Options configure a Model.
type Options struct {
	Store   store.Store
	Addr    string
	DB      int
	Timeout time.Duration // per-key fetch deadline; zero means none

	KeyMode       KeyMode
	Theme         Theme
	NoColor       bool
	AutoLoad      bool
	InitialFilter string
	KeyPaneWidth  int
	Debug         bool // show the debug bar

	Logger logr.Logger
}

// Model is the bubbletea model of the browser. All view state lives in
// Browser and is only touched from Update; store calls run as commands and
// come back as messages.
type Model struct {
	Browser *browser.Browser
	Input   textinput.Model
	Status  StatusModel
	Footer  FooterModel
	Help    HelpModel
	Debug   DebugModel

	KeyMode KeyMode
	NoColor bool

	WinWidth         int
	WinHeight        int
	ForceWindowSize  bool
	DesiredWinWidth  int
	DesiredWinHeight int

	store   store.Store
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	addr    string
	db      int
	styles  styles
	lgr     logr.Logger

	keyPaneWidth int
	listTop      int
	detailTop    int
	detailKey    string
	pendingKey   string
	loadingKeys  bool
	keysFailed   bool
	keysSeq      uint64
	primed       bool // key list already loaded before the program started
	quitting     bool
}

// NewModel builds a model bound to ctx; quitting cancels it, which abandons
// store calls still in flight.
func NewModel(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	mode := opts.KeyMode
	if !IsValidKeyMode(string(mode)) {
		mode = DefaultKeyMode
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type to filter keys"
	ti.CharLimit = 256
	ti.SetWidth(40)
	// A static cursor keeps every command the model returns a store call.
	ts := ti.Styles()
	ts.Cursor.Blink = false
	ti.SetStyles(ts)

	m := &Model{
		Browser:      browser.New(browser.Options{AutoLoad: opts.AutoLoad}),
		Input:        ti,
		Status:       NewStatusModel(),
		Footer:       NewFooterModel(),
		Help:         HelpModel{KeyMode: mode},
		KeyMode:      mode,
		NoColor:      opts.NoColor,
		store:        opts.Store,
		ctx:          ctx,
		cancel:       cancel,
		timeout:      opts.Timeout,
		addr:         opts.Addr,
		db:           opts.DB,
		styles:       newStyles(opts.Theme, opts.NoColor),
		lgr:          opts.Logger,
		keyPaneWidth: opts.KeyPaneWidth,
	}
	m.Footer.KeyMode = mode
	m.Debug.Visible = opts.Debug

	if f := opts.InitialFilter; f != "" {
		m.Browser.EnterSearch()
		m.Browser.SetQuery(f, len(f))
		m.Browser.CommitSearch()
	}
	m.applyLayout()
	return m
}

// Init loads the key list.
func (m *Model) Init() tea.Cmd {
	if m.primed {
		return nil
	}
	return m.loadKeysCmd()
}

// Quitting reports whether the user asked to leave.
func (m *Model) Quitting() bool { return m.quitting }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		if m.ForceWindowSize {
			if m.DesiredWinWidth > 0 {
				w = m.DesiredWinWidth
			}
			if m.DesiredWinHeight > 0 {
				h = m.DesiredWinHeight
			}
		}
		if w == m.WinWidth && h == m.WinHeight {
			return m, nil
		}
		m.WinWidth, m.WinHeight = w, h
		m.applyLayout()
		return m, nil

	case keysLoadedMsg:
		return m, m.handleKeysLoaded(msg)

	case detailLoadedMsg:
		m.handleDetailLoaded(msg)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setStatus(StatusError, "copy failed: %v", msg.err)
		} else {
			m.setStatus(StatusSuccess, "copied %s", browser.EscapeBytes([]byte(msg.key)))
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.Browser.Mode() == browser.ModeSearch {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	m.Status.Message = ""

	if m.Help.Visible {
		switch keyStr {
		case "esc", "f1", "?":
			m.Help.Visible = false
		case "ctrl+c":
			return m, m.quit()
		}
		return m, nil
	}

	if m.Browser.Mode() == browser.ModeSearch {
		return m, m.handleSearchKey(msg, keyStr)
	}
	return m, m.execute(m.resolveAction(keyStr))
}

// searchPassthrough lists the common bindings that still act while the
// search input has focus. Home and end stay with the input.
var searchPassthrough = map[Action]bool{
	ActionQuit:       true,
	ActionRefresh:    true,
	ActionCopy:       true,
	ActionHelp:       true,
	ActionDetailDown: true,
	ActionDetailUp:   true,
}

// handleSearchKey routes keys while the search input has focus: navigation,
// Enter/Esc and the global function keys go to the browser, everything else
// edits the query.
func (m *Model) handleSearchKey(msg tea.KeyPressMsg, keyStr string) tea.Cmd {
	switch keyStr {
	case "enter":
		m.Browser.CommitSearch()
		m.Input.Blur()
		return m.afterMove()
	case "esc":
		m.Browser.CancelSearch()
		m.Input.Blur()
		m.Input.SetValue("")
		return m.afterMove()
	case "ctrl+c":
		return m.quit()
	case "up":
		m.Browser.Up()
		return m.afterMove()
	case "down":
		m.Browser.Down()
		return m.afterMove()
	case "pgup":
		m.Browser.PageUp()
		return m.afterMove()
	case "pgdown":
		m.Browser.PageDown()
		return m.afterMove()
	}
	if action := commonKeyBindings[keyStr]; searchPassthrough[action] {
		return m.execute(action)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.Browser.SetQuery(m.Input.Value(), m.Input.Position())
	return tea.Batch(cmd, m.afterMove())
}

func (m *Model) execute(action Action) tea.Cmd {
	switch action {
	case ActionNone:
		return nil
	case ActionDown:
		m.Browser.Down()
	case ActionUp:
		m.Browser.Up()
	case ActionPageDown:
		m.Browser.PageDown()
	case ActionPageUp:
		m.Browser.PageUp()
	case ActionTop:
		m.Browser.Top()
	case ActionBottom:
		m.Browser.Bottom()
	case ActionSelect:
		m.Browser.Select()
	case ActionSearch:
		m.Browser.EnterSearch()
		q := m.Browser.Search().Query
		m.Input.SetValue(q)
		m.Input.SetCursor(len(q))
		return tea.Batch(m.Input.Focus(), m.afterMove())
	case ActionCancel:
		if m.Browser.ClearFilter() {
			m.setStatus(StatusInfo, "filter cleared")
		}
	case ActionRefresh:
		return m.refresh()
	case ActionCopy:
		return m.copySelected()
	case ActionHelp:
		m.Help.Visible = !m.Help.Visible
		return nil
	case ActionQuit:
		return m.quit()
	case ActionDetailDown:
		if m.detailTop < m.maxDetailTop() {
			m.detailTop++
		}
		return nil
	case ActionDetailUp:
		if m.detailTop > 0 {
			m.detailTop--
		}
		return nil
	}
	return m.afterMove()
}

// afterMove keeps the list window around the selection, resets the detail
// scroll when the selected key changed and dispatches queued fetches.
func (m *Model) afterMove() tea.Cmd {
	m.syncListScroll()
	key, _ := m.Browser.Selected()
	if key != m.detailKey {
		m.detailKey = key
		m.detailTop = 0
	}
	return m.dispatchFetches()
}

func (m *Model) handleKeysLoaded(msg keysLoadedMsg) tea.Cmd {
	if msg.seq != m.keysSeq {
		m.lgr.V(1).Info("discarded stale key list", logger.SeqKey, msg.seq)
		m.debugf("stale key list seq=%d", msg.seq)
		return nil
	}
	m.loadingKeys = false
	m.keysFailed = msg.err != nil
	if msg.err != nil {
		m.lgr.Error(msg.err, "key list failed", logger.AddrKey, m.addr)
		m.setStatus(StatusError, "cannot list keys: %v", msg.err)
		m.debugf("key list failed seq=%d", msg.seq)
		return nil
	}
	m.Browser.SetKeys(msg.keys)
	m.debugf("key list seq=%d count=%d in %s", msg.seq, len(msg.keys), msg.elapsed)
	m.lgr.Info("key list loaded", logger.CountKey, len(msg.keys), "elapsed", msg.elapsed.String())
	m.setStatus(StatusInfo, "%d keys loaded in %s", len(msg.keys), msg.elapsed.Round(time.Millisecond))
	return m.afterMove()
}

func (m *Model) handleDetailLoaded(msg detailLoadedMsg) {
	res := msg.result
	if !m.Browser.ApplyResult(res) {
		m.lgr.V(1).Info("discarded stale result", logger.KeyNameKey, res.Key, logger.SeqKey, res.Seq)
		m.debugf("discarded %q seq=%d", res.Key, res.Seq)
		return
	}
	m.debugf("result %q seq=%d in %s err=%v", res.Key, res.Seq, msg.elapsed, res.Err)
	if res.Err != nil {
		m.lgr.Info("fetch failed", logger.KeyNameKey, res.Key, logger.SeqKey, res.Seq, "error", res.Err.Error())
		return
	}
	m.lgr.V(1).Info("fetch finished", logger.KeyNameKey, res.Key, logger.SeqKey, res.Seq,
		"type", res.Detail.Meta.Type.String(), "elapsed", msg.elapsed.String())
}

func (m *Model) refresh() tea.Cmd {
	m.Browser.Invalidate()
	m.detailTop = 0
	m.setStatus(StatusInfo, "refreshing…")
	return m.loadKeysCmd()
}

func (m *Model) copySelected() tea.Cmd {
	key, ok := m.Browser.Selected()
	if !ok {
		m.setStatus(StatusError, "nothing to copy")
		return nil
	}
	return copyCmd(key)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.cancel()
	return tea.Quit
}

func (m *Model) setStatus(kind StatusKind, format string, args ...any) {
	m.Status.Kind = kind
	m.Status.Message = fmt.Sprintf(format, args...)
}

// describeError turns a per-key failure into the text of the detail pane.
func describeError(err error) string {
	var connErr *store.ConnectionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "key does not exist (deleted or expired)"
	case errors.Is(err, store.ErrUnsupportedType):
		return strings.TrimPrefix(err.Error(), "describe: ")
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out waiting for the server"
	case errors.As(err, &connErr):
		return "connection error: " + connErr.Err.Error()
	default:
		return err.Error()
	}
}
