package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/redkv/internal/browser"
	"github.com/oakwood-commons/redkv/internal/store"
)

func TestInitLoadsKeysAndSelectsFirst(t *testing.T) {
	st := newFakeStore("alpha", "beta", "gamma")
	m := newTestModel(t, st, Options{})

	out := screen(m)
	assert.Contains(t, out, "loading keys…")

	require.True(t, drive(m, m.Init()))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, m.Browser.Visible())
	key, ok := m.Browser.Selected()
	require.True(t, ok)
	assert.Equal(t, "alpha", key)

	out = screen(m)
	assert.Contains(t, out, "redkv  127.0.0.1:6379  db 0")
	assert.Contains(t, out, "keys (3)")
	assert.Contains(t, out, "press Enter to load")
	assert.Contains(t, out, "3 keys loaded")
	assert.Zero(t, st.describeCount("alpha"), "details are loaded on demand")
}

func TestEnterLoadsDetail(t *testing.T) {
	st := newFakeStore("alpha", "beta")
	st.ttls["alpha"] = store.ExpiresIn(90_000_000_000)
	m := loadedModel(t, st, Options{})

	cmd := press(t, m, "<CR>")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.Browser.InFlight())
	assert.Contains(t, screen(m), "loading…")

	require.True(t, drive(m, cmd))
	out := screen(m)
	assert.Contains(t, out, "value-alpha")
	assert.Contains(t, out, "string, 11 bytes")
	assert.Contains(t, out, "1m30s")
	assert.Equal(t, 1, st.describeCount("alpha"))

	// a second Enter on a loaded key is served from the cache
	assert.Nil(t, press(t, m, "<CR>"))
	assert.Equal(t, 1, st.describeCount("alpha"))
}

// ttlRow returns the detail header line that carries the TTL.
func ttlRow(t *testing.T, m *Model) string {
	t.Helper()
	for _, line := range strings.Split(screen(m), "\n") {
		if strings.Contains(line, "ttl ") {
			return line
		}
	}
	t.Fatalf("no ttl row on screen:\n%s", screen(m))
	return ""
}

func TestTTLRowBeforeDetailsLoad(t *testing.T) {
	st := newFakeStore("alpha", "beta")
	st.ttls["beta"] = store.ExpiresIn(90_000_000_000)
	m := loadedModel(t, st, Options{})

	pressRun(t, m, "j")
	assert.Contains(t, ttlRow(t, m), "unknown")
	assert.NotContains(t, ttlRow(t, m), "ttl   -")

	cmd := press(t, m, "<CR>")
	assert.Contains(t, ttlRow(t, m), "loading…")

	require.True(t, drive(m, cmd))
	assert.Contains(t, ttlRow(t, m), "1m30s")
}

func TestSlowResultForPreviousSelectionIsNeverShown(t *testing.T) {
	st := newFakeStore("alpha", "beta")
	m := loadedModel(t, st, Options{})

	slowAlpha := press(t, m, "<CR>")
	require.NotNil(t, slowAlpha)

	pressRun(t, m, "j", "<CR>")
	key, _ := m.Browser.Selected()
	require.Equal(t, "beta", key)
	assert.Contains(t, screen(m), "value-beta")

	// alpha's reply lands after beta's and must not replace the pane
	require.True(t, drive(m, slowAlpha))
	out := screen(m)
	assert.Contains(t, out, "value-beta")
	assert.NotContains(t, out, "value-alpha")

	// but it is cached for when alpha is selected again
	assert.Nil(t, press(t, m, "k"))
	assert.Contains(t, screen(m), "value-alpha")
	assert.Equal(t, 1, st.describeCount("alpha"))
}

func TestAutoLoadFetchesOnMove(t *testing.T) {
	st := newFakeStore("alpha", "beta")
	m := loadedModel(t, st, Options{AutoLoad: true})

	assert.Contains(t, screen(m), "value-alpha")
	pressRun(t, m, "j")
	assert.Contains(t, screen(m), "value-beta")
	assert.Equal(t, 1, st.describeCount("beta"))
}

func TestFetchFailureIsShownAndRetriedOnEnter(t *testing.T) {
	st := newFakeStore("alpha", "beta")
	st.fail("alpha", &store.ConnectionError{Addr: "127.0.0.1:6379", Err: errors.New("connection refused")})
	m := loadedModel(t, st, Options{})

	pressRun(t, m, "<CR>")
	out := screen(m)
	assert.Contains(t, out, "connection error: connection refused")
	assert.Contains(t, out, "press Enter to retry")

	// moving away and back does not retry on its own
	pressRun(t, m, "j", "k")
	assert.Equal(t, 1, st.describeCount("alpha"))
	assert.Contains(t, screen(m), "connection refused")

	st.fail("alpha", nil)
	pressRun(t, m, "<CR>")
	assert.Contains(t, screen(m), "value-alpha")
	assert.Equal(t, 2, st.describeCount("alpha"))
}

func TestDeletedKeyShowsNotFound(t *testing.T) {
	st := newFakeStore("alpha")
	m := loadedModel(t, st, Options{})
	st.mu.Lock()
	delete(st.values, "alpha")
	st.mu.Unlock()

	pressRun(t, m, "<CR>")
	assert.Contains(t, screen(m), "key does not exist")
}

func TestSearchFiltersLiveAndEscRestores(t *testing.T) {
	st := newFakeStore("session:1", "user:1", "user:2", "cache:x")
	m := loadedModel(t, st, Options{})

	pressRun(t, m, "/user")
	assert.Equal(t, browser.ModeSearch, m.Browser.Mode())
	assert.Equal(t, []string{"user:1", "user:2"}, m.Browser.Visible())
	out := screen(m)
	assert.Contains(t, out, "keys (2 of 4)")
	assert.Contains(t, out, "apply filter")

	pressRun(t, m, "zzz")
	assert.Empty(t, m.Browser.Visible())
	assert.Contains(t, screen(m), "(no matches)")

	pressRun(t, m, "<Esc>")
	assert.Equal(t, browser.ModeNormal, m.Browser.Mode())
	assert.Len(t, m.Browser.Visible(), 4)
	assert.Empty(t, m.Input.Value())
}

func TestCommittedFilterAndClear(t *testing.T) {
	st := newFakeStore("session:1", "user:1", "user:2")
	m := loadedModel(t, st, Options{})

	pressRun(t, m, "/user", "<CR>", "j")
	assert.Equal(t, "user", m.Browser.Filter())
	key, _ := m.Browser.Selected()
	assert.Equal(t, "user:2", key)
	assert.Contains(t, screen(m), "filter: user")

	// reopening search starts from the committed filter
	pressRun(t, m, "/")
	assert.Equal(t, "user", m.Input.Value())
	pressRun(t, m, "<CR>")

	pressRun(t, m, "<Esc>")
	assert.Empty(t, m.Browser.Filter())
	assert.Len(t, m.Browser.Visible(), 3)
	assert.Contains(t, screen(m), "filter cleared")
}

func TestInitialFilterAppliesOnLoad(t *testing.T) {
	st := newFakeStore("a:1", "b:1", "a:2")
	m := loadedModel(t, st, Options{InitialFilter: "a:"})
	assert.Equal(t, []string{"a:1", "a:2"}, m.Browser.Visible())
	assert.Equal(t, browser.ModeNormal, m.Browser.Mode())
}

func TestRefreshDiscardsInFlightAndReloads(t *testing.T) {
	st := newFakeStore("alpha", "beta")
	m := loadedModel(t, st, Options{})

	pending := press(t, m, "<CR>")
	require.NotNil(t, pending)

	st.put("delta", "value-delta")
	pressRun(t, m, "r")
	assert.Contains(t, m.Browser.Visible(), "delta")
	assert.Equal(t, 2, st.listCalls)

	require.True(t, drive(m, pending))
	e, ok := m.Browser.Entry("alpha")
	assert.False(t, ok && e.State == browser.EntryLoaded, "result issued before refresh is dropped: %+v", e)
	key, _ := m.Browser.Selected()
	assert.Equal(t, "alpha", key, "selection survives the refresh")
}

func TestStaleKeyListIsIgnored(t *testing.T) {
	st := newFakeStore("alpha")
	m := newTestModel(t, st, Options{})

	stale := m.Init()() // taken before beta exists
	st.put("beta", "value-beta")

	require.True(t, drive(m, press(t, m, "r")))
	m.Update(stale)
	assert.Equal(t, []string{"alpha", "beta"}, m.Browser.Keys())
}

func TestKeyListErrorIsReported(t *testing.T) {
	st := newFakeStore("alpha")
	m := loadedModel(t, st, Options{})

	st.listErr = &store.ConnectionError{Err: errors.New("i/o timeout")}
	pressRun(t, m, "r")
	assert.Contains(t, screen(m), "cannot list keys")
	assert.Equal(t, []string{"alpha"}, m.Browser.Keys(), "previous list is kept")
}

func TestFailedFirstLoadOffersRetry(t *testing.T) {
	st := newFakeStore("alpha")
	st.listErr = &store.ConnectionError{Err: errors.New("connection refused")}
	m := newTestModel(t, st, Options{})
	require.True(t, drive(m, m.Init()))
	require.False(t, m.Browser.Loaded())

	out := screen(m)
	assert.Contains(t, out, "key list unavailable, press r to retry")
	assert.NotContains(t, out, "loading keys…")

	retry := press(t, m, "r")
	assert.Contains(t, screen(m), "loading keys…", "retry in flight")

	st.listErr = nil
	require.True(t, drive(m, retry))
	out = screen(m)
	assert.NotContains(t, out, "key list unavailable")
	assert.Contains(t, out, "alpha")

	fst := newFakeStore()
	fst.listErr = errors.New("boom")
	fm := newTestModel(t, fst, Options{KeyMode: KeyModeFunction})
	require.True(t, drive(fm, fm.Init()))
	assert.Contains(t, screen(fm), "press F5 to retry")
}

func TestCopySelectedKey(t *testing.T) {
	var copied string
	restore := StubPlatformActions(func(s string) error { copied = s; return nil })
	defer restore()

	st := newFakeStore("alpha", "beta")
	m := loadedModel(t, st, Options{})
	pressRun(t, m, "j", "y")
	assert.Equal(t, "beta", copied)
	assert.Contains(t, screen(m), "copied beta")

	StubPlatformActions(func(string) error { return errors.New("no clipboard") })
	pressRun(t, m, "y")
	assert.Contains(t, screen(m), "copy failed: no clipboard")
}

func TestHelpOverlay(t *testing.T) {
	m := loadedModel(t, newFakeStore("alpha"), Options{})

	pressRun(t, m, "?")
	assert.True(t, m.Help.Visible)
	out := screen(m)
	assert.Contains(t, out, "Key bindings (vim mode)")
	assert.Contains(t, out, "reload key list")

	// keys other than the close keys are swallowed
	pressRun(t, m, "j", "q")
	assert.True(t, m.Help.Visible)
	assert.False(t, m.Quitting())

	pressRun(t, m, "<Esc>")
	assert.False(t, m.Help.Visible)
}

func TestQuitCancelsContext(t *testing.T) {
	m := loadedModel(t, newFakeStore("alpha"), Options{})
	cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Quitting())
	assert.Error(t, m.ctx.Err())
	assert.False(t, m.View().AltScreen, "nothing is drawn after quitting")
}

func TestCtrlCQuitsFromSearch(t *testing.T) {
	m := loadedModel(t, newFakeStore("alpha"), Options{})
	pressRun(t, m, "/ab")
	cmd := press(t, m, "<C-c>")
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting())
}

func TestGlobalKeysWorkWhileSearching(t *testing.T) {
	t.Run("F10 quits", func(t *testing.T) {
		m := loadedModel(t, newFakeStore("alpha"), Options{KeyMode: KeyModeFunction})
		pressRun(t, m, "<F3>", "a")
		require.Equal(t, browser.ModeSearch, m.Browser.Mode())
		cmd := press(t, m, "<F10>")
		require.NotNil(t, cmd)
		assert.True(t, m.Quitting())
	})

	t.Run("F5 refreshes", func(t *testing.T) {
		st := newFakeStore("alpha")
		m := loadedModel(t, st, Options{KeyMode: KeyModeFunction})
		pressRun(t, m, "<F3>", "al")
		before := st.listCalls
		pressRun(t, m, "<F5>")
		assert.Equal(t, before+1, st.listCalls)
		assert.Equal(t, "al", m.Browser.Search().Query, "the query is not edited")
	})

	t.Run("F6 copies", func(t *testing.T) {
		var copied string
		restore := StubPlatformActions(func(s string) error { copied = s; return nil })
		defer restore()
		m := loadedModel(t, newFakeStore("alpha", "beta"), Options{})
		pressRun(t, m, "/bet", "<F6>")
		assert.Equal(t, "beta", copied)
		assert.Equal(t, "bet", m.Input.Value())
	})

	t.Run("F1 opens help", func(t *testing.T) {
		m := loadedModel(t, newFakeStore("alpha"), Options{})
		pressRun(t, m, "/a", "<F1>")
		assert.True(t, m.Help.Visible)
		pressRun(t, m, "<Esc>")
		assert.False(t, m.Help.Visible)
		assert.Equal(t, browser.ModeSearch, m.Browser.Mode())
	})

	t.Run("shift arrows scroll the detail", func(t *testing.T) {
		st := newFakeStore()
		items := make([][]byte, 60)
		for i := range items {
			items[i] = []byte(fmt.Sprintf("item-%02d", i))
		}
		st.putValue("queue", store.ListValue{Items: items})
		m := loadedModel(t, st, Options{})
		pressRun(t, m, "<CR>", "/", "<S-Down>", "<S-Down>")
		assert.Equal(t, 2, m.detailTop)
		pressRun(t, m, "<S-Up>")
		assert.Equal(t, 1, m.detailTop)
		assert.Empty(t, m.Input.Value())
	})
}

func TestVimTopAndBottom(t *testing.T) {
	m := loadedModel(t, newFakeStore("a", "b", "c", "d"), Options{})

	pressRun(t, m, "G")
	assert.Equal(t, 3, m.Browser.SelectedIndex())
	pressRun(t, m, "g")
	assert.Equal(t, 3, m.Browser.SelectedIndex(), "a single g waits for the second")
	pressRun(t, m, "g")
	assert.Equal(t, 0, m.Browser.SelectedIndex())

	pressRun(t, m, "g", "j")
	assert.Equal(t, 1, m.Browser.SelectedIndex(), "g followed by another key is dropped")
}

func TestEmacsAndFunctionModes(t *testing.T) {
	m := loadedModel(t, newFakeStore("a", "b", "c"), Options{KeyMode: KeyModeEmacs})
	pressRun(t, m, "<C-n>", "<C-n>")
	assert.Equal(t, 2, m.Browser.SelectedIndex())
	pressRun(t, m, "<M-<>")
	assert.Equal(t, 0, m.Browser.SelectedIndex())
	pressRun(t, m, "j")
	assert.Equal(t, 0, m.Browser.SelectedIndex(), "letters do nothing in emacs mode")

	f := loadedModel(t, newFakeStore("a", "b", "c"), Options{KeyMode: KeyModeFunction})
	pressRun(t, f, "<Down>", "<End>")
	assert.Equal(t, 2, f.Browser.SelectedIndex())
	pressRun(t, f, "<F3>")
	assert.Equal(t, browser.ModeSearch, f.Browser.Mode())
}

func TestDetailScroll(t *testing.T) {
	st := newFakeStore()
	items := make([][]byte, 60)
	for i := range items {
		items[i] = []byte(fmt.Sprintf("item-%02d", i))
	}
	st.putValue("queue", store.ListValue{Items: items})
	m := loadedModel(t, st, Options{})

	pressRun(t, m, "<CR>")
	assert.Contains(t, screen(m), "item-00")

	pressRun(t, m, "J", "J", "J")
	assert.Equal(t, 3, m.detailTop)
	out := screen(m)
	assert.NotContains(t, out, "item-00")
	assert.Contains(t, out, "item-03")

	for i := 0; i < 100; i++ {
		pressRun(t, m, "J")
	}
	assert.Equal(t, m.maxDetailTop(), m.detailTop)
	assert.Contains(t, screen(m), "item-59")

	pressRun(t, m, "K")
	assert.Equal(t, m.maxDetailTop()-1, m.detailTop)
}

func TestBinaryKeysAreEscaped(t *testing.T) {
	st := newFakeStore("bin\x00\xff")
	m := loadedModel(t, st, Options{})
	out := screen(m)
	assert.Contains(t, out, `bin\x00\xff`)
	assert.NotContains(t, out, "\x00")
}

func TestWindowResize(t *testing.T) {
	m := loadedModel(t, newFakeStore("alpha"), Options{})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	assert.Equal(t, 60, m.WinWidth)
	assert.Equal(t, 60, m.Status.Width)
	assert.Equal(t, 6, m.layout().ListRows())

	m.ForceWindowSize = true
	m.DesiredWinWidth, m.DesiredWinHeight = 90, 30
	m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	assert.Equal(t, 90, m.WinWidth)
	assert.Equal(t, 30, m.WinHeight)
}

func TestListScrollsWithSelection(t *testing.T) {
	keys := make([]string, 40)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%02d", i)
	}
	m := loadedModel(t, newFakeStore(keys...), Options{})
	pressRun(t, m, "G")
	out := screen(m)
	assert.Contains(t, out, "k39")
	assert.NotContains(t, out, "k00")

	pressRun(t, m, "<C-b>")
	assert.Less(t, m.Browser.SelectedIndex(), 39)
}

func TestDebugBar(t *testing.T) {
	m := loadedModel(t, newFakeStore("alpha"), Options{Debug: true})
	pressRun(t, m, "<CR>")
	out := screen(m)
	assert.Contains(t, out, "DBG win=100x24 mode=normal")
	assert.Contains(t, out, `result "alpha" seq=1`)
	assert.Len(t, strings.Split(out, "\n"), 24)
	assert.Equal(t, 17, m.layout().ListRows())
}
