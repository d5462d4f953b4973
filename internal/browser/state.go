// Package browser holds the interactive browsing engine: the key filter, the
// value renderer and the state machine behind the key list, the search
// buffer and the detail pane. It has no terminal or network dependencies;
// the ui package drives it with input events and store results.
package browser

import (
	"github.com/oakwood-commons/redkv/internal/store"
)

// Mode is the input mode of the browser.
type Mode int

const (
	// ModeNormal navigates the key list.
	ModeNormal Mode = iota
	// ModeSearch edits the filter query.
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "normal"
}

// EntryState is the load state of a cached key detail.
type EntryState int

const (
	// EntryNone means nothing was requested for the key yet.
	EntryNone EntryState = iota
	EntryLoading
	EntryLoaded
	EntryFailed
)

// Entry is the cached detail of one key.
type Entry struct {
	State  EntryState
	Detail store.Detail
	Block  DisplayBlock
	Err    error
}

// FetchRequest asks the caller to load the detail of Key. Seq must be
// echoed back in the FetchResult.
type FetchRequest struct {
	Key string
	Seq uint64
}

// FetchResult is the outcome of a FetchRequest.
type FetchResult struct {
	Key    string
	Seq    uint64
	Detail store.Detail
	Err    error
}

// SearchState is the query being edited in search mode.
type SearchState struct {
	Query  string
	Cursor int
}

// DetailPane is what the detail pane shows for the selected key. It is
// derived from the cache on every call so it always belongs to Key.
type DetailPane struct {
	Key   string
	State EntryState
	Meta  store.KeyMeta
	Block DisplayBlock
	Err   error
}

// Options tune the browser.
type Options struct {
	// AutoLoad requests the detail of a key as soon as it becomes selected.
	AutoLoad bool
	// PageSize is the distance covered by PageUp/PageDown.
	PageSize int
}

// Browser owns the view state: mode, key lists, selection, search buffer
// and the per-key detail cache. It is not safe for concurrent use; every
// call is expected to happen on the UI's update turn.
type Browser struct {
	opts Options

	mode     Mode
	all      []string
	visible  []string
	selected int
	selKey   string
	// heldKey is the selection lost to a query with no matches; it is
	// reselected if a later edit of the same search shows it again.
	heldKey string
	held    bool
	search  SearchState
	filter  string
	loaded  bool

	cache    map[string]*Entry
	inflight map[string]uint64
	seq      uint64
	requests []FetchRequest
}

// New returns an empty browser in normal mode.
func New(opts Options) *Browser {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &Browser{
		opts:     opts,
		selected: -1,
		cache:    make(map[string]*Entry),
		inflight: make(map[string]uint64),
	}
}

// SetPageSize updates the PageUp/PageDown distance.
func (b *Browser) SetPageSize(n int) {
	if n > 0 {
		b.opts.PageSize = n
	}
}

// Mode returns the current input mode.
func (b *Browser) Mode() Mode { return b.mode }

// Loaded reports whether a key list was received at least once.
func (b *Browser) Loaded() bool { return b.loaded }

// Keys returns the full key list.
func (b *Browser) Keys() []string { return b.all }

// Visible returns the filtered key list.
func (b *Browser) Visible() []string { return b.visible }

// SelectedIndex returns the index of the selection in Visible, or -1.
func (b *Browser) SelectedIndex() int { return b.selected }

// Selected returns the selected key.
func (b *Browser) Selected() (string, bool) {
	if b.selected < 0 {
		return "", false
	}
	return b.visible[b.selected], true
}

// Search returns the edit buffer; it is only meaningful in search mode.
func (b *Browser) Search() SearchState { return b.search }

// Filter returns the committed filter; empty when none is active.
func (b *Browser) Filter() string { return b.filter }

// Query returns the query the visible list is currently derived from.
func (b *Browser) Query() string {
	if b.mode == ModeSearch {
		return b.search.Query
	}
	return b.filter
}

// Entry returns the cached detail for key.
func (b *Browser) Entry(key string) (Entry, bool) {
	e, ok := b.cache[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Detail returns the pane for the selected key; false when nothing is
// selected.
func (b *Browser) Detail() (DetailPane, bool) {
	key, ok := b.Selected()
	if !ok {
		return DetailPane{}, false
	}
	pane := DetailPane{Key: key, Meta: store.KeyMeta{Name: key}}
	e, ok := b.cache[key]
	if !ok {
		return pane, true
	}
	pane.State = e.State
	switch e.State {
	case EntryLoaded:
		pane.Meta = e.Detail.Meta
		pane.Block = e.Block
	case EntryFailed:
		pane.Err = e.Err
	}
	return pane, true
}

// InFlight reports how many fetches await a result.
func (b *Browser) InFlight() int { return len(b.inflight) }

// DrainRequests returns and clears the fetches issued since the last call.
func (b *Browser) DrainRequests() []FetchRequest {
	reqs := b.requests
	b.requests = nil
	return reqs
}

// SetKeys replaces the key list. The detail cache is dropped and results of
// fetches issued before this call are ignored when they arrive.
func (b *Browser) SetKeys(keys []string) {
	b.all = keys
	b.loaded = true
	b.cache = make(map[string]*Entry)
	b.inflight = make(map[string]uint64)
	b.recompute()
	b.autoLoad()
}

// Invalidate drops every cached detail and forgets in-flight fetches, so
// their results are discarded when they arrive. The key list is kept.
func (b *Browser) Invalidate() {
	b.cache = make(map[string]*Entry)
	b.inflight = make(map[string]uint64)
}

// MoveBy moves the selection by delta, clamped to the visible list.
func (b *Browser) MoveBy(delta int) {
	if b.selected < 0 {
		return
	}
	b.MoveTo(b.selected + delta)
}

// MoveTo selects index i, clamped to the visible list.
func (b *Browser) MoveTo(i int) {
	if len(b.visible) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(b.visible) {
		i = len(b.visible) - 1
	}
	if i == b.selected {
		return
	}
	b.setSelection(i)
	b.autoLoad()
}

// Up moves the selection one row up.
func (b *Browser) Up() { b.MoveBy(-1) }

// Down moves the selection one row down.
func (b *Browser) Down() { b.MoveBy(1) }

// PageUp moves the selection one page up.
func (b *Browser) PageUp() { b.MoveBy(-b.opts.PageSize) }

// PageDown moves the selection one page down.
func (b *Browser) PageDown() { b.MoveBy(b.opts.PageSize) }

// Top selects the first visible key.
func (b *Browser) Top() { b.MoveTo(0) }

// Bottom selects the last visible key.
func (b *Browser) Bottom() { b.MoveTo(len(b.visible) - 1) }

// Select requests the detail of the selected key unless it is loaded or
// already loading. A failed entry is fetched again.
func (b *Browser) Select() {
	key, ok := b.Selected()
	if !ok {
		return
	}
	b.request(key)
}

// EnterSearch switches to search mode seeded with the committed filter.
func (b *Browser) EnterSearch() {
	if b.mode == ModeSearch {
		return
	}
	b.mode = ModeSearch
	b.search = SearchState{Query: b.filter, Cursor: len(b.filter)}
	b.held = false
}

// SetQuery replaces the search buffer and refilters. Ignored outside search
// mode.
func (b *Browser) SetQuery(query string, cursor int) {
	if b.mode != ModeSearch {
		return
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(query) {
		cursor = len(query)
	}
	changed := query != b.search.Query
	b.search = SearchState{Query: query, Cursor: cursor}
	if changed {
		b.recompute()
		b.autoLoad()
	}
}

// CommitSearch keeps the query as the active filter and returns to normal
// mode.
func (b *Browser) CommitSearch() {
	if b.mode != ModeSearch {
		return
	}
	b.filter = b.search.Query
	b.search = SearchState{}
	b.mode = ModeNormal
	b.recompute()
}

// CancelSearch drops the query and the filter and returns to normal mode.
func (b *Browser) CancelSearch() {
	if b.mode != ModeSearch {
		return
	}
	hadQuery := b.search.Query != ""
	b.search = SearchState{}
	b.filter = ""
	b.mode = ModeNormal
	b.held = false
	if hadQuery {
		b.recompute()
		b.autoLoad()
	}
}

// ClearFilter drops the committed filter in normal mode.
func (b *Browser) ClearFilter() bool {
	if b.mode != ModeNormal || b.filter == "" {
		return false
	}
	b.filter = ""
	b.recompute()
	b.autoLoad()
	return true
}

// ApplyResult stores the outcome of a fetch. It returns false when the
// result is stale: superseded by a newer request for the same key, or
// issued before the key list was last replaced.
func (b *Browser) ApplyResult(res FetchResult) bool {
	seq, ok := b.inflight[res.Key]
	if !ok || seq != res.Seq {
		return false
	}
	delete(b.inflight, res.Key)
	if res.Err != nil {
		b.cache[res.Key] = &Entry{State: EntryFailed, Err: res.Err}
		return true
	}
	block, err := RenderAs(res.Detail.Meta.Type, res.Detail.Value)
	if err != nil {
		b.cache[res.Key] = &Entry{State: EntryFailed, Err: err}
		return true
	}
	b.cache[res.Key] = &Entry{State: EntryLoaded, Detail: res.Detail, Block: block}
	return true
}

func (b *Browser) request(key string) {
	if e, ok := b.cache[key]; ok && (e.State == EntryLoaded || e.State == EntryLoading) {
		return
	}
	b.seq++
	b.inflight[key] = b.seq
	b.cache[key] = &Entry{State: EntryLoading}
	b.requests = append(b.requests, FetchRequest{Key: key, Seq: b.seq})
}

func (b *Browser) autoLoad() {
	if !b.opts.AutoLoad {
		return
	}
	if key, ok := b.Selected(); ok {
		if _, cached := b.cache[key]; !cached {
			b.request(key)
		}
	}
}

func (b *Browser) setSelection(i int) {
	if i < 0 || i >= len(b.visible) {
		b.selected = -1
		b.selKey = ""
		return
	}
	b.selected = i
	b.selKey = b.visible[i]
}

// recompute rebuilds the visible list from scratch and keeps the selected
// key when it survives the filter.
func (b *Browser) recompute() {
	b.visible = Filter(b.all, b.Query())
	want, ok := b.selKey, b.selected >= 0
	if !ok && b.held && b.mode == ModeSearch {
		want, ok = b.heldKey, true
	}
	b.held = false
	if ok {
		for i, k := range b.visible {
			if k == want {
				b.setSelection(i)
				return
			}
		}
	}
	if len(b.visible) > 0 {
		b.setSelection(0)
		return
	}
	if ok && b.mode == ModeSearch {
		b.heldKey, b.held = want, true
	}
	b.setSelection(-1)
}
