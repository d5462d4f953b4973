package ui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/redkv/internal/browser"
	"github.com/oakwood-commons/redkv/internal/store"
	"github.com/oakwood-commons/redkv/pkg/logger"
)

// keysLoadedMsg carries the outcome of a key list load. seq identifies the
// load so that a refresh supersedes an older one still running.
type keysLoadedMsg struct {
	seq     uint64
	keys    []string
	err     error
	elapsed time.Duration
}

// detailLoadedMsg carries the outcome of one FetchRequest.
type detailLoadedMsg struct {
	result  browser.FetchResult
	elapsed time.Duration
}

type copiedMsg struct {
	key string
	err error
}

func (m *Model) loadKeysCmd() tea.Cmd {
	m.keysSeq++
	m.loadingKeys = true
	m.keysFailed = false
	seq, st, ctx := m.keysSeq, m.store, m.ctx
	m.lgr.V(1).Info("loading keys", logger.SeqKey, seq, logger.AddrKey, m.addr, logger.DBKey, m.db)
	return func() tea.Msg {
		start := time.Now()
		keys, err := st.ListKeys(ctx)
		return keysLoadedMsg{seq: seq, keys: keys, err: err, elapsed: time.Since(start)}
	}
}

// dispatchFetches turns the browser's queued requests into commands.
func (m *Model) dispatchFetches() tea.Cmd {
	reqs := m.Browser.DrainRequests()
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		m.lgr.V(1).Info("fetch started", logger.KeyNameKey, req.Key, logger.SeqKey, req.Seq)
		m.debugf("fetch %q seq=%d", req.Key, req.Seq)
		cmds = append(cmds, m.fetchCmd(req))
	}
	return tea.Batch(cmds...)
}

func (m *Model) fetchCmd(req browser.FetchRequest) tea.Cmd {
	st, parent, timeout := m.store, m.ctx, m.timeout
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := parent, context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(parent, timeout)
		}
		defer cancel()
		detail, err := store.Describe(ctx, st, req.Key)
		return detailLoadedMsg{
			result:  browser.FetchResult{Key: req.Key, Seq: req.Seq, Detail: detail, Err: err},
			elapsed: time.Since(start),
		}
	}
}

func copyCmd(key string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{key: key, err: CopyToClipboard(key)}
	}
}
