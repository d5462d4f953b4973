package ui

import (
	"context"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/redkv/internal/store"
)

// fakeStore serves string keys from memory. Errors can be injected per key
// and for the key list.
type fakeStore struct {
	mu        sync.Mutex
	keys      []string
	values    map[string]store.Value
	ttls      map[string]store.TTL
	failures  map[string]error
	listErr   error
	listCalls int
	describes map[string]int
}

func newFakeStore(keys ...string) *fakeStore {
	s := &fakeStore{
		values:    make(map[string]store.Value),
		ttls:      make(map[string]store.TTL),
		failures:  make(map[string]error),
		describes: make(map[string]int),
	}
	for _, k := range keys {
		s.put(k, "value-"+k)
	}
	return s
}

func (s *fakeStore) put(key, val string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = store.StringValue{Data: []byte(val)}
}

func (s *fakeStore) putValue(key string, v store.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

func (s *fakeStore) fail(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, key)
		return
	}
	s.failures[key] = err
}

func (s *fakeStore) describeCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.describes[key]
}

func (s *fakeStore) ListKeys(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]string(nil), s.keys...), nil
}

func (s *fakeStore) KeyType(_ context.Context, key string) (store.TypeTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.describes[key]++
	if err := s.failures[key]; err != nil {
		return 0, err
	}
	v, ok := s.values[key]
	if !ok {
		return 0, store.ErrNotFound
	}
	return v.Type(), nil
}

func (s *fakeStore) TTL(_ context.Context, key string) (store.TTL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl, ok := s.ttls[key]; ok {
		return ttl, nil
	}
	return store.NoExpiry(), nil
}

func (s *fakeStore) ReadValue(_ context.Context, key string, _ store.TypeTag) (store.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

// newTestModel builds a 100x24 model over st without loading keys.
func newTestModel(t *testing.T, st store.Store, opts Options) *Model {
	t.Helper()
	opts.Store = st
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:6379"
	}
	m := NewModel(context.Background(), opts)
	t.Cleanup(m.cancel)
	m.WinWidth, m.WinHeight = 100, 24
	m.applyLayout()
	return m
}

// loadedModel is newTestModel with the key list already loaded.
func loadedModel(t *testing.T, st store.Store, opts Options) *Model {
	t.Helper()
	m := newTestModel(t, st, opts)
	require.True(t, drive(m, m.Init()))
	require.True(t, m.Browser.Loaded())
	return m
}

// press sends the keys described by tokens and returns their commands
// without running them.
func press(t *testing.T, m *Model, tokens ...string) tea.Cmd {
	t.Helper()
	keys, err := ParseKeys(tokens)
	require.NoError(t, err)
	cmds := make([]tea.Cmd, 0, len(keys))
	for _, k := range keys {
		_, cmd := m.Update(k)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// pressRun sends keys and completes every store call they trigger.
func pressRun(t *testing.T, m *Model, tokens ...string) {
	t.Helper()
	keys, err := ParseKeys(tokens)
	require.NoError(t, err)
	ApplyKeys(m, keys)
}

func screen(m *Model) string {
	return ansi.Strip(m.Render())
}
