package ui

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/redkv/internal/store"
)

func miniredisStore(t *testing.T) (*miniredis.Miniredis, *store.Redis) {
	t.Helper()
	srv := miniredis.RunT(t)
	r, err := store.NewRedis(store.Options{URL: "redis://" + srv.Addr() + "/0", Match: "*", ScanCount: 100, Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return srv, r
}

func TestRenderSnapshotAgainstServer(t *testing.T) {
	srv, r := miniredisStore(t)
	require.NoError(t, srv.Set("greeting", "hello world"))
	srv.HSet("user:1", "name", "ada", "lang", "go")
	_, err := srv.ZAdd("scores", 2.5, "bob")
	require.NoError(t, err)
	_, err = srv.ZAdd("scores", 1, "amy")
	require.NoError(t, err)
	srv.SetTTL("greeting", 2*time.Minute)

	keys, err := ParseKeys([]string{"<CR>"})
	require.NoError(t, err)
	out := ansi.Strip(RenderSnapshot(context.Background(), Options{Store: r, Addr: srv.Addr(), NoColor: true}, SnapshotConfig{Width: 90, Height: 20, Keys: keys}))

	assert.Contains(t, out, "keys (3)")
	assert.Contains(t, out, "greeting")
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "2m0s")

	keys, err = ParseKeys([]string{"jj<CR>"})
	require.NoError(t, err)
	out = ansi.Strip(RenderSnapshot(context.Background(), Options{Store: r, NoColor: true}, SnapshotConfig{Keys: keys}))
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "hash, 2 fields")

	keys, err = ParseKeys([]string{"/score<CR><CR>"})
	require.NoError(t, err)
	out = ansi.Strip(RenderSnapshot(context.Background(), Options{Store: r, NoColor: true}, SnapshotConfig{Keys: keys}))
	assert.Contains(t, out, "filter: score")
	assert.Contains(t, out, "zset, 2 members")
	assert.Regexp(t, `amy\s+1`, out)
}

func TestRenderSnapshotEmptyDatabase(t *testing.T) {
	_, r := miniredisStore(t)
	out := ansi.Strip(RenderSnapshot(context.Background(), Options{Store: r}, SnapshotConfig{}))
	assert.Contains(t, out, "(no keys)")
	assert.Contains(t, out, "the database is empty")
}

func TestRenderSnapshotStopsOnQuit(t *testing.T) {
	_, r := miniredisStore(t)
	keys, err := ParseKeys([]string{"q", "?"})
	require.NoError(t, err)
	out := ansi.Strip(RenderSnapshot(context.Background(), Options{Store: r}, SnapshotConfig{Keys: keys}))
	assert.NotContains(t, out, "Key bindings", "keys after quit are not applied")
}
