package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilprobe/ilprobe/internal/errs"
	"github.com/ilprobe/ilprobe/internal/testutil"
)

const tinyDump = `{
  "format": 1,
  "assembly": { "name": "Tiny" },
  "types": [
    {
      "full_name": "Tiny.Thing",
      "visibility": "public",
      "methods": [
        { "name": "Go", "visibility": "public", "returns": "System.Void" }
      ]
    }
  ]
}`

func TestEmptyWorkspace(t *testing.T) {
	w := New(testutil.NewTestLogger(t))

	assert.False(t, w.IsLoaded())

	_, err := w.Current()
	assert.ErrorIs(t, err, errs.ErrNoAssemblyLoaded)

	_, err = w.Resolve("T:Acme.Widget")
	assert.ErrorIs(t, err, errs.ErrNoAssemblyLoaded)
}

func TestLoadBytes(t *testing.T) {
	w := New(testutil.NewTestLogger(t))

	session, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.True(t, w.IsLoaded())
	assert.Equal(t, "Acme.Widgets", session.Snapshot.Info.Name)

	current, err := w.Current()
	require.NoError(t, err)
	assert.Same(t, session, current)

	sym, err := w.Resolve("T:Acme.Widget")
	require.NoError(t, err)
	assert.Equal(t, "Acme.Widget", sym.FullName)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, testutil.SampleDump(), 0o644))

	w := New(testutil.NewTestLogger(t))
	session, err := w.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme.Widgets", session.Snapshot.Info.Name)

	_, err = w.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReloadReplacesSession(t *testing.T) {
	w := New(testutil.NewTestLogger(t))

	first, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)
	second, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.Snapshot.SessionID, second.Snapshot.SessionID)

	current, err := w.Current()
	require.NoError(t, err)
	assert.Same(t, second, current)
}

func TestStaleIDsAfterReload(t *testing.T) {
	w := New(testutil.NewTestLogger(t))

	first, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)

	const staleID = "M:Acme.Widget.Compute(System.String)"
	_, err = w.Resolve(staleID)
	require.NoError(t, err)

	_, err = w.LoadBytes([]byte(tinyDump))
	require.NoError(t, err)

	// The id addressed the old assembly; against the new session it
	// names nothing.
	_, err = w.Resolve(staleID)
	assert.ErrorIs(t, err, errs.ErrSymbolNotFound)

	sym, err := w.Resolve("M:Tiny.Thing.Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", sym.Name)

	// A handler holding the old session keeps its consistent view.
	_, err = first.Index.Resolve(staleID)
	assert.NoError(t, err)
}

func TestClear(t *testing.T) {
	w := New(testutil.NewTestLogger(t))

	// Clearing an empty workspace is a no-op.
	w.Clear()
	assert.False(t, w.IsLoaded())

	_, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)

	w.Clear()
	assert.False(t, w.IsLoaded())
	_, err = w.Resolve("T:Acme.Widget")
	assert.ErrorIs(t, err, errs.ErrNoAssemblyLoaded)
}

func TestLoadFailureKeepsSession(t *testing.T) {
	w := New(testutil.NewTestLogger(t))

	_, err := w.LoadBytes([]byte("not json"))
	assert.Error(t, err)
	assert.False(t, w.IsLoaded())

	session, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)

	_, err = w.LoadBytes([]byte(`{"format": 99}`))
	assert.Error(t, err)

	current, err := w.Current()
	require.NoError(t, err)
	assert.Same(t, session, current)
}

func TestConcurrentReadersAndReloads(t *testing.T) {
	w := New(testutil.NewTestLogger(t))
	_, err := w.LoadBytes(testutil.SampleDump())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := w.Resolve("T:Acme.Widget"); err != nil {
					// Only a reload to the tiny assembly may race in.
					assert.ErrorIs(t, err, errs.ErrSymbolNotFound)
				}
				w.IsLoaded()
			}
		}()
	}

	for i := 0; i < 10; i++ {
		_, err := w.LoadBytes([]byte(tinyDump))
		require.NoError(t, err)
		_, err = w.LoadBytes(testutil.SampleDump())
		require.NoError(t, err)
	}
	wg.Wait()
}
