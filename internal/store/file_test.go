package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
)

func TestFileStore_LoadInitializesEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	s, err := fs.Load()
	require.NoError(t, err)
	require.Empty(t, s.UsedNumbers())

	// The empty aggregate was persisted, not just returned.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"usedNumbers":[],"topicDrawers":{},"topicNumbers":{}}`, string(data))
}

func TestFileStore_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	s, err := draw.Apply(draw.NewEmptyState(),
		draw.Command{Type: draw.CmdClaim, Number: 33, Topic: "fall", User: "ana"}, 50)
	require.NoError(t, err)
	require.NoError(t, fs.Save(s))

	got, err := fs.Load()
	require.NoError(t, err)
	require.Equal(t, []int{33}, got.UsedNumbers())
	require.Equal(t, 33, got.Numbers["fall"]["ana"])
}

func TestFileStore_SaveReplacesWholeRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs := NewFileStore(path)

	s, err := draw.Apply(draw.NewEmptyState(), draw.Command{Type: draw.CmdClaim, Number: 1}, 50)
	require.NoError(t, err)
	require.NoError(t, fs.Save(s))
	require.NoError(t, fs.Save(draw.NewEmptyState()))

	got, err := fs.Load()
	require.NoError(t, err)
	require.Empty(t, got.UsedNumbers())

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestFileStore_SaveFailsOnMissingDir(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope", "state.json"))
	err := fs.Save(draw.NewEmptyState())
	require.Error(t, err)
}
