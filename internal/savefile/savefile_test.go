package savefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grundy/internal/bible"
	"grundy/internal/config"
	"grundy/internal/game"
)

// 2023-11-14 12:00:00 UTC
const t0 = int64(1_699_963_200_000)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenSQLite(filepath.Join(dir, "save.db"), DefaultSlot)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return map[string]Backend{
		"json":   NewJSONFile(filepath.Join(dir, "nested", "save.json")),
		"sqlite": db,
	}
}

func TestBackends_EmptyLoad(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := b.Load(context.Background())
			assert.ErrorIs(t, err, ErrNoSave)

			_, ok, err := LoadState(context.Background(), b)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBackends_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, b.Save(ctx, []byte(`{"version":4,"a":1}`)))
			require.NoError(t, b.Save(ctx, []byte(`{"version":4,"a":2}`)))

			data, err := b.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":4,"a":2}`, string(data))
		})
	}
}

func TestBackends_StateRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := game.NewState("p1", "munchlet", "Momo", bible.ModeClassic, t0)

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Saver(ctx, b)(want))

			got, ok, err := LoadState(ctx, b)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want.Snapshot(), got.Snapshot())
		})
	}
}

func TestJSONFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewJSONFile(filepath.Join(dir, "save.json"))

	require.NoError(t, f.Save(context.Background(), []byte(`{}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "save.json", entries[0].Name())
}

func TestLoadState_CorruptSave(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "save.json"))
	require.NoError(t, f.Save(context.Background(), []byte("{oops")))

	_, ok, err := LoadState(context.Background(), f)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSQLite_SlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "save.db")

	a, err := OpenSQLite(path, "alice")
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, []byte(`{"version":4,"who":"alice"}`)))
	require.NoError(t, a.Close())

	b, err := OpenSQLite(path, "bob")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSave)
	require.NoError(t, b.Save(ctx, []byte(`{"version":4,"who":"bob"}`)))

	slots, err := b.Slots(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, slots)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(config.Config{SaveBackend: config.BackendJSON, SavePath: filepath.Join(dir, "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, b)

	b, err = Open(config.Config{SaveBackend: config.BackendSQLite, SavePath: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	require.NoError(t, b.Close())

	_, err = Open(config.Config{SaveBackend: "redis"})
	assert.Error(t, err)
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, 4, versionOf([]byte(`{"version":4}`)))
	assert.Zero(t, versionOf([]byte(`nope`)))
}
