package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grundy/internal/bible"
	"grundy/internal/chase"
	"grundy/internal/economy"
	"grundy/internal/game"
	"grundy/internal/savefile"
)

// isolate points every GRUNDY_* setting at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("GRUNDY_SAVE_PATH", filepath.Join(dir, "save.json"))
	t.Setenv("GRUNDY_SAVE_BACKEND", "json")
	t.Setenv("GRUNDY_PLAY_MODE", "cozy")
	t.Setenv("GRUNDY_SEED", "7")
	t.Setenv("GRUNDY_LOG_LEVEL", "debug")
	t.Setenv("GRUNDY_LOG_PATH", filepath.Join(dir, "grundy.log"))
	t.Setenv("GRUNDY_SUBSCRIBER", "false")
	t.Setenv("GRUNDY_CATALOG_OVERRIDES", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func snapshot(t *testing.T, args ...string) game.Snapshot {
	t.Helper()
	out, err := run(t, append([]string{"status", "--json"}, args...)...)
	require.NoError(t, err)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	return snap
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "grundy", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"play", "status", "feed", "chase", "welcome", "buy", "shop", "wear", "adopt", "inbox"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestPersistentFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"save", "backend", "seed"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
	}
	assert.Equal(t, "0", cmd.PersistentFlags().Lookup("seed").DefValue)
}

func TestStatus_NewSave(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "Munchlet")
	assert.Contains(t, out, "100 coins")
	assert.Contains(t, out, "10 gems")
	assert.Contains(t, out, "cozy mode")
	assert.FileExists(t, filepath.Join(dir, "save.json"))
	assert.FileExists(t, filepath.Join(dir, "grundy.log"))
}

func TestFeed_PersistsAcrossRuns(t *testing.T) {
	isolate(t)

	out, err := run(t, "feed", "apple")
	require.NoError(t, err)
	assert.Contains(t, out, "Munchlet enjoyed it")

	snap := snapshot(t)
	assert.Equal(t, 2, snap.Inventory["apple"])
	assert.NotNil(t, snap.FtueCompletedAt)
}

func TestFeed_Failures(t *testing.T) {
	isolate(t)

	_, err := run(t, "feed", "steak")
	assert.True(t, game.IsCode(err, bible.CodeOutOfStock), "got %v", err)

	_, err = run(t, "feed", "apple", "--pet", "nobody")
	assert.True(t, game.IsCode(err, bible.CodeInvalidPet), "got %v", err)

	_, err = run(t, "feed")
	assert.Error(t, err)
}

func TestBuy(t *testing.T) {
	isolate(t)

	out, err := run(t, "buy", "apple", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought 2 x apple for 10 coins. 90 coins left.")

	_, err = run(t, "buy", "apple", "lots")
	assert.Error(t, err)

	_, err = run(t, "buy", "golden_truffle", "5")
	assert.True(t, game.IsCode(err, bible.CodeInsufficientCoins), "got %v", err)
}

func TestBuy_Bundle(t *testing.T) {
	isolate(t)

	out, err := run(t, "buy", "starter_pack")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought 1 x starter_pack for 40 coins. 60 coins left.")
	assert.Contains(t, out, "+5 apple")

	snap := snapshot(t)
	assert.Equal(t, 8, snap.Inventory["apple"])
	assert.Equal(t, 5, snap.Inventory["banana"])
}

func TestBuy_CareItemHiddenInCozy(t *testing.T) {
	isolate(t)

	_, err := run(t, "buy", "medicine")

	assert.True(t, game.IsCode(err, bible.CodeInvalidItem), "got %v", err)
}

func TestShop(t *testing.T) {
	isolate(t)

	out, err := run(t, "shop")
	require.NoError(t, err)

	assert.Contains(t, out, "[food]")
	assert.Contains(t, out, "starter_pack")
	assert.Contains(t, out, "[cosmetics]")
	assert.Contains(t, out, "[gems] locked")
	assert.NotContains(t, out, "medicine")
}

func TestWear(t *testing.T) {
	isolate(t)

	out, err := run(t, "wear", "party_hat")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought party_hat for 10 gems.")
	assert.Contains(t, out, "now wears party_hat (hat)")

	out, err = run(t, "wear", "party_hat")
	require.NoError(t, err)
	assert.NotContains(t, out, "Bought")

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "wearing party_hat")

	_, err = run(t, "wear", "crown")
	assert.True(t, game.IsCode(err, bible.CodeInsufficientGems), "got %v", err)
}

func TestAdopt_NoFreeSlot(t *testing.T) {
	isolate(t)

	_, err := run(t, "adopt", "grib", "Gus")

	assert.True(t, game.IsCode(err, bible.CodeMaxSlotsReached), "got %v", err)
}

func TestWelcome_NewSave(t *testing.T) {
	isolate(t)

	out, err := run(t, "welcome")
	require.NoError(t, err)

	assert.Contains(t, out, "Login streak: day 1.")
	assert.Contains(t, out, "Nothing happened while you were away.")
}

func TestWelcome_AfterTimeAway(t *testing.T) {
	dir := isolate(t)
	now := time.Now().UnixMilli()
	s := game.NewState("p1", "grib", "Gus", bible.ModeCozy, now-30*time.Hour.Milliseconds())
	done := now - 72*time.Hour.Milliseconds()
	s.FtueCompletedAt = &done
	data, err := game.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, savefile.NewJSONFile(filepath.Join(dir, "save.json")).Save(context.Background(), data))

	out, err := run(t, "welcome")
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome back! You were away 30.0 hours.")
	assert.Contains(t, out, "Gus: mood")
}

func TestSQLiteBackendFlag(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "slots.db")

	_, err := run(t, "--backend", "sqlite", "--save", db, "feed", "banana")
	require.NoError(t, err)

	snap := snapshot(t, "--backend", "sqlite", "--save", db)
	assert.Equal(t, 1, snap.Inventory["banana"])
	assert.FileExists(t, db)
	assert.NoFileExists(t, filepath.Join(dir, "save.json"))
}

func TestInvalidBackendFlag(t *testing.T) {
	isolate(t)

	_, err := run(t, "--backend", "floppy", "status")

	assert.ErrorContains(t, err, "floppy")
}

func TestInbox(t *testing.T) {
	isolate(t)
	_, err := run(t, "feed", "apple")
	require.NoError(t, err)

	out, err := run(t, "inbox", "--read")
	require.NoError(t, err)
	assert.Contains(t, out, "• [low]")

	out, err = run(t, "inbox")
	require.NoError(t, err)
	assert.NotContains(t, out, "•")
}

func TestWritePlay(t *testing.T) {
	var buf bytes.Buffer
	err := writePlay(&buf, chase.Result{Catches: 8, Misses: 2, Score: 150}, game.PlayResult{
		Reward:   economy.Reward{Tier: economy.TierRainbow, Coins: 20, XP: 12},
		XPGained: 12,
		Start:    economy.StartResult{Success: true, Free: true, PlaysLeft: 2},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Caught 8, missed 2: score 150.")
	assert.Contains(t, buf.String(), "rainbow reward: +20 coins, +12 xp. (free play)")
	assert.Contains(t, buf.String(), "2 play(s) left today.")
}
