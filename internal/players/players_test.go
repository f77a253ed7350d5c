package players

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
)

func newRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "league_players.json")
	store, err := OpenFileStore(path)
	require.NoError(t, err)
	return NewRegistry(store, zaptest.NewLogger(t)), path
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)

	require.NoError(t, r.Register(ctx, "1", "Faker"))
	require.ErrorIs(t, r.Register(ctx, "1", "Faker again"), ErrAlreadyRegistered)

	ok, err := r.IsRegistered(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	p, err := r.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Faker", p.DisplayName)
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)
	require.NoError(t, r.Register(ctx, "1", "Faker"))

	name, err := r.Unregister(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Faker", name)

	_, err = r.Unregister(ctx, "1")
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = r.Get(ctx, "1")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestLinkRiotAndChampions(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)

	_, err := r.LinkRiot(ctx, "1", "Hide on bush", "KR1", "kr", "puuid-1")
	require.ErrorIs(t, err, ErrNotRegistered)

	require.NoError(t, r.Register(ctx, "1", "Faker"))
	p, err := r.LinkRiot(ctx, "1", "Hide on bush", "KR1", "kr", "puuid-1")
	require.NoError(t, err)
	assert.Equal(t, "Hide on bush#KR1", p.RiotID())

	p, err = r.SetOwnedChampions(ctx, "1", []string{"Ahri", "Azir"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ahri", "Azir"}, p.OwnedChampions)
	assert.Equal(t, "puuid-1", p.PUUID)
}

func TestList_SortedByName(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)
	require.NoError(t, r.Register(ctx, "3", "Zeus"))
	require.NoError(t, r.Register(ctx, "1", "Faker"))
	require.NoError(t, r.Register(ctx, "2", "Gumayusi"))

	ps, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, []string{"Faker", "Gumayusi", "Zeus"}, []string{ps[0].DisplayName, ps[1].DisplayName, ps[2].DisplayName})
}

func TestRegisteredIn_KeepsOrderAndSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry(t)
	require.NoError(t, r.Register(ctx, "a", "A"))
	require.NoError(t, r.Register(ctx, "b", "B"))
	_, err := r.SetOwnedChampions(ctx, "b", []string{"Jinx"})
	require.NoError(t, err)

	got, err := r.RegisteredIn(ctx, []string{"b", "ghost", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []engine.Participant{
		{ID: "b", DisplayName: "B", OwnedChampions: []string{"Jinx"}},
		{ID: "a", DisplayName: "A"},
	}, got)
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	r, path := newRegistry(t)
	require.NoError(t, r.Register(ctx, "1", "Faker"))
	_, err := r.LinkRiot(ctx, "1", "Hide on bush", "KR1", "kr", "puuid-1")
	require.NoError(t, err)
	_, err = r.SetOwnedChampions(ctx, "1", []string{"Ahri"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"discord_name": "Faker"`)
	assert.Contains(t, string(data), `"riot_id": "Hide on bush#KR1"`)

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	p, ok, err := store.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Player{
		ID: "1", DisplayName: "Faker", GameName: "Hide on bush", TagLine: "KR1",
		Region: "kr", PUUID: "puuid-1", OwnedChampions: []string{"Ahri"},
	}, p)
}

func TestFileStore_ReadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league_players.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"42": {"discord_name": "Caps", "riot_id": null}}`), 0o644))

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	p, ok, err := store.Get(context.Background(), "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Caps", p.DisplayName)
	assert.Empty(t, p.RiotID())
}

func TestFileStore_ReadsRiotIDOnlyLink(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "league_players.json")
	legacy := `{
		"7": {"discord_name": "Faker", "riot_id": "Hide on bush#KR1"},
		"8": {"discord_name": "Bang", "riot_id": "not-a-riot-id"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	p, ok, err := store.Get(ctx, "7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hide on bush", p.GameName)
	assert.Equal(t, "KR1", p.TagLine)

	bad, _, err := store.Get(ctx, "8")
	require.NoError(t, err)
	assert.Empty(t, bad.RiotID())

	// the link survives the next rewrite of the file
	require.NoError(t, store.Save(ctx, Player{ID: "9", DisplayName: "Wolf"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"riot_id": "Hide on bush#KR1"`)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league_players.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := OpenFileStore(path)
	require.Error(t, err)
}

func TestParseRiotID(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantTag  string
		wantErr  bool
	}{
		{in: "Hide on bush#KR1", wantName: "Hide on bush", wantTag: "KR1"},
		{in: "NoTag", wantErr: true},
		{in: "#NA1", wantErr: true},
		{in: "Name#", wantErr: true},
		{in: "a#b#c", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			name, tag, err := ParseRiotID(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantName, name)
			assert.Equal(t, tc.wantTag, tag)
		})
	}
}
