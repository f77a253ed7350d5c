package riot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeRiot struct {
	championHits atomic.Int32
	apiKey       string
}

func (f *fakeRiot) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/versions.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["14.20.1", "14.19.1"]`))
	})
	mux.HandleFunc("/cdn/14.20.1/data/en_US/champion.json", func(w http.ResponseWriter, r *http.Request) {
		f.championHits.Add(1)
		w.Write([]byte(`{"data": {
			"Ahri": {"id": "Ahri", "key": "103", "name": "Ahri", "title": "the Nine-Tailed Fox"},
			"Garen": {"id": "Garen", "key": "86", "name": "Garen", "title": "The Might of Demacia"},
			"MonkeyKing": {"id": "MonkeyKing", "key": "62", "name": "Wukong", "title": "the Monkey King"}
		}}`))
	})
	mux.HandleFunc("/riot/account/v1/accounts/by-riot-id/{name}/{tag}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != f.apiKey {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.PathValue("name") != "Hide on bush" || r.PathValue("tag") != "KR1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"puuid": "puuid-1", "gameName": "Hide on bush", "tagLine": "KR1"}`))
	})
	mux.HandleFunc("/lol/champion-mastery/v4/champion-masteries/by-puuid/{puuid}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("puuid") != "puuid-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"championId": 103, "championLevel": 7}, {"championId": 62, "championLevel": 5}]`))
	})
	return mux
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeRiot) {
	t.Helper()
	f := &fakeRiot{apiKey: "RGAPI-test"}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	base := []Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLogger(zaptest.NewLogger(t))}
	return New(f.apiKey, append(base, opts...)...), f
}

func TestRouting(t *testing.T) {
	cases := map[string]string{
		"na1":  "americas",
		"EUW1": "europe",
		"kr":   "asia",
		"oc1":  "sea",
		"mars": "americas",
	}
	for region, want := range cases {
		assert.Equal(t, want, Routing(region), region)
	}
}

func TestPUUID(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	puuid, err := c.PUUID(ctx, "Hide on bush", "KR1", "kr")
	require.NoError(t, err)
	assert.Equal(t, "puuid-1", puuid)

	_, err = c.PUUID(ctx, "Nobody", "NA1", "na1")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestPUUID_BadKey(t *testing.T) {
	f := &fakeRiot{apiKey: "RGAPI-test"}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := New("wrong", WithBaseURL(srv.URL))
	_, err := c.PUUID(context.Background(), "Hide on bush", "KR1", "kr")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNoAPIKey(t *testing.T) {
	c := New("")
	_, err := c.PUUID(context.Background(), "Hide on bush", "KR1", "kr")
	require.ErrorIs(t, err, ErrNoAPIKey)
	_, err = c.MasteryChampionKeys(context.Background(), "puuid-1", "kr")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestOwnedChampions(t *testing.T) {
	c, _ := newTestClient(t)

	owned, err := c.OwnedChampions(context.Background(), "Hide on bush", "KR1", "kr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ahri", "MonkeyKing"}, owned)
}

func TestOwnedChampions_UnknownAccount(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.OwnedChampions(context.Background(), "Nobody", "NA1", "na1")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestChampions_CachesInMemoryAndOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "champion_cache.json")
	c, f := newTestClient(t, WithCachePath(path))
	ctx := context.Background()

	cc, err := c.Champions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "14.20.1", cc.Version)
	assert.Equal(t, "Wukong", cc.Champions["MonkeyKing"].Name)
	assert.Contains(t, cc.Champions["Ahri"].Image, "/cdn/14.20.1/img/champion/Ahri.png")

	_, err = c.Champions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.championHits.Load())

	_, err = os.Stat(path)
	require.NoError(t, err)

	// a fresh client reads the file instead of the network
	c2, f2 := newTestClient(t, WithCachePath(path))
	cc2, err := c2.Champions(ctx)
	require.NoError(t, err)
	assert.Equal(t, cc.Version, cc2.Version)
	assert.Zero(t, f2.championHits.Load())
}

func TestLatestVersion_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New("", WithBaseURL(srv.URL))
	_, err := c.LatestVersion(context.Background())
	require.ErrorIs(t, err, ErrUpstream)
}

func TestIDsForKeys(t *testing.T) {
	cc := &ChampionCache{Champions: map[string]Champion{
		"Ahri":  {ID: "Ahri", Key: "103"},
		"Garen": {ID: "Garen", Key: "86"},
	}}
	assert.Equal(t, []string{"Garen"}, cc.IDsForKeys([]string{"86", "999"}))

	var nilCache *ChampionCache
	assert.Nil(t, nilCache.IDsForKeys([]string{"86"}))
}
