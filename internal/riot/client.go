// Package riot talks to the Riot Account, Champion-Mastery and Data Dragon
// APIs to find out which champions a linked player owns.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoAPIKey = errors.New("no riot api key configured")
var ErrAccountNotFound = errors.New("riot account not found")
var ErrUnauthorized = errors.New("riot api key rejected")
var ErrUpstream = errors.New("riot api error")

const DataDragonBase = "https://ddragon.leagueoflegends.com"

// routing maps a platform region to its regional cluster for the Account API.
var routing = map[string]string{
	"na1":  "americas",
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"me1":  "europe",
	"kr":   "asia",
	"jp1":  "asia",
	"oc1":  "sea",
	"sg2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

// Routing returns the regional cluster for region, defaulting to americas.
func Routing(region string) string {
	if r, ok := routing[strings.ToLower(region)]; ok {
		return r
	}
	return "americas"
}

type Client struct {
	http      *http.Client
	apiKey    string
	logger    *zap.Logger
	cachePath string
	baseURL   string // overrides every host; used by tests
	ddragon   string

	mu        sync.Mutex
	champions *ChampionCache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }
func WithLogger(l *zap.Logger) Option       { return func(c *Client) { c.logger = l } }
func WithCachePath(p string) Option         { return func(c *Client) { c.cachePath = p } }

// WithBaseURL sends every request (Account, Mastery and Data Dragon) to u.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
		c.ddragon = c.baseURL
	}
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		logger:  zap.NewNop(),
		ddragon: DataDragonBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) regionalURL(region string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + Routing(region) + ".api.riotgames.com"
}

func (c *Client) platformURL(region string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + strings.ToLower(region) + ".api.riotgames.com"
}

type account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// PUUID resolves a Riot ID to the account's PUUID.
func (c *Client) PUUID(ctx context.Context, gameName, tagLine, region string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalURL(region), url.PathEscape(gameName), url.PathEscape(tagLine))

	var acc account
	if err := c.getJSON(ctx, u, true, &acc); err != nil {
		return "", fmt.Errorf("lookup %s#%s: %w", gameName, tagLine, err)
	}
	return acc.PUUID, nil
}

type mastery struct {
	ChampionID int `json:"championId"`
}

// MasteryChampionKeys returns the numeric Data Dragon keys of every champion
// the player has mastery on, which is how ownership is approximated.
func (c *Client) MasteryChampionKeys(ctx context.Context, puuid, region string) ([]string, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	u := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s",
		c.platformURL(region), url.PathEscape(puuid))

	var ms []mastery
	if err := c.getJSON(ctx, u, true, &ms); err != nil {
		return nil, fmt.Errorf("champion mastery: %w", err)
	}
	keys := make([]string, len(ms))
	for i, m := range ms {
		keys[i] = fmt.Sprint(m.ChampionID)
	}
	return keys, nil
}

// OwnedChampions returns the Data Dragon ids (catalog keys) of the champions
// the account has played. The account lookup and the champion list are
// fetched concurrently.
func (c *Client) OwnedChampions(ctx context.Context, gameName, tagLine, region string) ([]string, error) {
	var (
		keys  []string
		cache *ChampionCache
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		puuid, err := c.PUUID(gctx, gameName, tagLine, region)
		if err != nil {
			return err
		}
		keys, err = c.MasteryChampionKeys(gctx, puuid, region)
		return err
	})
	g.Go(func() error {
		var err error
		cache, err = c.Champions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owned := cache.IDsForKeys(keys)
	c.logger.Info("owned champions fetched",
		zap.String("riot_id", gameName+"#"+tagLine), zap.Int("champions", len(owned)))
	return owned, nil
}

func (c *Client) getJSON(ctx context.Context, u string, auth bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if auth {
		req.Header.Set("X-Riot-Token", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && auth:
		return ErrAccountNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("riot api request failed",
			zap.String("url", req.URL.Path), zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}
