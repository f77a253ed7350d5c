package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"go.uber.org/zap"
)

type Champion struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// ChampionCache is the Data Dragon champion list for one patch, also the
// shape of the on-disk cache file.
type ChampionCache struct {
	Version   string              `json:"version"`
	Champions map[string]Champion `json:"champions"`
}

// IDsForKeys maps numeric champion keys to champion ids, sorted.
func (cc *ChampionCache) IDsForKeys(keys []string) []string {
	if cc == nil {
		return nil
	}
	out := make([]string, 0, len(keys))
	for id, ch := range cc.Champions {
		if slices.Contains(keys, ch.Key) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.getJSON(ctx, c.ddragon+"/api/versions.json", false, &versions); err != nil {
		return "", fmt.Errorf("data dragon versions: %w", err)
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: empty version list", ErrUpstream)
	}
	return versions[0], nil
}

func (c *Client) PortraitURL(version, championID string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", c.ddragon, version, championID)
}

type ddragonChampions struct {
	Data map[string]struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"data"`
}

// Champions returns the champion list, from memory, then the cache file,
// then Data Dragon. A fresh download is written back to the cache file.
func (c *Client) Champions(ctx context.Context) (*ChampionCache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.champions != nil {
		return c.champions, nil
	}
	if cc, ok := c.readCache(); ok {
		c.champions = cc
		return cc, nil
	}

	version, err := c.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}

	var raw ddragonChampions
	u := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.ddragon, version)
	if err := c.getJSON(ctx, u, false, &raw); err != nil {
		return nil, fmt.Errorf("data dragon champions: %w", err)
	}

	cc := &ChampionCache{Version: version, Champions: make(map[string]Champion, len(raw.Data))}
	for id, d := range raw.Data {
		cc.Champions[id] = Champion{
			ID:    d.ID,
			Key:   d.Key,
			Name:  d.Name,
			Title: d.Title,
			Image: c.PortraitURL(version, d.ID),
		}
	}

	c.writeCache(cc)
	c.champions = cc
	return cc, nil
}

func (c *Client) readCache() (*ChampionCache, bool) {
	if c.cachePath == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.cachePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("read champion cache", zap.String("path", c.cachePath), zap.Error(err))
		return nil, false
	}
	var cc ChampionCache
	if err := json.Unmarshal(data, &cc); err != nil || cc.Version == "" {
		c.logger.Warn("ignoring invalid champion cache", zap.String("path", c.cachePath), zap.Error(err))
		return nil, false
	}
	return &cc, true
}

func (c *Client) writeCache(cc *ChampionCache) {
	if c.cachePath == "" {
		return
	}
	data, err := json.MarshalIndent(cc, "", "  ")
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err == nil {
			err = os.WriteFile(c.cachePath, data, 0o644)
		}
	}
	if err != nil {
		c.logger.Warn("write champion cache", zap.String("path", c.cachePath), zap.Error(err))
	}
}
