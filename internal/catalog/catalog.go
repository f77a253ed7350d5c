// Package catalog holds the static champion -> roles table.
//
// The table is loaded once at startup and never changes afterwards, so a
// *Catalog is safe to share between lobbies without locking.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
)

type Catalog struct {
	roles  map[string][]engine.Role
	byRole map[engine.Role][]string
	all    []string
}

var _ engine.Catalog = (*Catalog)(nil)

// New builds a catalog from champion id -> compatible roles.
func New(table map[string][]engine.Role) *Catalog {
	c := &Catalog{
		roles:  make(map[string][]engine.Role, len(table)),
		byRole: map[engine.Role][]string{},
		all:    make([]string, 0, len(table)),
	}
	for champ, roles := range table {
		c.roles[champ] = slices.Clone(roles)
		c.all = append(c.all, champ)
		for _, r := range roles {
			if !slices.Contains(c.byRole[r], champ) {
				c.byRole[r] = append(c.byRole[r], champ)
			}
		}
	}
	sort.Strings(c.all)
	for r := range c.byRole {
		sort.Strings(c.byRole[r])
	}
	return c
}

// Load reads a JSON object of the form {"Ahri": ["Mid"], ...}.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read champion roles: %w", err)
	}
	var table map[string][]engine.Role
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode champion roles %s: %w", path, err)
	}
	return New(table), nil
}

// LoadOrEmpty never fails: an unreadable catalog is logged and replaced by an
// empty one, which pushes every champion draw down the fallback path.
func LoadOrEmpty(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := Load(path)
	if err != nil {
		logger.Error("champion catalog unavailable, continuing without champions",
			zap.String("path", path), zap.Error(err))
		return New(nil)
	}
	logger.Info("champion catalog loaded", zap.String("path", path), zap.Int("champions", c.Len()))
	return c
}

func (c *Catalog) ChampionsForRole(role engine.Role) []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.byRole[role])
}

func (c *Catalog) AllChampions() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.all)
}

func (c *Catalog) RolesFor(champion string) []engine.Role {
	if c == nil {
		return nil
	}
	return slices.Clone(c.roles[champion])
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.all)
}
