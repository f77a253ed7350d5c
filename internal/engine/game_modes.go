package engine

import (
	"fmt"
	"slices"
	"sort"
)

type GameMode struct {
	Name       string
	PoolSize   int
	Roles      []Role
	ExtraRoles []Role // one of these is drawn per team when non-empty
}

func (m GameMode) TeamSize() int { return m.PoolSize / 2 }

// Validate reports configuration mistakes. A mode that fails validation is a
// programming error, not a user error.
func (m GameMode) Validate() error {
	if m.PoolSize <= 0 || m.PoolSize%2 != 0 {
		return fmt.Errorf("%w: %q has odd or empty pool size %d", ErrMalformedGameMode, m.Name, m.PoolSize)
	}
	want := len(m.Roles)
	if len(m.ExtraRoles) > 0 {
		want++
	}
	if want != m.TeamSize() {
		return fmt.Errorf("%w: %q yields %d roles for teams of %d", ErrMalformedGameMode, m.Name, want, m.TeamSize())
	}
	for _, extra := range m.ExtraRoles {
		if slices.Contains(m.Roles, extra) {
			return fmt.Errorf("%w: %q extra role %s repeats a base role", ErrMalformedGameMode, m.Name, extra)
		}
	}
	return nil
}

var GameModes = map[int]GameMode{
	6: {
		Name:     "3v3",
		PoolSize: 6,
		Roles:    []Role{RoleTop, RoleMid, RoleBot},
	},
	8: {
		Name:       "4v4",
		PoolSize:   8,
		Roles:      []Role{RoleTop, RoleMid, RoleBot},
		ExtraRoles: []Role{RoleJungle, RoleSupport},
	},
	10: {
		Name:     "5v5",
		PoolSize: 10,
		Roles:    []Role{RoleTop, RoleJungle, RoleMid, RoleBot, RoleSupport},
	},
}

func IsValidPoolSize(n int) bool {
	_, ok := GameModes[n]
	return ok
}

func GameModeFor(n int) (GameMode, bool) {
	m, ok := GameModes[n]
	return m, ok
}

func ValidPoolSizes() []int {
	sizes := make([]int, 0, len(GameModes))
	for n := range GameModes {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	return sizes
}
