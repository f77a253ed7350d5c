package engine

import "errors"

var ErrInvalidPoolSize = errors.New("invalid pool size")
var ErrMalformedGameMode = errors.New("malformed game mode")

type Role string

const (
	RoleTop     Role = "Top"
	RoleJungle  Role = "Jungle"
	RoleMid     Role = "Mid"
	RoleBot     Role = "Bot"
	RoleSupport Role = "Support"
)

// Rand is the only source of randomness the engine consumes. *rand.Rand from
// math/rand/v2 satisfies it. Implementations need not be safe for concurrent
// use; callers hand each pipeline run its own source.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Catalog is the read-only champion table. Both methods return champion ids
// in a stable order so seeded runs are reproducible.
type Catalog interface {
	ChampionsForRole(role Role) []string
	AllChampions() []string
}

type Participant struct {
	ID             string
	DisplayName    string
	OwnedChampions []string // empty means every catalog champion is allowed
}

type Resolution string

const (
	ResolvedNone         Resolution = ""
	ResolvedDirect       Resolution = "direct"
	ResolvedSwap         Resolution = "swap"
	ResolvedFallbackRole Resolution = "fallback_role"
	ResolvedFallbackAny  Resolution = "fallback_any"
	Unresolved           Resolution = "unresolved"
)

// Assignment is a participant's slot in a team. Champion is empty until the
// ChampionAssigner resolves it (and stays empty when the catalog ran out).
type Assignment struct {
	Participant Participant
	Role        Role
	Champion    string
	Resolution  Resolution
}

func (a Assignment) withRole(r Role) Assignment {
	a.Role = r
	return a
}

func (a Assignment) withChampion(c string, how Resolution) Assignment {
	a.Champion = c
	a.Resolution = how
	return a
}

type Team []Assignment

func (t Team) Roles() []Role {
	roles := make([]Role, len(t))
	for i, a := range t {
		roles[i] = a.Role
	}
	return roles
}

func (t Team) Champions() []string {
	out := make([]string, 0, len(t))
	for _, a := range t {
		if a.Champion != "" {
			out = append(out, a.Champion)
		}
	}
	return out
}
