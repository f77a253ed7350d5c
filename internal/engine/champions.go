package engine

import (
	"maps"
	"slices"
)

type ChampionAssigner struct {
	catalog Catalog
	rng     Rand
}

func NewChampionAssigner(catalog Catalog, rng Rand) ChampionAssigner {
	return ChampionAssigner{catalog: catalog, rng: rng}
}

// Resolved is the outcome of assigning champions to both teams. Success is
// false when the catalog ran out of distinct champions for someone.
type Resolved struct {
	TeamA   Team
	TeamB   Team
	Success bool
}

func (ca ChampionAssigner) ChampionsForRole(role Role) []string {
	if ca.catalog == nil {
		return nil
	}
	return ca.catalog.ChampionsForRole(role)
}

func (ca ChampionAssigner) allChampions() []string {
	if ca.catalog == nil {
		return nil
	}
	return ca.catalog.AllChampions()
}

// OwnedCompatible returns the owned champions that can play role. An empty
// ownership set is unrestricted.
func (ca ChampionAssigner) OwnedCompatible(owned []string, role Role) []string {
	forRole := ca.ChampionsForRole(role)
	if len(owned) == 0 {
		return forRole
	}

	out := make([]string, 0, len(owned))
	for _, c := range forRole {
		if slices.Contains(owned, c) {
			out = append(out, c)
		}
	}
	return out
}

// AssignTeam runs one greedy pass in team order, then repairs deferred
// players by swapping roles with the first feasible resolved teammate, then
// falls back to ignoring ownership and finally to ignoring role.
//
// used is not modified; the returned set includes everything this team took.
func (ca ChampionAssigner) AssignTeam(team Team, used map[string]bool) (Team, map[string]bool, bool) {
	used = maps.Clone(used)
	if used == nil {
		used = map[string]bool{}
	}

	resolved := make(Team, 0, len(team))
	var deferred Team

	for _, a := range team {
		options := unused(ca.OwnedCompatible(a.Participant.OwnedChampions, a.Role), used, "")
		if len(options) == 0 {
			deferred = append(deferred, a)
			continue
		}
		c := ca.pick(options)
		used[c] = true
		resolved = append(resolved, a.withChampion(c, ResolvedDirect))
	}

	complete := true
	for _, d := range deferred {
		if i, ok := ca.swapPartner(d, resolved, used); ok {
			partner := resolved[i]
			delete(used, partner.Champion)

			mine := unused(ca.OwnedCompatible(d.Participant.OwnedChampions, partner.Role), used, "")
			theirs := unused(ca.OwnedCompatible(partner.Participant.OwnedChampions, d.Role), used, "")
			a, b := ca.drawPair(mine, theirs)
			used[a] = true
			used[b] = true

			resolved[i] = partner.withRole(d.Role).withChampion(b, ResolvedSwap)
			resolved = append(resolved, d.withRole(partner.Role).withChampion(a, ResolvedSwap))
			continue
		}

		if options := unused(ca.ChampionsForRole(d.Role), used, ""); len(options) > 0 {
			c := ca.pick(options)
			used[c] = true
			resolved = append(resolved, d.withChampion(c, ResolvedFallbackRole))
			continue
		}

		if options := unused(ca.allChampions(), used, ""); len(options) > 0 {
			c := ca.pick(options)
			used[c] = true
			resolved = append(resolved, d.withChampion(c, ResolvedFallbackAny))
			continue
		}

		resolved = append(resolved, d.withChampion("", Unresolved))
		complete = false
	}

	return resolved, used, complete
}

// AssignBoth resolves team A first; team B may not reuse anything A took.
func (ca ChampionAssigner) AssignBoth(teamA, teamB Team) Resolved {
	a, used, okA := ca.AssignTeam(teamA, nil)
	b, _, okB := ca.AssignTeam(teamB, used)
	return Resolved{TeamA: a, TeamB: b, Success: okA && okB}
}

// swapPartner returns the index of the first resolved teammate that d can
// trade roles with, treating the teammate's current champion as released.
func (ca ChampionAssigner) swapPartner(d Assignment, resolved Team, used map[string]bool) (int, bool) {
	for i, partner := range resolved {
		if partner.Champion == "" {
			continue
		}
		mine := unused(ca.OwnedCompatible(d.Participant.OwnedChampions, partner.Role), used, partner.Champion)
		theirs := unused(ca.OwnedCompatible(partner.Participant.OwnedChampions, d.Role), used, partner.Champion)
		if hasDistinctPair(mine, theirs) {
			return i, true
		}
	}
	return 0, false
}

// drawPair picks one champion from each list without handing both players
// the same one. Callers guarantee hasDistinctPair(mine, theirs).
func (ca ChampionAssigner) drawPair(mine, theirs []string) (string, string) {
	a := ca.pick(mine)
	rest := without(theirs, a)
	if len(rest) > 0 {
		return a, ca.pick(rest)
	}
	// theirs is exactly {a}
	b := theirs[0]
	return ca.pick(without(mine, b)), b
}

func (ca ChampionAssigner) pick(options []string) string {
	return options[ca.rng.IntN(len(options))]
}

func hasDistinctPair(mine, theirs []string) bool {
	if len(mine) == 0 || len(theirs) == 0 {
		return false
	}
	return !(len(mine) == 1 && len(theirs) == 1 && mine[0] == theirs[0])
}

// unused filters out taken champions. released is treated as free even if it
// is in used.
func unused(options []string, used map[string]bool, released string) []string {
	out := make([]string, 0, len(options))
	for _, c := range options {
		if used[c] && c != released {
			continue
		}
		out = append(out, c)
	}
	return out
}

func without(options []string, c string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o != c {
			out = append(out, o)
		}
	}
	return out
}
