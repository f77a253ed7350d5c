package engine

import (
	"fmt"
	"slices"
)

type RoleAssigner struct {
	rng Rand
}

func NewRoleAssigner(rng Rand) RoleAssigner {
	return RoleAssigner{rng: rng}
}

// Draw is a pool split into two role-labeled teams.
//
// ExtraRole is read from team A only. In 4v4 each team draws its extra role
// independently, so team B may have received the other candidate.
type Draw struct {
	TeamA     Team
	TeamB     Team
	Mode      GameMode
	ExtraRole Role
}

// Partition shuffles the whole pool and splits it at the midpoint.
func (ra RoleAssigner) Partition(pool []Participant) ([]Participant, []Participant, error) {
	if !IsValidPoolSize(len(pool)) {
		return nil, nil, fmt.Errorf("%w: %d (want one of %v)", ErrInvalidPoolSize, len(pool), ValidPoolSizes())
	}

	shuffled := slices.Clone(pool)
	ra.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	half := len(shuffled) / 2
	return shuffled[:half:half], shuffled[half:], nil
}

// AssignRoles pairs team member i with position i of a shuffled copy of the
// mode's roles. Every call makes its own extra-role draw.
func (ra RoleAssigner) AssignRoles(team []Participant, mode GameMode) (Team, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	roles := slices.Clone(mode.Roles)
	if len(mode.ExtraRoles) > 0 {
		roles = append(roles, mode.ExtraRoles[ra.rng.IntN(len(mode.ExtraRoles))])
	}
	if len(roles) != len(team) {
		return nil, fmt.Errorf("%w: %q has %d roles for %d players", ErrMalformedGameMode, mode.Name, len(roles), len(team))
	}

	ra.rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	out := make(Team, len(team))
	for i, p := range team {
		out[i] = Assignment{Participant: p, Role: roles[i]}
	}
	return out, nil
}

func (ra RoleAssigner) Randomize(pool []Participant) (Draw, error) {
	mode, ok := GameModeFor(len(pool))
	if !ok {
		return Draw{}, fmt.Errorf("%w: %d (want one of %v)", ErrInvalidPoolSize, len(pool), ValidPoolSizes())
	}

	a, b, err := ra.Partition(pool)
	if err != nil {
		return Draw{}, err
	}

	teamA, err := ra.AssignRoles(a, mode)
	if err != nil {
		return Draw{}, err
	}
	teamB, err := ra.AssignRoles(b, mode)
	if err != nil {
		return Draw{}, err
	}

	return Draw{
		TeamA:     teamA,
		TeamB:     teamB,
		Mode:      mode,
		ExtraRole: extraRoleIn(teamA, mode),
	}, nil
}

func extraRoleIn(team Team, mode GameMode) Role {
	roles := team.Roles()
	for _, extra := range mode.ExtraRoles {
		if slices.Contains(roles, extra) {
			return extra
		}
	}
	return ""
}
