package engine

// Result is a full roll: teams, mode and, when requested, champions.
type Result struct {
	TeamA         Team
	TeamB         Team
	Mode          GameMode
	ExtraRole     Role
	WithChampions bool
	Success       bool
}

// Roll runs the RoleAssigner and, when withChampions is set, the
// ChampionAssigner over pool. The only error returned for user input is
// ErrInvalidPoolSize.
func Roll(rng Rand, catalog Catalog, pool []Participant, withChampions bool) (Result, error) {
	draw, err := NewRoleAssigner(rng).Randomize(pool)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		TeamA:     draw.TeamA,
		TeamB:     draw.TeamB,
		Mode:      draw.Mode,
		ExtraRole: draw.ExtraRole,
		Success:   true,
	}
	if !withChampions {
		return res, nil
	}

	resolved := NewChampionAssigner(catalog, rng).AssignBoth(draw.TeamA, draw.TeamB)
	res.TeamA = resolved.TeamA
	res.TeamB = resolved.TeamB
	res.WithChampions = true
	res.Success = resolved.Success
	return res, nil
}
