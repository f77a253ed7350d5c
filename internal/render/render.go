// Package render lays a roll out on the Summoner's Rift minimap: team A on
// the blue side, team B mirrored onto the red side.
package render

import "github.com/DoyleJ11/lol-randomizer/internal/engine"

const MapSize = 512

type Side string

const (
	SideBlue Side = "blue"
	SideRed  Side = "red"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RolePositions are blue-side coordinates on a MapSize x MapSize map.
var RolePositions = map[engine.Role]Point{
	engine.RoleTop:     {X: 130, Y: 120},
	engine.RoleJungle:  {X: 220, Y: 240},
	engine.RoleMid:     {X: 256, Y: 256},
	engine.RoleBot:     {X: 380, Y: 390},
	engine.RoleSupport: {X: 350, Y: 420},
}

func Position(role engine.Role, side Side) (Point, bool) {
	p, ok := RolePositions[role]
	if !ok {
		return Point{}, false
	}
	if side == SideRed {
		p = Point{X: MapSize - p.X, Y: MapSize - p.Y}
	}
	return p, true
}

type Marker struct {
	Side          Side
	ParticipantID string
	DisplayName   string
	Role          engine.Role
	Champion      string
	PortraitURL   string
	Position      Point
}

type Board struct {
	Title     string
	ExtraRole engine.Role
	Size      int
	Markers   []Marker
}

// PortraitFunc returns the image URL for a champion id.
type PortraitFunc func(championID string) string

// Layout places every assignment of res. portrait may be nil.
func Layout(res engine.Result, portrait PortraitFunc) Board {
	title := res.Mode.Name + " Teams"
	if res.WithChampions {
		title += " with Champions"
	}

	b := Board{
		Title:     title,
		ExtraRole: res.ExtraRole,
		Size:      MapSize,
		Markers:   make([]Marker, 0, len(res.TeamA)+len(res.TeamB)),
	}
	b.Markers = appendTeam(b.Markers, res.TeamA, SideBlue, portrait)
	b.Markers = appendTeam(b.Markers, res.TeamB, SideRed, portrait)
	return b
}

func appendTeam(out []Marker, team engine.Team, side Side, portrait PortraitFunc) []Marker {
	for _, a := range team {
		pos, ok := Position(a.Role, side)
		if !ok {
			continue
		}
		m := Marker{
			Side:          side,
			ParticipantID: a.Participant.ID,
			DisplayName:   a.Participant.DisplayName,
			Role:          a.Role,
			Champion:      a.Champion,
			Position:      pos,
		}
		if a.Champion != "" && portrait != nil {
			m.PortraitURL = portrait(a.Champion)
		}
		out = append(out, m)
	}
	return out
}
