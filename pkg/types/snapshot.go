package types

import (
	"github.com/DoyleJ11/lol-randomizer/internal/engine"
	"github.com/DoyleJ11/lol-randomizer/internal/lobby"
	"github.com/DoyleJ11/lol-randomizer/internal/players"
	"github.com/DoyleJ11/lol-randomizer/internal/render"
)

type Assignment struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Role          string `json:"role"`
	Champion      string `json:"champion,omitempty"`
	Resolution    string `json:"resolution,omitempty"`
}

type Marker struct {
	Side          string `json:"side"` // "blue" | "red"
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Role          string `json:"role"`
	Champion      string `json:"champion,omitempty"`
	PortraitURL   string `json:"portrait_url,omitempty"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
}

type Board struct {
	Title     string   `json:"title"`
	ExtraRole string   `json:"extra_role,omitempty"`
	Size      int      `json:"size"`
	Markers   []Marker `json:"markers"`
}

type Roll struct {
	ID            string       `json:"id"`
	Mode          string       `json:"mode"`
	ExtraRole     string       `json:"extra_role,omitempty"` // team A's, see GameMode docs
	WithChampions bool         `json:"with_champions"`
	Success       bool         `json:"success"`
	Warning       string       `json:"warning,omitempty"`
	TeamA         []Assignment `json:"team_a"`
	TeamB         []Assignment `json:"team_b"`
	Board         Board        `json:"board"`
}

type Player struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	RiotID         string   `json:"riot_id,omitempty"`
	Region         string   `json:"region,omitempty"`
	OwnedChampions []string `json:"owned_champions,omitempty"`
}

type GameMode struct {
	Name       string   `json:"name"`
	PoolSize   int      `json:"pool_size"`
	Roles      []string `json:"roles"`
	ExtraRoles []string `json:"extra_roles,omitempty"`
}

func FromRoll(r lobby.Roll) *Roll {
	return &Roll{
		ID:            r.ID,
		Mode:          r.Result.Mode.Name,
		ExtraRole:     string(r.Result.ExtraRole),
		WithChampions: r.Result.WithChampions,
		Success:       r.Result.Success,
		Warning:       r.Warning,
		TeamA:         fromTeam(r.Result.TeamA),
		TeamB:         fromTeam(r.Result.TeamB),
		Board:         fromBoard(r.Board),
	}
}

func fromTeam(t engine.Team) []Assignment {
	out := make([]Assignment, len(t))
	for i, a := range t {
		out[i] = Assignment{
			ParticipantID: a.Participant.ID,
			DisplayName:   a.Participant.DisplayName,
			Role:          string(a.Role),
			Champion:      a.Champion,
			Resolution:    string(a.Resolution),
		}
	}
	return out
}

func fromBoard(b render.Board) Board {
	out := Board{
		Title:     b.Title,
		ExtraRole: string(b.ExtraRole),
		Size:      b.Size,
		Markers:   make([]Marker, len(b.Markers)),
	}
	for i, m := range b.Markers {
		out.Markers[i] = Marker{
			Side:          string(m.Side),
			ParticipantID: m.ParticipantID,
			DisplayName:   m.DisplayName,
			Role:          string(m.Role),
			Champion:      m.Champion,
			PortraitURL:   m.PortraitURL,
			X:             m.Position.X,
			Y:             m.Position.Y,
		}
	}
	return out
}

func FromPlayer(p players.Player) Player {
	return Player{
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		RiotID:         p.RiotID(),
		Region:         p.Region,
		OwnedChampions: p.OwnedChampions,
	}
}

func FromGameMode(m engine.GameMode) GameMode {
	return GameMode{
		Name:       m.Name,
		PoolSize:   m.PoolSize,
		Roles:      roleNames(m.Roles),
		ExtraRoles: roleNames(m.ExtraRoles),
	}
}

func roleNames(rs []engine.Role) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
