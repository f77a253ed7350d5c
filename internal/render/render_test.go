package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lol-randomizer/internal/engine"
)

func TestPosition_MirrorsRedSide(t *testing.T) {
	blue, ok := Position(engine.RoleTop, SideBlue)
	require.True(t, ok)
	assert.Equal(t, Point{X: 130, Y: 120}, blue)

	red, ok := Position(engine.RoleTop, SideRed)
	require.True(t, ok)
	assert.Equal(t, Point{X: 382, Y: 392}, red)

	mid, _ := Position(engine.RoleMid, SideRed)
	assert.Equal(t, Point{X: 256, Y: 256}, mid)

	_, ok = Position("Coach", SideBlue)
	assert.False(t, ok)
}

func TestLayout(t *testing.T) {
	res := engine.Result{
		Mode:          engine.GameModes[6],
		WithChampions: true,
		TeamA: engine.Team{
			{Participant: engine.Participant{ID: "a", DisplayName: "Alice"}, Role: engine.RoleBot, Champion: "Jinx"},
		},
		TeamB: engine.Team{
			{Participant: engine.Participant{ID: "b", DisplayName: "Bob"}, Role: engine.RoleBot},
		},
	}

	b := Layout(res, func(id string) string { return "https://img/" + id + ".png" })

	assert.Equal(t, "3v3 Teams with Champions", b.Title)
	assert.Equal(t, MapSize, b.Size)
	require.Len(t, b.Markers, 2)

	assert.Equal(t, Marker{
		Side: SideBlue, ParticipantID: "a", DisplayName: "Alice", Role: engine.RoleBot,
		Champion: "Jinx", PortraitURL: "https://img/Jinx.png", Position: Point{X: 380, Y: 390},
	}, b.Markers[0])

	assert.Equal(t, SideRed, b.Markers[1].Side)
	assert.Empty(t, b.Markers[1].PortraitURL)
	assert.Equal(t, Point{X: 132, Y: 122}, b.Markers[1].Position)
}

func TestLayout_WithoutChampions(t *testing.T) {
	b := Layout(engine.Result{Mode: engine.GameModes[8], ExtraRole: engine.RoleJungle}, nil)
	assert.Equal(t, "4v4 Teams", b.Title)
	assert.Equal(t, engine.RoleJungle, b.ExtraRole)
	assert.Empty(t, b.Markers)
}
