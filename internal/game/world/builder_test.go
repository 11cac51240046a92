package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/spatial"
)

func builtWorld(t *testing.T) *World {
	t.Helper()
	def, err := LoadFromBytes([]byte(validStoryYAML))
	require.NoError(t, err)
	w, err := Build(def, zap.NewNop())
	require.NoError(t, err)
	return w
}

func TestBuild_PlacesEverything(t *testing.T) {
	w := builtWorld(t)

	assert.Equal(t, 3, w.Spatial.RoomCount())

	room := w.Spatial.RoomContaining(PlayerID)
	require.NotNil(t, room)
	assert.Equal(t, "cave_mouth", room.ID)

	hermitRoom := w.Spatial.RoomContaining("hermit")
	require.NotNil(t, hermitRoom)
	assert.Equal(t, "inner_cave", hermitRoom.ID)

	chest, ok := w.Spatial.Thing("chest")
	require.True(t, ok)
	assert.Equal(t, entity.KindContainer, chest.Kind)
	assert.True(t, chest.Locked)
	assert.False(t, chest.Open)

	// The gem starts sealed inside the locked chest.
	gem, ok := w.Spatial.Thing("gem")
	require.True(t, ok)
	assert.Equal(t, chest, gem.Parent())
	assert.Equal(t, spatial.RelationIn, w.Spatial.SpatialRelation("gem", "chest"))
}

func TestBuild_Inventories(t *testing.T) {
	w := builtWorld(t)

	assert.True(t, w.Inventory.Contains(PlayerID, "lamp"))
	assert.True(t, w.Inventory.Contains("hermit", "brass_key"))

	// Held objects are registered but not parented anywhere.
	lamp, ok := w.Spatial.Thing("lamp")
	require.True(t, ok)
	assert.Nil(t, lamp.Parent())
	key, ok := w.Spatial.Thing("brass_key")
	require.True(t, ok)
	assert.Nil(t, key.Parent())
}

func TestBuild_BackdropPresence(t *testing.T) {
	w := builtWorld(t)

	assert.True(t, w.Spatial.IsPresentIn("mountain", "cave_mouth"))
	assert.True(t, w.Spatial.IsPresentIn("mountain", "ledge"))
	assert.False(t, w.Spatial.IsPresentIn("mountain", "inner_cave"))

	mountain, ok := w.Spatial.Thing("mountain")
	require.True(t, ok)
	assert.Nil(t, mountain.Parent())
}

func TestBuild_ObjectProperties(t *testing.T) {
	w := builtWorld(t)

	rope, ok := w.Spatial.Thing("rope")
	require.True(t, ok)
	assert.Equal(t, "ledge", rope.ClimbDestination)
	assert.True(t, rope.FixedInPlace)
	assert.False(t, rope.Portable)

	sign, ok := w.Spatial.Thing("sign")
	require.True(t, ok)
	assert.Equal(t, entity.KindScenery, sign.Kind)
	assert.Equal(t, "BEWARE OF BATS", sign.TextContent)

	table, ok := w.Spatial.Thing("table")
	require.True(t, ok)
	assert.Equal(t, entity.KindSupporter, table.Kind)
}

func TestBuild_State(t *testing.T) {
	w := builtWorld(t)
	assert.Equal(t, "cave_mouth", w.State.CurrentLocation())
	assert.Equal(t, 0, w.State.TurnCount())
	assert.False(t, w.State.GameOver())
}

func TestBuild_Topics(t *testing.T) {
	w := builtWorld(t)
	topics := w.Topics("hermit")
	require.NotNil(t, topics)
	assert.Equal(t, "Been living here forty years.", topics["cave"])
	assert.Nil(t, w.Topics(PlayerID))
}

func TestBuild_Profiles(t *testing.T) {
	w := builtWorld(t)

	profile := w.Profile("hermit")
	assert.Equal(t, "Hmph. Company.", profile.Greeting)
	assert.Equal(t, "Shut the rocks behind you.", profile.Farewell)
	assert.Equal(t, []string{"The gem was his mother's."}, profile.Knowledge)

	assert.Zero(t, w.Profile("nobody"))
}
