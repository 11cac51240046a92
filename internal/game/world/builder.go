package world

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/inventory"
	"github.com/cory-johannsen/fable/internal/game/rules"
	"github.com/cory-johannsen/fable/internal/game/spatial"
	"github.com/cory-johannsen/fable/internal/game/state"
)

// PlayerID is the entity and inventory ID of the player character.
const PlayerID = rules.PlayerInventoryID

// World is a live game built from a Definition: the spatial tree, every
// actor's inventory, and mutable story state.
type World struct {
	Def       *Definition
	Spatial   *spatial.Manager
	Inventory *inventory.Store
	State     *state.GameState
	Player    *entity.Thing

	topics   map[string]map[string]string
	profiles map[string]ProfileDef
}

// Topics returns a character's conversation topics, or nil.
func (w *World) Topics(characterID string) map[string]string {
	return w.topics[characterID]
}

// Profile returns a character's conversational profile. Unknown IDs get the
// zero profile.
func (w *World) Profile(characterID string) ProfileDef {
	return w.profiles[characterID]
}

// Build constructs a live world from a validated definition. Initial
// placement bypasses gameplay checks so a story can start with, say, a key
// sealed inside a locked chest.
//
// Precondition: def has passed Validate.
// Postcondition: every defined entity is registered with the spatial
// manager, every character and the player have an inventory, and the player
// stands in the start location.
func Build(def *Definition, logger *zap.Logger) (*World, error) {
	w := &World{
		Def:       def,
		Spatial:   spatial.NewManager(logger),
		Inventory: inventory.NewStore(),
		topics:    make(map[string]map[string]string),
		profiles:  make(map[string]ProfileDef),
	}

	for _, l := range def.Locations {
		room := entity.NewRoom(l.ID, l.Name, l.Description)
		for dir, target := range l.Connections {
			room.Connections[dir] = target
		}
		room.Dark = l.Dark
		room.Outdoors = l.Outdoors
		if err := w.Spatial.RegisterRoom(room); err != nil {
			return nil, fmt.Errorf("registering location %q: %w", l.ID, err)
		}
	}

	for _, o := range def.Objects {
		if err := w.Spatial.RegisterThing(buildObject(o)); err != nil {
			return nil, fmt.Errorf("registering object %q: %w", o.ID, err)
		}
	}

	for _, c := range def.Characters {
		ch := entity.NewCharacter(c.ID, c.Name, c.Description)
		if err := w.Spatial.RegisterThing(ch); err != nil {
			return nil, fmt.Errorf("registering character %q: %w", c.ID, err)
		}
		w.Inventory.Create(c.ID)
		if len(c.Topics) > 0 {
			topics := make(map[string]string, len(c.Topics))
			for topic, reply := range c.Topics {
				topics[topic] = reply
			}
			w.topics[c.ID] = topics
		}
		w.profiles[c.ID] = c.Profile
	}

	w.Player = entity.NewCharacter(PlayerID, "you", "As good-looking as ever.")
	if err := w.Spatial.RegisterThing(w.Player); err != nil {
		return nil, fmt.Errorf("registering player: %w", err)
	}
	w.Inventory.Create(PlayerID)

	held := make(map[string]bool)
	for _, item := range def.Meta.StartingInventory {
		w.Inventory.Add(PlayerID, item)
		held[item] = true
	}
	for _, c := range def.Characters {
		for _, item := range c.Inventory {
			w.Inventory.Add(c.ID, item)
			held[item] = true
		}
	}

	for _, o := range def.Objects {
		if held[o.ID] {
			continue
		}
		if err := w.placeObject(o); err != nil {
			return nil, err
		}
	}

	for _, c := range def.Characters {
		if c.Location == "" {
			continue
		}
		if err := w.placeInRoom(c.ID, c.Location); err != nil {
			return nil, fmt.Errorf("placing character %q: %w", c.ID, err)
		}
	}
	if err := w.placeInRoom(PlayerID, def.Meta.StartLocation); err != nil {
		return nil, fmt.Errorf("placing player: %w", err)
	}

	actionCap := def.Meta.RecentActionCap
	if actionCap <= 0 {
		actionCap = state.DefaultRecentActionCap
	}
	w.State = state.New(def.Meta.StartLocation, actionCap)

	return w, nil
}

func buildObject(o ObjectDef) *entity.Thing {
	var t *entity.Thing
	switch {
	case o.Container:
		t = entity.NewContainer(o.ID, o.Name, o.Description)
		if o.Openable != nil {
			t.Openable = *o.Openable
		}
		t.Open = o.Open
		t.Locked = o.Locked
		if t.Locked {
			t.Open = false
		}
		t.UnlocksWith = o.UnlocksWith
	case o.Supporter:
		t = entity.NewSupporter(o.ID, o.Name, o.Description)
	case o.Enterable:
		t = entity.NewEnterable(o.ID, o.Name, o.Description)
		t.EnterDestination = o.EnterDestination
	case o.Vehicle:
		t = entity.NewVehicle(o.ID, o.Name, o.Description)
		if o.Operational != nil {
			t.Operational = *o.Operational
		}
		t.RequiredKey = o.RequiredKey
	case o.Backdrop:
		t = entity.NewBackdrop(o.ID, o.Name, o.Description)
	case o.Scenery:
		t = entity.NewScenery(o.ID, o.Name, o.Description)
	default:
		t = entity.New(o.ID, o.Name, o.Description)
	}

	if o.Capacity > 0 {
		t.Capacity = o.Capacity
	}
	if o.Portable != nil {
		t.Portable = *o.Portable
	}
	if o.Fixed {
		t.FixedInPlace = true
		if o.Portable == nil {
			t.Portable = false
		}
	}
	t.TextContent = o.TextContent
	t.ClimbDestination = o.ClimbDestination

	return t
}

// placeObject puts an object at its starting position. Ownership edges are
// attached directly so closed or locked owners still receive their initial
// contents.
func (w *World) placeObject(o ObjectDef) error {
	if o.Backdrop {
		for _, room := range o.PresentIn {
			w.Spatial.AddPresence(o.ID, room)
		}
		return nil
	}
	if o.Location == "" {
		return nil
	}

	thing, _ := w.Spatial.Thing(o.ID)

	if room, ok := w.Spatial.Room(o.Location); ok {
		if !room.AddChild(thing) {
			return fmt.Errorf("placing object %q in %q: attachment refused", o.ID, o.Location)
		}
		thing.Location = room.ID
		return nil
	}

	if owner, ok := w.Spatial.Thing(o.Location); ok {
		if !owner.AddChild(thing) {
			return fmt.Errorf("placing object %q in %q: attachment refused", o.ID, o.Location)
		}
		return nil
	}

	// A "<character>_bag" location is the legacy spelling of character
	// inventory.
	owner := strings.TrimSuffix(o.Location, LegacyBagSuffix)
	if w.Inventory.Has(owner) {
		w.Inventory.Add(owner, o.ID)
		return nil
	}

	return fmt.Errorf("placing object %q: unknown location %q", o.ID, o.Location)
}

func (w *World) placeInRoom(thingID, roomID string) error {
	room, ok := w.Spatial.Room(roomID)
	if !ok {
		return fmt.Errorf("unknown room %q", roomID)
	}
	thing, ok := w.Spatial.Thing(thingID)
	if !ok {
		return fmt.Errorf("unknown thing %q", thingID)
	}
	if !room.AddChild(thing) {
		return fmt.Errorf("room %q refused %q", roomID, thingID)
	}
	thing.Location = roomID
	return nil
}
