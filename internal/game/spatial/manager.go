// Package spatial provides the single source of truth for where things are
// and what an observer can see. It indexes rooms and things by ID and owns
// the backdrop presence sets.
package spatial

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fable/internal/game/entity"
)

// Relation describes how a thing sits relative to its owner.
type Relation string

// Spatial relations.
const (
	// RelationIn places a thing inside a container, enterable, or room.
	RelationIn Relation = "in"
	// RelationInside is an alias accepted anywhere RelationIn is.
	RelationInside Relation = "inside"
	// RelationOn places a thing on top of a supporter.
	RelationOn Relation = "on"
	// RelationNone means no direct spatial relation exists.
	RelationNone Relation = ""
)

// Manager is the registry of all rooms and things and the sole relocation
// authority. It is exclusively owned by the command-processing loop; no
// locking is required.
type Manager struct {
	rooms    map[string]*entity.Thing
	things   map[string]*entity.Thing
	presence map[string]map[string]bool // backdrop ID -> room IDs
	logger   *zap.Logger
}

// NewManager creates an empty Manager.
//
// Precondition: logger must be non-nil; use zap.NewNop() to discard.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		rooms:    make(map[string]*entity.Thing),
		things:   make(map[string]*entity.Thing),
		presence: make(map[string]map[string]bool),
		logger:   logger,
	}
}

// RegisterRoom adds a room to both the room index and the thing index.
//
// Postcondition: returns an error on a duplicate or non-room ID.
func (m *Manager) RegisterRoom(room *entity.Thing) error {
	if room.Kind != entity.KindRoom {
		return fmt.Errorf("registering %q: kind %q is not a room", room.ID, room.Kind)
	}
	if _, exists := m.things[room.ID]; exists {
		return fmt.Errorf("duplicate thing ID: %q", room.ID)
	}
	m.rooms[room.ID] = room
	m.things[room.ID] = room
	return nil
}

// RegisterThing adds a non-room thing to the thing index.
func (m *Manager) RegisterThing(thing *entity.Thing) error {
	if _, exists := m.things[thing.ID]; exists {
		return fmt.Errorf("duplicate thing ID: %q", thing.ID)
	}
	m.things[thing.ID] = thing
	return nil
}

// Room returns the room with the given ID.
func (m *Manager) Room(id string) (*entity.Thing, bool) {
	r, ok := m.rooms[id]
	return r, ok
}

// Thing returns the thing with the given ID. Rooms resolve here too.
func (m *Manager) Thing(id string) (*entity.Thing, bool) {
	t, ok := m.things[id]
	return t, ok
}

// RoomCount returns the number of registered rooms.
func (m *Manager) RoomCount() int {
	return len(m.rooms)
}

// ThingCount returns the number of registered things, rooms included.
func (m *Manager) ThingCount() int {
	return len(m.things)
}

// MoveTo detaches the thing from its current owner and places it at the
// destination under the given relation. IN/INSIDE dispatches to container,
// enterable, vehicle, or room placement; ON dispatches to supporter
// placement; any other relation only allows direct room placement.
// A relation that mismatches the destination's capability (ON against a
// container, say) fails closed rather than being reinterpreted.
//
// Postcondition: returns false when either ID is unknown, attachment would
// create a cycle, or the destination refuses; on success the thing has
// exactly one owner and is absent from every other child set.
func (m *Manager) MoveTo(thingID, destinationID string, relation Relation) bool {
	thing, ok := m.things[thingID]
	if !ok {
		m.logger.Debug("moveTo: unknown thing", zap.String("thing", thingID))
		return false
	}
	dest, ok := m.things[destinationID]
	if !ok {
		m.logger.Debug("moveTo: unknown destination", zap.String("destination", destinationID))
		return false
	}
	if dest == thing || dest.IsInside(thing) {
		return false
	}

	if parent := thing.Parent(); parent != nil {
		parent.RemoveChild(thing)
	}

	switch relation {
	case RelationIn, RelationInside:
		return m.placeInside(thing, dest)
	case RelationOn:
		return m.placeOnTop(thing, dest)
	default:
		if dest.Kind == entity.KindRoom {
			return m.placeInRoom(thing, dest)
		}
		return false
	}
}

func (m *Manager) placeInside(thing, dest *entity.Thing) bool {
	switch dest.Kind {
	case entity.KindContainer:
		return dest.AddItem(thing)
	case entity.KindEnterable:
		return dest.Enter(thing)
	case entity.KindVehicle:
		return dest.Board(thing)
	case entity.KindRoom:
		return m.placeInRoom(thing, dest)
	default:
		if dest.CanContain(thing) {
			return dest.AddChild(thing)
		}
		return false
	}
}

func (m *Manager) placeOnTop(thing, dest *entity.Thing) bool {
	if !dest.CanSupport(thing) {
		return false
	}
	return dest.AddChild(thing)
}

func (m *Manager) placeInRoom(thing, room *entity.Thing) bool {
	if !room.AddChild(thing) {
		return false
	}
	thing.Location = room.ID
	return true
}

// MoveToLocation detaches the thing and leaves it at a bare location tag,
// with no owner. Used for top-level placement markers.
func (m *Manager) MoveToLocation(thingID, locationTag string) bool {
	thing, ok := m.things[thingID]
	if !ok {
		return false
	}
	if parent := thing.Parent(); parent != nil {
		parent.RemoveChild(thing)
	}
	thing.Location = locationTag
	return true
}

// Relocate places a thing at a destination that may be a room, another
// registered thing, or a bare location tag. Rooms and things go through
// MoveTo with an IN relation; anything else becomes a top-level tag.
func (m *Manager) Relocate(thingID, destinationID string) bool {
	if _, ok := m.things[destinationID]; ok {
		return m.MoveTo(thingID, destinationID, RelationIn)
	}
	return m.MoveToLocation(thingID, destinationID)
}

// RoomContaining walks the parent chain to the nearest room ancestor. When
// the chain ends without one, the thing's top-level location tag is resolved
// through the room registry.
func (m *Manager) RoomContaining(thingID string) *entity.Thing {
	thing, ok := m.things[thingID]
	if !ok {
		return nil
	}
	for cur := thing; cur != nil; cur = cur.Parent() {
		if cur.Kind == entity.KindRoom {
			return cur
		}
	}
	if tag := thing.TopLevelLocation(); tag != "" {
		if room, ok := m.rooms[tag]; ok {
			return room
		}
	}
	return nil
}

// RoomIDContaining resolves the containing room's identifier, or empty when
// the thing is unregistered or floats outside every room.
func (m *Manager) RoomIDContaining(thingID string) string {
	if room := m.RoomContaining(thingID); room != nil {
		return room.ID
	}
	return ""
}

// CanSee reports whether the observer can currently see the target: both
// must resolve to the same room and no closed container may sit on the path
// from the target up to that room. Backdrops are visible by per-room
// presence membership instead of tree traversal.
func (m *Manager) CanSee(observerID, targetID string) bool {
	target, ok := m.things[targetID]
	if !ok {
		return false
	}

	observerRoom := m.RoomContaining(observerID)
	if observerRoom == nil {
		return false
	}

	if target.Kind == entity.KindBackdrop {
		return m.IsPresentIn(targetID, observerRoom.ID)
	}

	targetRoom := m.RoomContaining(targetID)
	if targetRoom == nil || targetRoom != observerRoom {
		return false
	}

	for cur := target.Parent(); cur != nil && cur != observerRoom; cur = cur.Parent() {
		if cur.Kind == entity.KindContainer && cur.Openable && !cur.Open {
			return false
		}
	}
	return true
}

// SpatialRelation derives IN vs ON from the owner's capability kind.
// RelationNone when other is not the thing's direct owner.
func (m *Manager) SpatialRelation(thingID, otherID string) Relation {
	thing, ok := m.things[thingID]
	if !ok {
		return RelationNone
	}
	other, ok := m.things[otherID]
	if !ok || thing.Parent() != other {
		return RelationNone
	}
	switch other.Kind {
	case entity.KindContainer, entity.KindEnterable, entity.KindVehicle, entity.KindRoom:
		return RelationIn
	case entity.KindSupporter:
		return RelationOn
	default:
		return RelationNone
	}
}

// ThingsInRoom returns everything in a room, nested containers included.
func (m *Manager) ThingsInRoom(roomID string) []*entity.Thing {
	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return room.AllDescendants()
}

// DirectContents returns only the room's immediate children.
func (m *Manager) DirectContents(roomID string) []*entity.Thing {
	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return room.Children()
}

// AddPresence marks a backdrop as present in a room. Presence is membership,
// not ownership; relocation logic never consults it.
func (m *Manager) AddPresence(backdropID, roomID string) {
	if m.presence[backdropID] == nil {
		m.presence[backdropID] = make(map[string]bool)
	}
	m.presence[backdropID][roomID] = true
}

// RemovePresence removes a backdrop from a room.
func (m *Manager) RemovePresence(backdropID, roomID string) {
	delete(m.presence[backdropID], roomID)
}

// IsPresentIn reports whether a backdrop is present in the given room.
func (m *Manager) IsPresentIn(backdropID, roomID string) bool {
	return m.presence[backdropID][roomID]
}

// PresentBackdrops returns the IDs of backdrops present in the room.
func (m *Manager) PresentBackdrops(roomID string) []string {
	var out []string
	for backdropID, rooms := range m.presence {
		if rooms[roomID] {
			out = append(out, backdropID)
		}
	}
	return out
}

// Things returns every registered thing, rooms included, sorted by ID.
func (m *Manager) Things() []*entity.Thing {
	ids := make([]string, 0, len(m.things))
	for id := range m.things {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Thing, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.things[id])
	}
	return out
}

// PresenceSets returns a copy of the backdrop presence sets, room IDs sorted.
func (m *Manager) PresenceSets() map[string][]string {
	out := make(map[string][]string, len(m.presence))
	for backdropID, rooms := range m.presence {
		ids := make([]string, 0, len(rooms))
		for roomID := range rooms {
			ids = append(ids, roomID)
		}
		sort.Strings(ids)
		out[backdropID] = ids
	}
	return out
}

// RestorePresence replaces all presence sets with the given contents.
func (m *Manager) RestorePresence(sets map[string][]string) {
	m.presence = make(map[string]map[string]bool, len(sets))
	for backdropID, rooms := range sets {
		for _, roomID := range rooms {
			m.AddPresence(backdropID, roomID)
		}
	}
}

// LocationDescription renders a short phrase describing where a thing is.
func (m *Manager) LocationDescription(thingID string) string {
	thing, ok := m.things[thingID]
	if !ok {
		return "unknown location"
	}
	parent := thing.Parent()
	if parent == nil {
		if thing.Location != "" {
			return fmt.Sprintf("in %s", thing.Location)
		}
		return "nowhere"
	}
	switch m.SpatialRelation(thingID, parent.ID) {
	case RelationIn:
		return fmt.Sprintf("inside %s", parent.Name)
	case RelationOn:
		return fmt.Sprintf("on %s", parent.Name)
	default:
		return fmt.Sprintf("with %s", parent.Name)
	}
}
