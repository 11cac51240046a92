// Package entity provides the game object model: things, rooms, containers,
// supporters, enterables, vehicles, backdrops, scenery, and characters.
package entity

// Kind identifies which capability variant a Thing is. The set is closed;
// all behavior dispatches on it.
type Kind string

// All Thing kinds.
const (
	KindThing     Kind = "thing"
	KindRoom      Kind = "room"
	KindContainer Kind = "container"
	KindSupporter Kind = "supporter"
	KindEnterable Kind = "enterable"
	KindVehicle   Kind = "vehicle"
	KindBackdrop  Kind = "backdrop"
	KindScenery   Kind = "scenery"
	KindCharacter Kind = "character"
)

// UnlimitedCapacity disables the capacity bound on containers, supporters,
// enterables, and vehicles.
const UnlimitedCapacity = 0

// Thing is any placeable game entity. A Thing has at most one parent at any
// time; the parent/child graph is a forest. The Location tag is meaningful
// only while the Thing has no parent.
type Thing struct {
	// ID uniquely identifies this thing within the world.
	ID string
	// Name is the short display name.
	Name string
	// Description is the prose shown when the thing is examined.
	Description string
	// Kind selects the capability variant.
	Kind Kind
	// Portable indicates the thing can be picked up.
	Portable bool
	// FixedInPlace indicates the thing can never be relocated by a player.
	FixedInPlace bool
	// Location is the top-level placement tag used when the thing has no parent.
	Location string

	// Connections maps direction labels to destination room IDs (rooms only).
	Connections map[string]string
	// Dark marks a room as unlit.
	Dark bool
	// Outdoors marks a room as open to the sky.
	Outdoors bool

	// Openable, Open, and Locked hold the container state machine (containers only).
	Openable bool
	Open     bool
	Locked   bool
	// UnlocksWith is the key ID required to lock and unlock. Empty = any key.
	UnlocksWith string

	// Capacity bounds the number of direct children for containers,
	// supporters, enterables, and vehicles. UnlimitedCapacity = no bound.
	Capacity int

	// Operational indicates a vehicle can currently be boarded and started.
	Operational bool
	// RequiredKey is the key ID needed to start a vehicle. Empty = none.
	RequiredKey string

	// TextContent is the text revealed when a readable thing is read.
	TextContent string
	// ClimbDestination is the room reached by climbing, when climbable.
	ClimbDestination string
	// EnterDestination is the room reached by entering, for enterables that
	// lead somewhere rather than holding their contents.
	EnterDestination string

	parent   *Thing
	children map[string]*Thing
}

// New creates a plain portable Thing.
func New(id, name, description string) *Thing {
	return &Thing{
		ID:          id,
		Name:        name,
		Description: description,
		Kind:        KindThing,
		Portable:    true,
		children:    make(map[string]*Thing),
	}
}

// NewRoom creates a Room. Rooms are never portable and always fixed.
func NewRoom(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindRoom
	t.Portable = false
	t.FixedInPlace = true
	t.Connections = make(map[string]string)
	return t
}

// NewContainer creates an openable Container that starts closed.
func NewContainer(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindContainer
	t.Openable = true
	return t
}

// NewSupporter creates a Supporter surface.
func NewSupporter(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindSupporter
	return t
}

// NewEnterable creates an Enterable interior.
func NewEnterable(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindEnterable
	return t
}

// NewVehicle creates an operational Vehicle with capacity for one rider.
func NewVehicle(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindVehicle
	t.Capacity = 1
	t.Operational = true
	return t
}

// NewBackdrop creates a Backdrop. Its multi-room presence lives outside the
// ownership tree; see the spatial manager's presence set.
func NewBackdrop(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindBackdrop
	t.Portable = false
	t.FixedInPlace = true
	return t
}

// NewScenery creates a fixed decorative Thing.
func NewScenery(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindScenery
	t.Portable = false
	t.FixedInPlace = true
	return t
}

// NewCharacter creates a Character. Characters move on their own but can
// never be picked up.
func NewCharacter(id, name, description string) *Thing {
	t := New(id, name, description)
	t.Kind = KindCharacter
	t.Portable = false
	return t
}

// Parent returns the current owner, or nil when the thing is at top level.
func (t *Thing) Parent() *Thing {
	return t.parent
}

// Children returns a snapshot of the direct children.
//
// Postcondition: mutations of the returned slice do not affect the thing.
func (t *Thing) Children() []*Thing {
	out := make([]*Thing, 0, len(t.children))
	for _, c := range t.children {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of direct children.
func (t *Thing) ChildCount() int {
	return len(t.children)
}

// Contains reports whether other is a direct child of t.
func (t *Thing) Contains(other *Thing) bool {
	if other == nil {
		return false
	}
	_, ok := t.children[other.ID]
	return ok
}

// AddChild attaches child to t, detaching it from its previous parent first.
// It is the sole attachment mutator; both parent and child pointers stay
// consistent. Attaching a thing to itself or to any of its own descendants
// fails, preserving the forest invariant.
//
// Postcondition: on success child.Parent() == t and child appears in no
// other thing's child set; on failure nothing changes.
func (t *Thing) AddChild(child *Thing) bool {
	if child == nil || child == t {
		return false
	}
	if t.IsInside(child) {
		return false
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	t.children[child.ID] = child
	child.parent = t
	return true
}

// RemoveChild detaches child from t. A thing that is not a child is a no-op.
func (t *Thing) RemoveChild(child *Thing) {
	if child == nil {
		return
	}
	if _, ok := t.children[child.ID]; !ok {
		return
	}
	delete(t.children, child.ID)
	if child.parent == t {
		child.parent = nil
	}
}

// AllDescendants returns the full sub-tree below t, depth first.
func (t *Thing) AllDescendants() []*Thing {
	var out []*Thing
	for _, c := range t.children {
		out = append(out, c)
		out = append(out, c.AllDescendants()...)
	}
	return out
}

// IsInside reports whether t is directly or transitively inside other.
func (t *Thing) IsInside(other *Thing) bool {
	for cur := t.parent; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// TopLevelLocation walks to the root ancestor and returns its location tag.
func (t *Thing) TopLevelLocation() string {
	if t.parent != nil {
		return t.parent.TopLevelLocation()
	}
	return t.Location
}

// hasCapacity reports whether one more child fits.
func (t *Thing) hasCapacity() bool {
	return t.Capacity == UnlimitedCapacity || len(t.children) < t.Capacity
}

// CanContain reports whether t accepts other inside it right now. Rooms
// accept anything; containers require open-or-non-openable and free
// capacity; enterables require free capacity; vehicles additionally require
// being operational. All other kinds refuse.
func (t *Thing) CanContain(other *Thing) bool {
	switch t.Kind {
	case KindRoom:
		return true
	case KindContainer:
		if t.Openable && !t.Open {
			return false
		}
		return t.hasCapacity()
	case KindEnterable:
		return t.hasCapacity()
	case KindVehicle:
		return t.Operational && t.hasCapacity()
	default:
		return false
	}
}

// CanSupport reports whether t accepts other on top of it right now.
// Only supporters with free capacity do.
func (t *Thing) CanSupport(other *Thing) bool {
	return t.Kind == KindSupporter && t.hasCapacity()
}

// CanBeEnteredBy reports whether other may enter t right now.
func (t *Thing) CanBeEnteredBy(other *Thing) bool {
	switch t.Kind {
	case KindRoom:
		return true
	case KindEnterable:
		return t.hasCapacity()
	case KindVehicle:
		return t.Operational && t.hasCapacity()
	default:
		return false
	}
}
