package entity

// Enter places thing inside an enterable's interior.
//
// Postcondition: returns false without mutation when t is not enterable or
// its capacity is exhausted.
func (t *Thing) Enter(thing *Thing) bool {
	if t.Kind != KindEnterable {
		return false
	}
	if !t.CanBeEnteredBy(thing) {
		return false
	}
	return t.AddChild(thing)
}

// Exit relocates thing out of the enterable, re-attaching it to the
// enterable's own parent, or to its bare location tag when the enterable is
// at top level.
func (t *Thing) Exit(thing *Thing) bool {
	if t.Kind != KindEnterable || !t.Contains(thing) {
		return false
	}
	t.RemoveChild(thing)
	if t.parent != nil {
		return t.parent.AddChild(thing)
	}
	thing.Location = t.Location
	return true
}

// Board seats thing in a vehicle.
func (t *Thing) Board(thing *Thing) bool {
	if t.Kind != KindVehicle {
		return false
	}
	if !t.CanBeEnteredBy(thing) {
		return false
	}
	return t.AddChild(thing)
}

// Disembark removes thing from a vehicle, relocating it alongside the
// vehicle itself.
func (t *Thing) Disembark(thing *Thing) bool {
	if t.Kind != KindVehicle || !t.Contains(thing) {
		return false
	}
	t.RemoveChild(thing)
	if t.parent != nil {
		return t.parent.AddChild(thing)
	}
	thing.Location = t.Location
	return true
}

// StartVehicle checks that the vehicle can be operated. When a key is
// required the supplied key must match.
func (t *Thing) StartVehicle(key string) bool {
	if t.Kind != KindVehicle || !t.Operational {
		return false
	}
	if t.RequiredKey != "" && key != t.RequiredKey {
		return false
	}
	return true
}
