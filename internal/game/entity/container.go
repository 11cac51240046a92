package entity

// Container state machine and contents operations. All mutators return a
// boolean success value; callers translate failure into a user-facing
// message.

// OpenContainer transitions closed -> open.
//
// Postcondition: returns false, leaving Open and Locked unchanged, when the
// thing is not an openable container, is locked, or is already open.
func (t *Thing) OpenContainer() bool {
	if t.Kind != KindContainer || !t.Openable {
		return false
	}
	if t.Locked || t.Open {
		return false
	}
	t.Open = true
	return true
}

// CloseContainer transitions open -> closed.
func (t *Thing) CloseContainer() bool {
	if t.Kind != KindContainer || !t.Openable {
		return false
	}
	if !t.Open {
		return false
	}
	t.Open = false
	return true
}

// LockContainer transitions closed -> locked. Locking always closes the
// container. When a key is configured, the supplied key must match.
func (t *Thing) LockContainer(key string) bool {
	if t.Kind != KindContainer || !t.Openable {
		return false
	}
	if t.Locked {
		return false
	}
	if t.UnlocksWith != "" && key != t.UnlocksWith {
		return false
	}
	t.Locked = true
	t.Open = false
	return true
}

// UnlockContainer transitions locked -> closed. When a key is configured,
// the supplied key must match; otherwise any caller may unlock.
func (t *Thing) UnlockContainer(key string) bool {
	if t.Kind != KindContainer || !t.Locked {
		return false
	}
	if t.UnlocksWith != "" && key != t.UnlocksWith {
		return false
	}
	t.Locked = false
	return true
}

// AddItem places item inside the container. The item is detached from its
// previous owner first.
//
// Postcondition: returns false without mutation unless the container is
// open-or-non-openable and under capacity.
func (t *Thing) AddItem(item *Thing) bool {
	if t.Kind != KindContainer && t.Kind != KindSupporter {
		return false
	}
	if t.Kind == KindContainer && !t.CanContain(item) {
		return false
	}
	if t.Kind == KindSupporter && !t.CanSupport(item) {
		return false
	}
	return t.AddChild(item)
}

// RemoveItem takes item out of the container or off the supporter.
func (t *Thing) RemoveItem(item *Thing) bool {
	if !t.Contains(item) {
		return false
	}
	t.RemoveChild(item)
	return true
}

// VisibleContents returns the children that an observer can currently see.
// Closed openable containers hide their contents; non-openable containers
// are always open. Every other kind never hides anything.
func (t *Thing) VisibleContents() []*Thing {
	if t.Kind == KindContainer && t.Openable && !t.Open {
		return nil
	}
	return t.Children()
}

// IsEmpty reports whether the thing holds nothing.
func (t *Thing) IsEmpty() bool {
	return len(t.children) == 0
}

// IsFull reports whether the capacity bound is reached.
func (t *Thing) IsFull() bool {
	return !t.hasCapacity()
}
