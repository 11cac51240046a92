// Package inventory provides the per-actor item ownership store. Every
// actor, the player included, gets an inventory at world-load time.
package inventory

import "sort"

// Store maps actor IDs to their owned item sets.
type Store struct {
	inventories map[string]map[string]bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{inventories: make(map[string]map[string]bool)}
}

// Create registers an empty inventory for the actor. Creating an existing
// inventory is a no-op and keeps its contents.
func (s *Store) Create(actorID string) {
	if s.inventories[actorID] == nil {
		s.inventories[actorID] = make(map[string]bool)
	}
}

// Has reports whether the actor has an inventory at all.
func (s *Store) Has(actorID string) bool {
	_, ok := s.inventories[actorID]
	return ok
}

// Add puts an item into the actor's inventory, creating the inventory on
// first use. Adding an item already present is a no-op.
func (s *Store) Add(actorID, itemID string) {
	s.Create(actorID)
	s.inventories[actorID][itemID] = true
}

// Remove takes an item out of the actor's inventory.
//
// Postcondition: returns false, with no mutation, when the inventory does
// not exist or the item was not present.
func (s *Store) Remove(actorID, itemID string) bool {
	inv, ok := s.inventories[actorID]
	if !ok || !inv[itemID] {
		return false
	}
	delete(inv, itemID)
	return true
}

// Contains reports whether the actor holds the item.
func (s *Store) Contains(actorID, itemID string) bool {
	return s.inventories[actorID][itemID]
}

// Items returns the actor's items in sorted order.
func (s *Store) Items(actorID string) []string {
	inv, ok := s.inventories[actorID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(inv))
	for itemID := range inv {
		out = append(out, itemID)
	}
	sort.Strings(out)
	return out
}

// Transfer moves an item from one actor to another.
//
// Postcondition: returns false, with no mutation, unless both inventories
// exist and the source holds the item.
func (s *Store) Transfer(fromID, toID, itemID string) bool {
	from, ok := s.inventories[fromID]
	if !ok {
		return false
	}
	to, ok := s.inventories[toID]
	if !ok {
		return false
	}
	if !from[itemID] {
		return false
	}
	delete(from, itemID)
	to[itemID] = true
	return true
}

// Exchange swaps itemA (held by actorA) for itemB (held by actorB)
// atomically.
//
// Postcondition: either both items change hands or neither inventory is
// touched; no partial-swap state is reachable.
func (s *Store) Exchange(actorA, itemA, actorB, itemB string) bool {
	invA, ok := s.inventories[actorA]
	if !ok {
		return false
	}
	invB, ok := s.inventories[actorB]
	if !ok {
		return false
	}
	if !invA[itemA] || !invB[itemB] {
		return false
	}
	delete(invA, itemA)
	delete(invB, itemB)
	invA[itemB] = true
	invB[itemA] = true
	return true
}

// All returns a copy of every inventory, keyed by actor, items sorted.
func (s *Store) All() map[string][]string {
	out := make(map[string][]string, len(s.inventories))
	for actorID := range s.inventories {
		out[actorID] = s.Items(actorID)
	}
	return out
}

// Restore replaces all inventories with the given contents.
func (s *Store) Restore(inventories map[string][]string) {
	s.inventories = make(map[string]map[string]bool, len(inventories))
	for actorID, items := range inventories {
		inv := make(map[string]bool, len(items))
		for _, itemID := range items {
			inv[itemID] = true
		}
		s.inventories[actorID] = inv
	}
}
