package storage

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/fable/internal/game/entity"
	"github.com/cory-johannsen/fable/internal/game/world"
)

// Capture serializes the world's full mutable surface into a fresh SaveData
// with a new ID. Rooms are skipped; they never move and hold no mutable
// state of their own.
func Capture(w *world.World, name string) SaveData {
	data := SaveData{
		ID:          NewSaveID(),
		Name:        name,
		StoryTitle:  w.Def.Meta.Title,
		SavedAt:     time.Now().UTC(),
		State:       w.State.Snapshot(),
		Inventories: w.Inventory.All(),
		Placements:  make(map[string]Placement),
		Presence:    w.Spatial.PresenceSets(),
	}
	for _, t := range w.Spatial.Things() {
		if t.Kind == entity.KindRoom {
			continue
		}
		p := Placement{
			Location:    t.Location,
			Open:        t.Open,
			Locked:      t.Locked,
			Operational: t.Operational,
		}
		if parent := t.Parent(); parent != nil {
			p.ParentID = parent.ID
		}
		data.Placements[t.ID] = p
	}
	return data
}

// Apply restores a save into the world, fully replacing the session state,
// all inventories, every placement, container and vehicle state, and
// backdrop presence. There is no partial merge.
//
// Precondition: w was built from the same story the save was captured from.
// Postcondition: on error the world may be partially restored and should be
// rebuilt before further play.
func Apply(w *world.World, data SaveData) error {
	if data.StoryTitle != "" && data.StoryTitle != w.Def.Meta.Title {
		return fmt.Errorf("save is for story %q, world is %q", data.StoryTitle, w.Def.Meta.Title)
	}
	for id := range data.Placements {
		if _, ok := w.Spatial.Thing(id); !ok {
			return fmt.Errorf("save references unknown thing %q", id)
		}
	}

	// Detach everything first so re-attachment order cannot matter.
	for _, t := range w.Spatial.Things() {
		if t.Kind == entity.KindRoom {
			continue
		}
		if parent := t.Parent(); parent != nil {
			parent.RemoveChild(t)
		}
		t.Location = ""
	}

	for id, p := range data.Placements {
		t, _ := w.Spatial.Thing(id)
		t.Location = p.Location
		t.Open = p.Open
		t.Locked = p.Locked
		t.Operational = p.Operational
	}
	for id, p := range data.Placements {
		if p.ParentID == "" {
			continue
		}
		parent, ok := w.Spatial.Thing(p.ParentID)
		if !ok {
			return fmt.Errorf("save references unknown owner %q for %q", p.ParentID, id)
		}
		t, _ := w.Spatial.Thing(id)
		if !parent.AddChild(t) {
			return fmt.Errorf("restoring %q into %q failed", id, p.ParentID)
		}
	}

	w.Spatial.RestorePresence(data.Presence)
	w.Inventory.Restore(data.Inventories)
	w.State.Restore(data.State)
	return nil
}
