package rules

// StateView is the read-only slice of game state that condition evaluation
// needs. *state.GameState satisfies it.
type StateView interface {
	CurrentLocation() string
	EntityState(entityID, key string) (any, bool)
	Counter(name string) int
	Flag(name string) bool
}

// InventoryView is the read-only slice of inventory that condition
// evaluation needs. *inventory.Store satisfies it.
type InventoryView interface {
	Contains(ownerID, itemID string) bool
}

// PlayerInventoryID is the inventory every has_item condition checks.
const PlayerInventoryID = "player"

// Eval reports whether a single condition holds. Unknown condition types
// evaluate false.
func Eval(c Condition, st StateView, inv InventoryView) bool {
	switch c.Type {
	case CondLocationIs:
		loc, _ := c.Value.(string)
		if loc == "" {
			loc = c.Target
		}
		return st.CurrentLocation() == loc
	case CondHasItem:
		item, _ := c.Value.(string)
		if item == "" {
			item = c.Target
		}
		return inv.Contains(PlayerInventoryID, item)
	case CondStateEquals:
		got, ok := st.EntityState(c.Target, c.Key)
		return ok && looseEqual(got, c.Value)
	case CondStateNotEquals:
		got, ok := st.EntityState(c.Target, c.Key)
		return !ok || !looseEqual(got, c.Value)
	case CondCounterEquals:
		want, ok := toInt(c.Value)
		return ok && st.Counter(c.Key) == want
	case CondCounterGreater:
		want, ok := toInt(c.Value)
		return ok && st.Counter(c.Key) > want
	case CondCounterLess:
		want, ok := toInt(c.Value)
		return ok && st.Counter(c.Key) < want
	case CondFlagIs:
		want, ok := c.Value.(bool)
		if !ok {
			want = true
		}
		return st.Flag(c.Key) == want
	default:
		return false
	}
}

// EvalAll reports whether every condition holds. An empty condition list is
// vacuously true.
func EvalAll(conds []Condition, st StateView, inv InventoryView) bool {
	for _, c := range conds {
		if !Eval(c, st, inv) {
			return false
		}
	}
	return true
}

// looseEqual compares two values with numeric widening, so a YAML-decoded
// int matches a JSON-decoded float64 for the same state value.
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	ai, aok := toInt(a)
	bi, bok := toInt(b)
	if aok && bok {
		return ai == bi
	}
	return false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		if n == float32(int(n)) {
			return int(n), true
		}
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
