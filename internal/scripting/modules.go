package scripting

import lua "github.com/yuin/gopher-lua"

// RegisterModules registers the story.* Lua table into L. Scripts get read
// and write access to flags and counters, read access to the current
// location and turn, and a say() channel for narration. They never touch
// the containment tree or inventories directly.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: the story global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	story := L.NewTable()

	L.SetField(story, "get_flag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if m.GetFlag == nil {
			L.Push(lua.LFalse)
			return 1
		}
		L.Push(lua.LBool(m.GetFlag(name)))
		return 1
	}))

	L.SetField(story, "set_flag", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := true
		if L.GetTop() >= 2 {
			value = lua.LVAsBool(L.Get(2))
		}
		if m.SetFlag != nil {
			m.SetFlag(name, value)
		}
		return 0
	}))

	L.SetField(story, "get_counter", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if m.GetCounter == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.GetCounter(name)))
		return 1
	}))

	L.SetField(story, "set_counter", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := L.CheckInt(2)
		if m.SetCounter != nil {
			m.SetCounter(name, value)
		}
		return 0
	}))

	L.SetField(story, "add_counter", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		delta := 1
		if L.GetTop() >= 2 {
			delta = L.CheckInt(2)
		}
		if m.AddCounter != nil {
			m.AddCounter(name, delta)
		}
		return 0
	}))

	L.SetField(story, "location", L.NewFunction(func(L *lua.LState) int {
		if m.CurrentLocation == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(m.CurrentLocation()))
		return 1
	}))

	L.SetField(story, "turn", L.NewFunction(func(L *lua.LState) int {
		if m.TurnCount == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.TurnCount()))
		return 1
	}))

	L.SetField(story, "say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if m.Say != nil {
			m.Say(text)
		}
		return 0
	}))

	L.SetGlobal("story", story)
}
