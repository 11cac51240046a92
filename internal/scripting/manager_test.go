package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func loadedManager(t *testing.T, script string) *Manager {
	t.Helper()
	dir := t.TempDir()
	writeScript(t, dir, "story.lua", script)
	m := NewManager(zap.NewNop())
	require.NoError(t, m.Load(dir, 0))
	t.Cleanup(m.Close)
	return m
}

func TestCallHook(t *testing.T) {
	m := loadedManager(t, `
function greet(name)
  return "hello " .. name
end
`)
	ret, err := m.CallHook("greet", lua.LString("traveler"))
	require.NoError(t, err)
	assert.Equal(t, "hello traveler", lua.LVAsString(ret))
}

func TestCallHook_UndefinedIsNil(t *testing.T) {
	m := loadedManager(t, `x = 1`)
	ret, err := m.CallHook("no_such_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestCallHook_NoScripts(t *testing.T) {
	m := NewManager(zap.NewNop())
	ret, err := m.CallHook("anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.False(t, m.Loaded())
}

func TestCallHook_RuntimeErrorSwallowed(t *testing.T) {
	m := loadedManager(t, `
function boom()
  error("kaboom")
end
`)
	ret, err := m.CallHook("boom")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestStoryModuleCallbacks(t *testing.T) {
	flags := map[string]bool{}
	counters := map[string]int{}
	var said []string

	dir := t.TempDir()
	writeScript(t, dir, "hooks.lua", `
function on_enter(location)
  if location == "inner_cave" and not story.get_flag("visited_cave") then
    story.set_flag("visited_cave")
    story.add_counter("visits")
    story.say("Your footsteps echo.")
  end
end

function every_turn(turn)
  story.set_counter("last_turn", turn)
end
`)

	m := NewManager(zap.NewNop())
	m.GetFlag = func(name string) bool { return flags[name] }
	m.SetFlag = func(name string, v bool) { flags[name] = v }
	m.GetCounter = func(name string) int { return counters[name] }
	m.SetCounter = func(name string, v int) { counters[name] = v }
	m.AddCounter = func(name string, d int) { counters[name] += d }
	m.Say = func(text string) { said = append(said, text) }
	require.NoError(t, m.Load(dir, 0))
	defer m.Close()

	_, err := m.CallHook("on_enter", lua.LString("inner_cave"))
	require.NoError(t, err)
	_, err = m.CallHook("on_enter", lua.LString("inner_cave"))
	require.NoError(t, err)

	assert.True(t, flags["visited_cave"])
	assert.Equal(t, 1, counters["visits"])
	assert.Equal(t, []string{"Your footsteps echo."}, said)

	_, err = m.CallHook("every_turn", lua.LNumber(7))
	require.NoError(t, err)
	assert.Equal(t, 7, counters["last_turn"])
}

func TestLoad_MissingDir(t *testing.T) {
	m := NewManager(zap.NewNop())
	err := m.Load(filepath.Join(t.TempDir(), "nope"), 0)
	require.Error(t, err)
}

func TestLoad_BadLua(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.lua", `function broken(`)
	m := NewManager(zap.NewNop())
	require.Error(t, m.Load(dir, 0))
}
