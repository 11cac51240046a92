package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestSandboxStripsDangerousGlobals(t *testing.T) {
	L, cancel := NewSandboxedState(0)
	defer cancel()
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
	// Unopened libraries are absent entirely.
	assert.Equal(t, lua.LNil, L.GetGlobal("os"))
	assert.Equal(t, lua.LNil, L.GetGlobal("io"))
}

func TestSandboxSafeLibsAvailable(t *testing.T) {
	L, cancel := NewSandboxedState(0)
	defer cancel()
	defer L.Close()

	require.NoError(t, L.DoString(`result = string.upper("ok") .. tostring(math.floor(2.9))`))
	assert.Equal(t, "OK2", lua.LVAsString(L.GetGlobal("result")))
}

func TestInstructionLimitHaltsRunawayLoop(t *testing.T) {
	L, cancel := NewSandboxedState(1000)
	defer cancel()
	defer L.Close()

	err := L.DoString(`while true do end`)
	require.Error(t, err)
}
