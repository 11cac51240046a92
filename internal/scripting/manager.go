package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns one sandboxed LState per loaded story and exposes hook
// dispatch. Story scripts may define on_start(), on_enter(location_id), and
// every_turn(turn) globals; the engine calls whichever exist.
//
// Manager is safe for concurrent CallHook after Load completes. The LState
// is single-threaded; the mutex serializes hook calls.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel func()
	logger *zap.Logger

	// Injected after construction. nil = no-op in story.* modules.
	GetFlag         func(name string) bool
	SetFlag         func(name string, value bool)
	GetCounter      func(name string) int
	SetCounter      func(name string, value int)
	AddCounter      func(name string, delta int)
	CurrentLocation func() string
	TurnCount       func() int
	Say             func(text string)
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Load creates a sandboxed VM, registers the story.* module, then executes
// every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: the VM is ready for CallHook; returns error on Lua load
// failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.mu.Unlock()
	return nil
}

// Loaded reports whether any scripts have been loaded.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != nil
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
		m.state = nil
	}
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined or no scripts are loaded. Lua runtime errors are
// logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return lua.LNil, nil
	}

	fn := m.state.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	if err := m.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := m.state.Get(-1)
	m.state.Pop(1)
	return ret, nil
}
