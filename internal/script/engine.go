// Package script sets up scenes from Lua source. Scripts see a small API
// bound to a simulation:
//
//	spawn(x, y, name)            -> bool
//	fill(x0, y0, x1, y1, name)   -> number of particles placed
//	destroy(x, y)
//	ignite(x, y)
//	heat(x, y, delta)            -> bool
//	size()                       -> width, height
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"tinderbox/internal/core"
	"tinderbox/internal/material"
)

// Commander is the simulation surface scripts drive.
type Commander interface {
	SpawnParticle(x, y int, t material.Type) bool
	DestroyParticle(x, y int)
	IgniteParticle(x, y int)
	HeatParticle(x, y, delta int) bool
	Size() core.Size
}

// Engine wraps a single gopher-lua VM. Single-goroutine access only.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
	cmd Commander
}

// unsafeGlobals are base library functions that reach the filesystem or
// compile arbitrary chunks.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// NewEngine creates a sandboxed VM bound to cmd. Scripts get no io, os or
// module loading, and cannot read other files.
func NewEngine(cmd Commander, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		vm.Push(vm.NewFunction(lib.fn))
		vm.Push(lua.LString(lib.name))
		vm.Call(1, 0)
	}
	for _, name := range unsafeGlobals {
		vm.SetGlobal(name, lua.LNil)
	}
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, cmd: cmd}
	e.register()
	return e
}

// Close releases the VM.
func (e *Engine) Close() { e.vm.Close() }

// Run executes Lua source.
func (e *Engine) Run(name, src string) error {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return fmt.Errorf("load script %s: %w", name, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run script %s: %w", name, err)
	}
	e.log.Debug("lua script executed", zap.String("script", name))
	return nil
}

// RunFile executes the Lua file at path.
func (e *Engine) RunFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("run script %s: %w", path, err)
	}
	e.log.Debug("lua script executed", zap.String("file", path))
	return nil
}

// RunScene executes a registered scene by name.
func (e *Engine) RunScene(name string) error {
	src, ok := Scene(name)
	if !ok {
		return fmt.Errorf("unknown scene %q", name)
	}
	return e.Run(name, src)
}

func (e *Engine) register() {
	for name, fn := range map[string]lua.LGFunction{
		"spawn":   e.luaSpawn,
		"fill":    e.luaFill,
		"destroy": e.luaDestroy,
		"ignite":  e.luaIgnite,
		"heat":    e.luaHeat,
		"size":    e.luaSize,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func checkMaterial(L *lua.LState, n int) material.Type {
	name := L.CheckString(n)
	t, ok := material.Parse(name)
	if !ok || t == material.None {
		L.ArgError(n, fmt.Sprintf("unknown material %q", name))
	}
	return t
}

func (e *Engine) luaSpawn(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	t := checkMaterial(L, 3)
	L.Push(lua.LBool(e.cmd.SpawnParticle(x, y, t)))
	return 1
}

func (e *Engine) luaFill(L *lua.LState) int {
	x0, y0, x1, y1 := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	t := checkMaterial(L, 5)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	placed := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if e.cmd.SpawnParticle(x, y, t) {
				placed++
			}
		}
	}
	L.Push(lua.LNumber(placed))
	return 1
}

func (e *Engine) luaDestroy(L *lua.LState) int {
	e.cmd.DestroyParticle(L.CheckInt(1), L.CheckInt(2))
	return 0
}

func (e *Engine) luaIgnite(L *lua.LState) int {
	e.cmd.IgniteParticle(L.CheckInt(1), L.CheckInt(2))
	return 0
}

func (e *Engine) luaHeat(L *lua.LState) int {
	ok := e.cmd.HeatParticle(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3))
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaSize(L *lua.LState) int {
	sz := e.cmd.Size()
	L.Push(lua.LNumber(sz.W))
	L.Push(lua.LNumber(sz.H))
	return 2
}
