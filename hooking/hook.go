// Package hooking lets observers follow what a simulation engine does without
// the engine knowing who is listening.
//
// The paging engine and the segment allocator are Hookables. Every state
// transition they make is announced at a HookPos, and the record describing
// the transition travels in HookCtx.Item.
package hooking

// HookPos names a point in an engine where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx is the information passed to a hook when it is invoked.
type HookCtx struct {
	// Domain is the engine raising the hook.
	Domain Hookable

	// Pos identifies the transition that happened.
	Pos *HookPos

	// Item is the record of the transition (a trace entry, a segment event).
	Item any

	// Detail holds optional auxiliary data; hook sites may leave it nil.
	Detail any
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	// Name returns the name of the domain, used by tracers to tell runs
	// apart.
	Name() string

	// AcceptHook registers a hook.
	//
	// Hooks are registered while the engine is being set up. There is no way
	// to remove a hook, so a hook that should stop reacting has to disable
	// itself.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook

	// InvokeHook triggers the registered hooks.
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts an ordinary function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase implements the bookkeeping part of Hookable. Engines embed it
// and provide Name themselves.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.hookList = make([]Hook, 0)

	return h
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); isFunc {
		return
	}

	for _, registered := range h.hookList {
		if registered == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
