package paging

import (
	"fmt"

	"github.com/sarchlab/memsim/hooking"
)

// DefaultNumFrames is the frame count used when none is given.
const DefaultNumFrames = 3

// Builder can build paging engines.
type Builder struct {
	numFrames int
	policy    ReplacementPolicy
	hooks     []hooking.Hook
}

// MakeBuilder creates a builder with default parameters: three frames and a
// FIFO policy.
func MakeBuilder() Builder {
	return Builder{
		numFrames: DefaultNumFrames,
	}
}

// WithNumFrames sets the capacity of the frame table.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithPolicy sets the replacement policy. The policy must not be shared with
// another engine.
func (b Builder) WithPolicy(p ReplacementPolicy) Builder {
	b.policy = p
	return b
}

// WithHook registers a hook on every engine built.
func (b Builder) WithHook(h hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), h)
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.numFrames < 0 {
		panic(fmt.Sprintf("number of frames must not be negative, got %d",
			b.numFrames))
	}
}

// Build creates an engine with an empty frame table.
func (b Builder) Build(name string) *Engine {
	b.parametersMustBeValid()

	policy := b.policy
	if policy == nil {
		policy = NewFIFOPolicy()
	}

	e := &Engine{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		policy:       policy,
		frames:       make([]Frame, b.numFrames),
		slotOf:       make(map[Page]int),
	}

	policy.Reset()

	for _, h := range b.hooks {
		e.AcceptHook(h)
	}

	return e
}
