package segmentation

import "github.com/sarchlab/memsim/hooking"

// DefaultMemorySize is the size of the address space when none is given.
const DefaultMemorySize = 100

// Builder can build allocators.
type Builder struct {
	memorySize uint64
	hooks      []hooking.Hook
}

// MakeBuilder creates a builder with the default memory size.
func MakeBuilder() Builder {
	return Builder{
		memorySize: DefaultMemorySize,
	}
}

// WithMemorySize sets the size of the address space.
func (b Builder) WithMemorySize(size uint64) Builder {
	b.memorySize = size
	return b
}

// WithHook registers a hook on every allocator built.
func (b Builder) WithHook(h hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), h)
	return b
}

// Build creates an allocator whose whole address space is free.
func (b Builder) Build(name string) *Allocator {
	a := &Allocator{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		memorySize:   b.memorySize,
		free:         NewFreeList(b.memorySize),
		segments:     make(map[string]AddressRange),
	}

	for _, h := range b.hooks {
		a.AcceptHook(h)
	}

	return a
}
