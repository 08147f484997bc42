package hooking_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/hooking"
)

type countingHook struct {
	positions []string
}

func (h *countingHook) Func(ctx hooking.HookCtx) {
	h.positions = append(h.positions, ctx.Pos.Name)
}

var _ = Describe("HookableBase", func() {
	var (
		base *hooking.HookableBase
		pos  *hooking.HookPos
	)

	BeforeEach(func() {
		base = hooking.NewHookableBase()
		pos = &hooking.HookPos{Name: "Step"}
	})

	It("should invoke hooks in registration order", func() {
		order := []string{}
		base.AcceptHook(hooking.HookFunc(func(hooking.HookCtx) {
			order = append(order, "first")
		}))
		base.AcceptHook(hooking.HookFunc(func(hooking.HookCtx) {
			order = append(order, "second")
		}))

		base.InvokeHook(hooking.HookCtx{Pos: pos})

		Expect(order).To(Equal([]string{"first", "second"}))
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should pass the context through", func() {
		hook := &countingHook{}
		base.AcceptHook(hook)

		base.InvokeHook(hooking.HookCtx{Pos: pos, Item: 42})
		base.InvokeHook(hooking.HookCtx{Pos: pos})

		Expect(hook.positions).To(Equal([]string{"Step", "Step"}))
		Expect(base.Hooks()).To(ConsistOf(hook))
	})

	It("should panic when the same hook is registered twice", func() {
		hook := &countingHook{}
		base.AcceptHook(hook)

		Expect(func() { base.AcceptHook(hook) }).To(Panic())
	})
})
