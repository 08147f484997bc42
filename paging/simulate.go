package paging

import (
	"fmt"

	"github.com/sarchlab/memsim/hooking"
)

// Simulate runs the reference string through a fresh engine with frameCount
// frames and the named policy.
func Simulate(
	refs []Page,
	frameCount int,
	policyName string,
	hooks ...hooking.Hook,
) (Result, error) {
	engine, err := NewEngine(frameCount, policyName, hooks...)
	if err != nil {
		return Result{}, err
	}

	return engine.Run(refs), nil
}

// NewEngine validates the parameters and builds an engine named after its
// policy.
func NewEngine(
	frameCount int,
	policyName string,
	hooks ...hooking.Hook,
) (*Engine, error) {
	if frameCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameCount, frameCount)
	}

	policy, err := NewPolicy(policyName)
	if err != nil {
		return nil, err
	}

	b := MakeBuilder().
		WithNumFrames(frameCount).
		WithPolicy(policy)
	for _, h := range hooks {
		b = b.WithHook(h)
	}

	return b.Build(policy.Name()), nil
}

// Compare runs the reference string once per supported policy, in the order
// of PolicyNames.
func Compare(
	refs []Page,
	frameCount int,
	hooks ...hooking.Hook,
) ([]Result, error) {
	results := make([]Result, 0, len(PolicyNames()))

	for _, name := range PolicyNames() {
		res, err := Simulate(refs, frameCount, name, hooks...)
		if err != nil {
			return nil, err
		}

		results = append(results, res)
	}

	return results, nil
}
