// Package ml implements the computation layer over a topology: the memoizing
// graph evaluator, the network function, backpropagation training and the
// learning-rate criteria
package ml

import (
	"github.com/qvantel/synapse/internal/topo"
)

// fixable is a cache slot whose value may be fixed. Fixation happens in three
// flavors: provisionally (the cycle guard set before recursing), finally (the
// computed result, which overrides a provisional fixation) and permanently
// (hard-set from outside, e.g. a seeded input or a pinned bias)
type fixable[R any] struct {
	val   R
	fixed bool
}

func (f *fixable[R]) set(val R, override bool) error {
	if f.fixed && !override {
		return topo.LogicError("ml: attempt to set fixed value")
	}
	f.val = val
	return nil
}

func (f *fixable[R]) fix(val R, override bool) error {
	if err := f.set(val, override); err != nil {
		return err
	}
	f.fixed = true
	return nil
}

func (f *fixable[R]) reset() {
	var zero R
	f.val = zero
	f.fixed = false
}

// NodeFunc computes the per-neuron result an evaluation is after. The forward
// pass and the backward pass plug different ones into the same Computation
type NodeFunc[R any] func(n *topo.Neuron) (R, error)

// Computation lazily evaluates a node function over a network, caching one
// result per neuron index. Before recursing into a node's dependencies the
// node's slot is provisionally fixed to the zero value, so a transitive
// re-entry (a cycle in a recurrent net) reads the provisional value instead of
// recursing forever. Slot count is frozen at construction, rebuild the
// computation after any change to the neuron set
type Computation[R any] struct {
	network *topo.Network
	f       NodeFunc[R]
	results []fixable[R]
	clean   bool
}

// NewComputation returns a computation of f over the given network
func NewComputation[R any](network *topo.Network, f NodeFunc[R]) *Computation[R] {
	return &Computation[R]{
		network: network,
		f:       f,
		results: make([]fixable[R], network.SlotCount()),
		clean:   true,
	}
}

// Network returns the network the computation runs over
func (c *Computation[R]) Network() *topo.Network { return c.network }

// CheckIndex verifies that a neuron index falls within the slot range
func (c *Computation[R]) CheckIndex(index int) error {
	if index < 0 || index >= len(c.results) {
		return topo.RangeError("ml: neuron index out of range")
	}
	return nil
}

// Reset clears all slots. Cheap when nothing was computed since the last reset
func (c *Computation[R]) Reset() {
	if c.clean {
		return
	}
	for i := range c.results {
		c.results[i].reset()
	}
	c.clean = true
}

// Cached returns the result for a neuron only if it's already fixed. It never
// triggers computation, asking for an unfixed value is a LogicError
func (c *Computation[R]) Cached(index int) (R, error) {
	var zero R
	if err := c.CheckIndex(index); err != nil {
		return zero, err
	}
	if !c.results[index].fixed {
		return zero, topo.LogicError("ml: function value not fixed for read-only access")
	}
	return c.results[index].val, nil
}

// ConstFx hard-sets and fixes a slot without invoking the node function. It's
// how inputs are seeded and constants like a bias unit's activation are pinned.
// Fixing an already fixed slot is a LogicError
func (c *Computation[R]) ConstFx(index int, val R) error {
	if err := c.CheckIndex(index); err != nil {
		return err
	}
	if err := c.results[index].fix(val, false); err != nil {
		return err
	}
	c.clean = false
	return nil
}

// Fx returns the result for a neuron, computing and caching it on first access.
// Calling it repeatedly costs nothing extra
func (c *Computation[R]) Fx(index int) (R, error) {
	var zero R
	if err := c.CheckIndex(index); err != nil {
		return zero, err
	}
	slot := &c.results[index]
	if slot.fixed {
		return slot.val, nil
	}

	// Fix in advance in case there's a cycle
	slot.fix(zero, false)
	c.clean = false

	n, err := c.network.GetNeuron(index)
	if err != nil {
		return zero, err
	}
	val, err := c.f(n)
	if err != nil {
		return zero, err
	}
	// Override the early fixation with the real result
	if err := slot.set(val, true); err != nil {
		return zero, err
	}
	return val, nil
}
