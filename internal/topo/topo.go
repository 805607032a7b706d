// Package topo holds the neural network topology: an index-addressed arena of
// neurons connected by weighted synapses, plus the input and output layer
// registrations. All structural mutation goes through the Network type, the
// evaluators in internal/ml only ever read it
package topo

import "github.com/qvantel/synapse/internal/nnmath"

// Network owns the neurons. Removal tombstones a slot instead of compacting so
// that the remaining indices stay valid; Reindex closes the gaps when asked.
// Evaluators are sized from SlotCount at construction and have to be rebuilt
// whenever the neuron set changes (weight changes are fine)
type Network struct {
	size    int
	neurons []*Neuron
	inputs  []int
	outputs []int
}

// New returns an empty network
func New() *Network {
	return &Network{}
}

// Size returns the number of live neurons
func (t *Network) Size() int { return t.size }

// SlotCount returns the number of index slots, including tombstones. It's the
// right length for any index-addressed vector built over the network
func (t *Network) SlotCount() int { return len(t.neurons) }

// InputSize returns the input layer dimension
func (t *Network) InputSize() int { return len(t.inputs) }

// OutputSize returns the output layer dimension
func (t *Network) OutputSize() int { return len(t.outputs) }

// Clear removes everything
func (t *Network) Clear() {
	t.size = 0
	t.neurons = nil
	t.inputs = nil
	t.outputs = nil
}

// ioAdd registers an input or output neuron in its layer list, in insertion order
func (t *Network) ioAdd(n *Neuron) {
	switch n.role {
	case Input:
		t.inputs = append(t.inputs, n.index)
	case Output:
		t.outputs = append(t.outputs, n.index)
	}
}

// ioRemove drops a neuron's layer registration
func (t *Network) ioRemove(n *Neuron) {
	var layer *[]int
	switch n.role {
	case Input:
		layer = &t.inputs
	case Output:
		layer = &t.outputs
	default:
		return
	}
	for i, index := range *layer {
		if index == n.index {
			*layer = append((*layer)[:i], (*layer)[i+1:]...)
			return
		}
	}
}

// synapsesRemove deletes every synapse that targets n
func (t *Network) synapsesRemove(n *Neuron) {
	t.ForEachNeuron(func(other *Neuron) {
		other.unsetDendrite(n.index)
	})
}

// AddNeuron appends a neuron with the next free index
func (t *Network) AddNeuron(role Role, act nnmath.Activation) *Neuron {
	n := &Neuron{index: len(t.neurons), role: role, act: act}
	t.neurons = append(t.neurons, n)
	t.size++
	t.ioAdd(n)
	return n
}

// SetNeuron creates or replaces the neuron at the given index, growing the slot
// range as needed. When replacing, every synapse targeting the old occupant and
// its layer registration are stripped first. Deserialization uses this since it
// may see neurons out of order
func (t *Network) SetNeuron(index int, role Role, act nnmath.Activation) *Neuron {
	for index >= len(t.neurons) {
		t.neurons = append(t.neurons, nil)
	}
	if old := t.neurons[index]; old != nil {
		t.ioRemove(old)
		t.synapsesRemove(old)
	} else {
		t.size++
	}
	n := &Neuron{index: index, role: role, act: act}
	t.neurons[index] = n
	t.ioAdd(n)
	return n
}

// GetNeuron resolves an index to a live neuron
func (t *Network) GetNeuron(index int) (*Neuron, error) {
	if index < 0 || index >= len(t.neurons) || t.neurons[index] == nil {
		return nil, RangeError("topo: invalid neuron index")
	}
	return t.neurons[index], nil
}

// RemoveNeuron deletes a neuron: every synapse targeting it goes, its layer
// registration goes and its slot is tombstoned. Other indices stay valid
func (t *Network) RemoveNeuron(n *Neuron) {
	t.ioRemove(n)
	t.synapsesRemove(n)
	t.neurons[n.index] = nil
	t.size--
}

// SetSynapse upserts the synapse from src into dst with the given weight
func (t *Network) SetSynapse(dst, src int, weight float64) error {
	if _, err := t.GetNeuron(src); err != nil {
		return err
	}
	n, err := t.GetNeuron(dst)
	if err != nil {
		return err
	}
	n.setDendrite(src, weight)
	return nil
}

// UnsetSynapse removes the synapse from src into dst if it exists
func (t *Network) UnsetSynapse(dst, src int) error {
	n, err := t.GetNeuron(dst)
	if err != nil {
		return err
	}
	n.unsetDendrite(src)
	return nil
}

// ForEachNeuron visits every live neuron in index order
func (t *Network) ForEachNeuron(fn func(*Neuron)) {
	for _, n := range t.neurons {
		if n != nil {
			fn(n)
		}
	}
}

// ForEachInput visits the input layer in registration order
func (t *Network) ForEachInput(fn func(*Neuron)) {
	for _, index := range t.inputs {
		fn(t.neurons[index])
	}
}

// ForEachOutput visits the output layer in registration order
func (t *Network) ForEachOutput(fn func(*Neuron)) {
	for _, index := range t.outputs {
		fn(t.neurons[index])
	}
}

// Reindex compacts the live neurons into a dense 0..N-1 range preserving their
// relative order and rebuilds the layer lists. All previously handed out indices
// and any evaluators built over the network are invalid afterwards
func (t *Network) Reindex() {
	neurons := make([]*Neuron, 0, t.size)
	t.inputs = nil
	t.outputs = nil
	for _, n := range t.neurons {
		if n == nil {
			continue
		}
		old := n.index
		n.index = len(neurons)
		neurons = append(neurons, n)
		t.ioAdd(n)
		if n.index != old {
			t.remapSources(old, n.index)
		}
	}
	t.neurons = neurons
}

// remapSources rewrites dendrite source references after a neuron moved index.
// Reindex only ever moves a neuron down, so the new index can't collide with a
// not-yet-visited source
func (t *Network) remapSources(old, new int) {
	for _, n := range t.neurons {
		if n == nil {
			continue
		}
		for i := range n.dendrites {
			if n.dendrites[i].Source == old {
				n.dendrites[i].Source = new
			}
		}
	}
}

// Prune removes synapses whose weight equals exact zero, they contribute nothing
// to any activation value
func (t *Network) Prune() {
	t.ForEachNeuron(func(n *Neuron) {
		n.pruneDendrites()
	})
}

// Minimize prunes, then repeatedly removes internal neurons that have lost all
// their inputs until none are left (one removal can strand another), then
// reindexes. Input and output neurons always survive so the net keeps its
// interface. Note that removing a zero-fan-in neuron only preserves behavior
// when the activation function is zero at zero argument
func (t *Network) Minimize() {
	t.Prune()
	for removed := 1; removed != 0; {
		removed = 0
		t.ForEachNeuron(func(n *Neuron) {
			if n.role == Internal && n.DendriteCount() == 0 {
				t.RemoveNeuron(n)
				removed++
			}
		})
	}
	t.Reindex()
}
