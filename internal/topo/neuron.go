package topo

import "github.com/qvantel/synapse/internal/nnmath"

// Role marks the function of a neuron within the net
type Role int

// A neuron either belongs to the input layer, the output layer or neither
const (
	Internal Role = iota
	Input
	Output
)

func (r Role) String() string {
	switch r {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "internal"
	}
}

// ParseRole is the reverse of Role.String, used when reading a serialized net
func ParseRole(s string) (Role, error) {
	switch s {
	case "input":
		return Input, nil
	case "output":
		return Output, nil
	case "internal":
		return Internal, nil
	}
	return Internal, RangeError(s + " is not a valid neuron role")
}

// Dendrite is an incoming synapse: a weighted connection from the neuron at the
// Source index to the neuron that holds the dendrite. Keeping the source as an
// index instead of a pointer sidesteps ownership cycles in recurrent nets
type Dendrite struct {
	Weight float64
	Source int
}

// Neuron is a single computation node. It's exclusively owned by the Network that
// created it, other code refers to it by index or through a transient borrow
type Neuron struct {
	index     int
	role      Role
	act       nnmath.Activation
	dendrites []Dendrite
}

// Index returns the neuron's stable index within its network
func (n *Neuron) Index() int { return n.index }

// Role returns the neuron's role
func (n *Neuron) Role() Role { return n.role }

// Activation returns the neuron's activation function
func (n *Neuron) Activation() nnmath.Activation { return n.act }

// Activate evaluates the neuron's activation function on the given input sum
func (n *Neuron) Activate(net float64) float64 { return n.act.Apply(net) }

// DendriteCount returns the number of incoming synapses
func (n *Neuron) DendriteCount() int { return len(n.dendrites) }

// Dendrites exposes the incoming synapse list. The slice is owned by the neuron:
// callers may update weights in place but must go through the network to add or
// remove synapses
func (n *Neuron) Dendrites() []Dendrite { return n.dendrites }

// Dendrite returns the incoming synapse from the given source index, nil if there is none.
// Fan-in is small in practice so a linear scan beats hashing overhead
func (n *Neuron) Dendrite(src int) *Dendrite {
	for i := range n.dendrites {
		if n.dendrites[i].Source == src {
			return &n.dendrites[i]
		}
	}
	return nil
}

// setDendrite upserts the synapse from src, there is never more than one per source
func (n *Neuron) setDendrite(src int, weight float64) {
	if d := n.Dendrite(src); d != nil {
		d.Weight = weight
		return
	}
	n.dendrites = append(n.dendrites, Dendrite{Weight: weight, Source: src})
}

// unsetDendrite removes the synapse from src if it exists
func (n *Neuron) unsetDendrite(src int) {
	for i := range n.dendrites {
		if n.dendrites[i].Source == src {
			n.dendrites = append(n.dendrites[:i], n.dendrites[i+1:]...)
			return
		}
	}
}

// pruneDendrites drops every synapse whose weight is exactly zero. Weights that are
// merely close to zero are kept, they still carry gradient
func (n *Neuron) pruneDendrites() {
	kept := n.dendrites[:0]
	for _, d := range n.dendrites {
		if d.Weight != 0 {
			kept = append(kept, d)
		}
	}
	n.dendrites = kept
}
