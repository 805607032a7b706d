package ml

import (
	"fmt"

	"github.com/qvantel/synapse/internal/topo"
)

// Fix is a hard fixation: the neuron at Index always evaluates to Value. The
// classic use is pinning a bias unit's activation to 1
type Fix struct {
	Index int
	Value float64
}

// NetFunc computes the network function: scalar activation per neuron, pulled
// recursively from the output layer down to the seeded inputs
type NetFunc struct {
	*Computation[float64]
	pins []Fix
}

// NewNetFunc returns the network function for a topology. Pins are re-applied
// on every evaluation, right after the cache reset
func NewNetFunc(network *topo.Network, pins ...Fix) *NetFunc {
	nf := &NetFunc{pins: pins}
	nf.Computation = NewComputation[float64](network, nf.activation)
	return nf
}

// activation is the per-neuron function: the activation of the weighted sum of
// the neuron's inputs
func (nf *NetFunc) activation(n *topo.Neuron) (float64, error) {
	var net float64
	for _, d := range n.Dendrites() {
		v, err := nf.Fx(d.Source)
		if err != nil {
			return 0, err
		}
		net += d.Weight * v
	}
	return n.Activate(net), nil
}

// Evaluate runs one forward pass: seeds the input layer from the given vector
// (in registration order) and returns the output layer values (same order).
// Evaluating twice on the same input yields identical results, no state leaks
// across calls
func (nf *NetFunc) Evaluate(inputs []float64) ([]float64, error) {
	network := nf.Network()
	if len(inputs) != network.InputSize() {
		return nil, topo.RangeError(
			fmt.Sprintf("ml: expected %d inputs, got %d", network.InputSize(), len(inputs)))
	}

	nf.Reset()
	var err error
	for _, pin := range nf.pins {
		if err = nf.ConstFx(pin.Index, pin.Value); err != nil {
			return nil, err
		}
	}

	i := 0
	network.ForEachInput(func(n *topo.Neuron) {
		if err == nil {
			err = nf.ConstFx(n.Index(), inputs[i])
		}
		i++
	})
	if err != nil {
		return nil, err
	}

	outputs := make([]float64, 0, network.OutputSize())
	network.ForEachOutput(func(n *topo.Neuron) {
		if err != nil {
			return
		}
		var v float64
		v, err = nf.Fx(n.Index())
		outputs = append(outputs, v)
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}
