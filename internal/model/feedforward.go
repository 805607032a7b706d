// Package model provides convenience builders for common network shapes on top
// of the raw topology layer
package model

import (
	"github.com/qvantel/synapse/internal/ml"
	"github.com/qvantel/synapse/internal/nnmath"
	"github.com/qvantel/synapse/internal/topo"
)

// Feature bits for the feed-forward builder
const (
	None        = 0x0
	Bias        = 0x1 // shared bias unit wired into every non-input neuron
	LateralPrev = 0x2 // synapses to previous neurons within the same layer
	Lateral     = LateralPrev
	Default     = None
)

// WeightInit produces initial synapse weights, nnmath.Uniform is the usual pick
type WeightInit interface {
	Next() float64
}

// FeedForward is an N-layer feed-forward network. The topology is acyclic,
// lateral synapses only connect to earlier neurons within a layer
type FeedForward struct {
	features  int
	network   *topo.Network
	biasIndex int
}

// NewFeedForward builds an N-layer feed-forward network with the given neurons
// per layer, activation function and weight initializer. At least two layers
// (input and output) are required
func NewFeedForward(layers []int, act nnmath.Activation, winit WeightInit, features int) (*FeedForward, error) {
	if len(layers) < 2 {
		return nil, topo.LogicError("model: invalid topology: not enough layers")
	}
	ff := &FeedForward{features: features, network: topo.New(), biasIndex: -1}

	if features&Bias != 0 {
		ff.biasIndex = ff.network.AddNeuron(topo.Internal, nnmath.Constant{V: 1}).Index()
	}

	prev := make([]int, 0, layers[0])
	for i := 0; i < layers[0]; i++ {
		prev = append(prev, ff.network.AddNeuron(topo.Input, act).Index())
	}

	for li := 1; li < len(layers); li++ {
		role := topo.Internal
		if li == len(layers)-1 {
			role = topo.Output
		}
		layer := make([]int, 0, layers[li])
		for j := 0; j < layers[li]; j++ {
			n := ff.network.AddNeuron(role, act)
			if ff.biasIndex >= 0 {
				ff.network.SetSynapse(n.Index(), ff.biasIndex, winit.Next())
			}
			if features&LateralPrev != 0 {
				for _, sibling := range layer {
					ff.network.SetSynapse(n.Index(), sibling, winit.Next())
				}
			}
			for _, p := range prev {
				ff.network.SetSynapse(n.Index(), p, winit.Next())
			}
			layer = append(layer, n.Index())
		}
		prev = layer
	}
	return ff, nil
}

// Features returns the feature bits the network was built with
func (ff *FeedForward) Features() int { return ff.features }

// Network returns the underlying topology
func (ff *FeedForward) Network() *topo.Network { return ff.network }

// Fixations returns the hard fixations the network needs on its evaluators,
// currently just the bias pin when the Bias feature is on
func (ff *FeedForward) Fixations() []ml.Fix {
	if ff.biasIndex < 0 {
		return nil
	}
	return []ml.Fix{{Index: ff.biasIndex, Value: 1}}
}

// Function returns a forward evaluator for the network
func (ff *FeedForward) Function() *ml.NetFunc {
	return ml.NewNetFunc(ff.network, ff.Fixations()...)
}

// Training returns a backpropagation trainer for the network
func (ff *FeedForward) Training() *ml.Backpropagation {
	return ml.NewBackpropagation(ff.network, ff.Fixations()...)
}
