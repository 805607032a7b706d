package model

import (
	"testing"

	"github.com/qvantel/synapse/internal/nnmath"
	"github.com/qvantel/synapse/internal/topo"
)

func countSynapses(net *topo.Network) int {
	count := 0
	net.ForEachNeuron(func(n *topo.Neuron) {
		count += n.DendriteCount()
	})
	return count
}

func TestNewFeedForward(t *testing.T) {
	ff, err := NewFeedForward([]int{2, 2, 1}, nnmath.BipolarSigmoid{}, nnmath.NewDefaultUniform(42), None)
	if err != nil {
		t.Fatalf("Failed to build a valid topology (%s)", err.Error())
	}
	net := ff.Network()
	if net.Size() != 5 {
		t.Errorf("Expected 5 neurons, got %d", net.Size())
	}
	if net.InputSize() != 2 || net.OutputSize() != 1 {
		t.Errorf("Unexpected layer sizes, got %d inputs and %d outputs", net.InputSize(), net.OutputSize())
	}
	if countSynapses(net) != 6 {
		t.Errorf("Expected 6 synapses for a fully connected 2-2-1 net, got %d", countSynapses(net))
	}
	if ff.Fixations() != nil {
		t.Error("A net without a bias unit shouldn't have fixations")
	}
}

func TestNewFeedForwardWithFeatures(t *testing.T) {
	ff, err := NewFeedForward([]int{2, 2, 1}, nnmath.BipolarSigmoid{}, nnmath.NewDefaultUniform(42), Bias|LateralPrev)
	if err != nil {
		t.Fatalf("Failed to build a valid topology (%s)", err.Error())
	}
	net := ff.Network()
	if ff.Features() != Bias|LateralPrev {
		t.Errorf("Expected the feature bits to be kept as given, got %#x", ff.Features())
	}
	if net.Size() != 6 {
		t.Errorf("Expected 6 neurons including the bias unit, got %d", net.Size())
	}
	// 6 forward + 3 bias + 1 lateral
	if countSynapses(net) != 10 {
		t.Errorf("Expected 10 synapses, got %d", countSynapses(net))
	}
	fixes := ff.Fixations()
	if len(fixes) != 1 || fixes[0].Value != 1 {
		t.Fatalf("Expected a single bias fixation pinned to 1, got %v", fixes)
	}
	bias, err := net.GetNeuron(fixes[0].Index)
	if err != nil {
		t.Fatalf("Failed to resolve the bias unit (%s)", err.Error())
	}
	if bias.Role() != topo.Internal || bias.DendriteCount() != 0 {
		t.Error("The bias unit should be an internal neuron without inputs")
	}
}

func TestNewFeedForwardTooFewLayers(t *testing.T) {
	if _, err := NewFeedForward([]int{3}, nnmath.BipolarSigmoid{}, nnmath.NewDefaultUniform(42), None); err == nil {
		t.Error("Building a single layer topology should fail")
	}
}

func TestEvaluators(t *testing.T) {
	ff, err := NewFeedForward([]int{4, 4, 3}, nnmath.BipolarSigmoid{}, nnmath.NewDefaultUniform(42), Bias)
	if err != nil {
		t.Fatalf("Failed to build a valid topology (%s)", err.Error())
	}
	outputs, err := ff.Function().Evaluate([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("Failed to evaluate a freshly built net (%s)", err.Error())
	}
	if len(outputs) != 3 {
		t.Errorf("Expected 3 outputs, got %d", len(outputs))
	}
	if ff.Training() == nil {
		t.Error("Expected a usable trainer")
	}
}

func TestNewPerceptron(t *testing.T) {
	p, err := NewPerceptron([]int{2, 1}, nnmath.NewDefaultUniform(42), None)
	if err != nil {
		t.Fatalf("Failed to build a valid perceptron (%s)", err.Error())
	}
	var act string
	p.Network().ForEachOutput(func(n *topo.Neuron) {
		act = n.Activation().Encode()
	})
	if act != "logistic(0,1,1)" {
		t.Errorf("Expected the perceptron to use the standard sigmoid, got %s", act)
	}
}
