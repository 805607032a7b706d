package ml

import (
	"math"
	"testing"

	"github.com/qvantel/synapse/internal/nnmath"
	"github.com/qvantel/synapse/internal/topo"
)

// buildLinearNet wires a 2-2-1 net with a pinned bias unit and identity
// activations so the expected outputs can be computed by hand
func buildLinearNet() (*topo.Network, []Fix) {
	net := topo.New()
	bias := net.AddNeuron(topo.Internal, nnmath.Constant{V: 1})
	net.AddNeuron(topo.Input, nnmath.Identity{})
	net.AddNeuron(topo.Input, nnmath.Identity{})
	net.AddNeuron(topo.Internal, nnmath.Identity{})
	net.AddNeuron(topo.Internal, nnmath.Identity{})
	net.AddNeuron(topo.Output, nnmath.Identity{})
	net.SetSynapse(3, 0, 0.1)
	net.SetSynapse(3, 1, 0.4)
	net.SetSynapse(3, 2, 0.7)
	net.SetSynapse(4, 0, -0.1)
	net.SetSynapse(4, 1, -0.2)
	net.SetSynapse(4, 2, 0.6)
	net.SetSynapse(5, 0, 0.2)
	net.SetSynapse(5, 3, -0.3)
	net.SetSynapse(5, 4, 0.5)
	return net, []Fix{{Index: bias.Index(), Value: 1}}
}

func TestEvaluate(t *testing.T) {
	net, pins := buildLinearNet()
	nf := NewNetFunc(net, pins...)

	outputs, err := nf.Evaluate([]float64{-1, 1})
	if err != nil {
		t.Fatalf("Failed to evaluate the network function (%s)", err.Error())
	}
	// h3 = 0.1 + 0.4*(-1) + 0.7*1 = 0.4, h4 = -0.1 + (-0.2)*(-1) + 0.6*1 = 0.7
	// out = 0.2 + (-0.3)*0.4 + 0.5*0.7 = 0.43
	if len(outputs) != 1 || math.Abs(outputs[0]-0.43) > 1e-9 {
		t.Errorf("Incorrect output, expected 0.43, got %v", outputs)
	}

	// No state may leak between evaluations
	again, err := nf.Evaluate([]float64{-1, 1})
	if err != nil {
		t.Fatalf("Failed to re-evaluate the network function (%s)", err.Error())
	}
	if again[0] != outputs[0] {
		t.Errorf("Re-evaluating the same input produced a different output, %g vs %g", again[0], outputs[0])
	}

	other, err := nf.Evaluate([]float64{0, 0})
	if err != nil {
		t.Fatalf("Failed to evaluate a second input (%s)", err.Error())
	}
	// Only the bias paths contribute: 0.2 + (-0.3)*0.1 + 0.5*(-0.1) = 0.12
	if math.Abs(other[0]-0.12) > 1e-9 {
		t.Errorf("Incorrect output for the zero input, got %g", other[0])
	}
}

func TestEvaluateIdentityLayers(t *testing.T) {
	// 4 inputs, 2 internal, 3 outputs, all identity, no bias. x1 = 1*0.5 + 2*0.3 + 3*0.2 = 1.7,
	// x2 = 3 and every output = x1 + 0.5*x2 = 3.2, all checkable with exact equality
	net := topo.New()
	for i := 0; i < 4; i++ {
		net.AddNeuron(topo.Input, nnmath.Identity{})
	}
	x1 := net.AddNeuron(topo.Internal, nnmath.Identity{})
	x2 := net.AddNeuron(topo.Internal, nnmath.Identity{})
	net.SetSynapse(x1.Index(), 0, 0.5)
	net.SetSynapse(x1.Index(), 1, 0.3)
	net.SetSynapse(x1.Index(), 2, 0.2)
	net.SetSynapse(x2.Index(), 2, 1)
	for i := 0; i < 3; i++ {
		out := net.AddNeuron(topo.Output, nnmath.Identity{})
		net.SetSynapse(out.Index(), x1.Index(), 1)
		net.SetSynapse(out.Index(), x2.Index(), 0.5)
	}
	nf := NewNetFunc(net)

	inputs := []float64{1, 2, 3, 4}
	outputs, err := nf.Evaluate(inputs)
	if err != nil {
		t.Fatalf("Failed to evaluate the network function (%s)", err.Error())
	}
	if len(outputs) != 3 {
		t.Fatalf("Expected 3 outputs, got %d", len(outputs))
	}
	for i, out := range outputs {
		if out != 3.2 {
			t.Errorf("Incorrect value for output %d, expected 3.2, got %g", i, out)
		}
	}
	// The internal activations are still cached from the pull, accumulate the weighted sum in
	// the same order to stay bit-exact
	var wantX1 float64
	wantX1 += 0.5 * inputs[0]
	wantX1 += 0.3 * inputs[1]
	wantX1 += 0.2 * inputs[2]
	gotX1, err := nf.Cached(x1.Index())
	if err != nil {
		t.Fatalf("Failed to read a cached internal activation (%s)", err.Error())
	}
	if gotX1 != wantX1 {
		t.Errorf("Incorrect value for the first internal neuron, expected %g, got %g", wantX1, gotX1)
	}
	gotX2, err := nf.Cached(x2.Index())
	if err != nil {
		t.Fatalf("Failed to read a cached internal activation (%s)", err.Error())
	}
	if gotX2 != 3 {
		t.Errorf("Incorrect value for the second internal neuron, expected 3, got %g", gotX2)
	}
}

func TestEvaluateBadInput(t *testing.T) {
	net, pins := buildLinearNet()
	nf := NewNetFunc(net, pins...)

	if _, err := nf.Evaluate([]float64{1}); err == nil {
		t.Error("Evaluating with too few inputs should fail")
	}
	if _, err := nf.Evaluate([]float64{1, 2, 3}); err == nil {
		t.Error("Evaluating with too many inputs should fail")
	}
}
