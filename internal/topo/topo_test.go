package topo

import (
	"testing"

	"github.com/qvantel/synapse/internal/nnmath"
)

// buildChain returns a network with an input (0), two internal neurons (1, 2) and an output (3)
// wired 0 -> 1 -> 2 -> 3 plus a shortcut 1 -> 3
func buildChain() *Network {
	net := New()
	net.AddNeuron(Input, nnmath.Identity{})
	net.AddNeuron(Internal, nnmath.Identity{})
	net.AddNeuron(Internal, nnmath.Identity{})
	net.AddNeuron(Output, nnmath.Identity{})
	net.SetSynapse(1, 0, 0.5)
	net.SetSynapse(2, 1, 0.4)
	net.SetSynapse(3, 2, 0.3)
	net.SetSynapse(3, 1, 0.2)
	return net
}

func TestRemoveNeuron(t *testing.T) {
	net := buildChain()
	n1, err := net.GetNeuron(1)
	if err != nil {
		t.Fatalf("Failed to resolve a live neuron (%s)", err.Error())
	}
	net.RemoveNeuron(n1)

	if net.Size() != 3 {
		t.Errorf("Expected 3 live neurons after the removal, got %d", net.Size())
	}
	if net.SlotCount() != 4 {
		t.Errorf("Expected the slot range to keep its width, got %d", net.SlotCount())
	}
	if _, err = net.GetNeuron(1); err == nil {
		t.Error("Resolving a tombstoned slot should fail")
	}
	// Both synapses out of the removed neuron have to go with it
	n2, _ := net.GetNeuron(2)
	if n2.DendriteCount() != 0 {
		t.Error("Synapses sourced from a removed neuron should be deleted")
	}
	n3, _ := net.GetNeuron(3)
	if n3.DendriteCount() != 1 || n3.Dendrite(2) == nil {
		t.Error("Synapses from surviving neurons should be left alone")
	}
}

func TestSetNeuronReplace(t *testing.T) {
	net := buildChain()
	net.SetNeuron(1, Internal, nnmath.Tanh{})

	if net.Size() != 4 {
		t.Errorf("Replacing a neuron shouldn't change the size, got %d", net.Size())
	}
	n1, err := net.GetNeuron(1)
	if err != nil {
		t.Fatalf("Failed to resolve the replacement neuron (%s)", err.Error())
	}
	if n1.Activation().Encode() != nnmath.TanhFunc {
		t.Error("The replacement neuron didn't keep its activation function")
	}
	// Synapses targeting the old occupant are stripped, synapses out of the slot survive on their owners
	if n1.DendriteCount() != 0 {
		t.Error("Synapses into a replaced neuron should be stripped")
	}
	n3, _ := net.GetNeuron(3)
	if n3.Dendrite(1) != nil {
		t.Error("Synapses sourced from a replaced neuron should be stripped")
	}
}

func TestSetNeuronRestore(t *testing.T) {
	// Out of order restore, the way deserialization drives it
	net := New()
	net.SetNeuron(3, Output, nnmath.Identity{})
	net.SetNeuron(0, Input, nnmath.Identity{})
	net.SetNeuron(1, Input, nnmath.Identity{})
	if err := net.SetSynapse(3, 1, 0.9); err != nil {
		t.Fatalf("Failed to wire a restored synapse (%s)", err.Error())
	}

	if net.Size() != 3 || net.SlotCount() != 4 {
		t.Errorf("Unexpected shape after restore, got %d neurons over %d slots", net.Size(), net.SlotCount())
	}
	if net.InputSize() != 2 || net.OutputSize() != 1 {
		t.Errorf("Unexpected layer sizes after restore, got %d inputs and %d outputs", net.InputSize(), net.OutputSize())
	}
	// Layer order follows the restore order, not the index order
	first := -1
	net.ForEachInput(func(n *Neuron) {
		if first < 0 {
			first = n.Index()
		}
	})
	if first != 0 {
		t.Errorf("Expected the first registered input at index 0, got %d", first)
	}
}

func TestReindex(t *testing.T) {
	net := buildChain()
	n1, _ := net.GetNeuron(1)
	net.RemoveNeuron(n1)
	net.Reindex()

	if net.Size() != 3 || net.SlotCount() != 3 {
		t.Errorf("Expected a dense 3 slot arena, got %d neurons over %d slots", net.Size(), net.SlotCount())
	}
	// 0 stays, 2 -> 1, 3 -> 2 and the 3 <- 2 synapse has to follow
	n, err := net.GetNeuron(2)
	if err != nil {
		t.Fatalf("Failed to resolve a reindexed neuron (%s)", err.Error())
	}
	if n.Role() != Output {
		t.Error("Reindexing didn't preserve the relative neuron order")
	}
	d := n.Dendrite(1)
	if d == nil || d.Weight != 0.3 {
		t.Error("Reindexing didn't remap the synapse sources")
	}
	if net.OutputSize() != 1 {
		t.Errorf("Expected 1 output after reindexing, got %d", net.OutputSize())
	}
}

func TestMinimize(t *testing.T) {
	net := buildChain()
	net.SetSynapse(3, 0, 0.9)
	// Cutting 1 off from the input strands the whole 1 -> 2 chain
	net.SetSynapse(1, 0, 0)
	net.Minimize()

	if net.Size() != 2 || net.SlotCount() != 2 {
		t.Errorf("Expected minimization to leave 2 neurons, got %d over %d slots", net.Size(), net.SlotCount())
	}
	if net.InputSize() != 1 || net.OutputSize() != 1 {
		t.Error("Minimization should never remove input or output neurons")
	}
	out, err := net.GetNeuron(1)
	if err != nil {
		t.Fatalf("Failed to resolve the output neuron (%s)", err.Error())
	}
	d := out.Dendrite(0)
	if out.DendriteCount() != 1 || d == nil || d.Weight != 0.9 {
		t.Error("Minimization should keep the direct input to output synapse")
	}

	// A second pass has nothing left to do
	net.Minimize()
	if net.Size() != 2 {
		t.Errorf("Minimization isn't idempotent, got %d neurons after the second pass", net.Size())
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range []Role{Internal, Input, Output} {
		parsed, err := ParseRole(role.String())
		if err != nil {
			t.Fatalf("Failed to parse valid role %s (%s)", role.String(), err.Error())
		}
		if parsed != role {
			t.Errorf("Role %s didn't round-trip", role.String())
		}
	}
	if _, err := ParseRole("hidden"); err == nil {
		t.Error("Parsing an unknown role should fail")
	}
}
