package nets

import (
	"math"
	"testing"

	"github.com/qvantel/synapse/internal/config"
	"github.com/qvantel/synapse/internal/nets/paramstores"
	"github.com/qvantel/synapse/internal/samples/samplestores"
)

func linearNetParams() paramstores.FFNNParams {
	return paramstores.FFNNParams{
		BiasIndex:    0,
		Criterion:    config.AdaptiveCriterion,
		Inputs:       []string{"subs", "events"},
		LearningRate: 0.25,
		Outputs:      []string{"size"},
		Sigma:        0.01,
		Neurons: []paramstores.NeuronParams{
			{Index: 0, Role: "internal", Activation: "const(1)"},
			{Index: 3, Role: "internal", Activation: "identity"},
			{Index: 4, Role: "internal", Activation: "identity"},
			{Index: 1, Role: "input", Activation: "identity"},
			{Index: 2, Role: "input", Activation: "identity"},
			{Index: 5, Role: "output", Activation: "identity"},
		},
		Synapses: []paramstores.SynapseParams{
			{Target: 3, Source: 0, Weight: 0.1},
			{Target: 3, Source: 1, Weight: 0.4},
			{Target: 3, Source: 2, Weight: 0.7},
			{Target: 4, Source: 0, Weight: -0.1},
			{Target: 4, Source: 1, Weight: -0.2},
			{Target: 4, Source: 2, Weight: 0.6},
			{Target: 5, Source: 0, Weight: 0.2},
			{Target: 5, Source: 3, Weight: -0.3},
			{Target: 5, Source: 4, Weight: 0.5},
		},
	}
}

func TestEvaluate(t *testing.T) {
	nps := paramstores.FileAdapter{Path: "."}
	params := linearNetParams()
	nps.Save(t.Name(), &params)
	defer nps.Delete(t.Name())

	net, err := FFNNFromParams(t.Name(), params, nps)
	if err != nil {
		t.Fatalf("Failed to rebuild the net from its params (%s)", err.Error())
	}

	out, err := net.Evaluate(map[string]float64{"subs": -1, "events": 1})
	if err != nil {
		t.Fatalf("Failed to evaluate the test scenario (%s)", err.Error())
	}

	// h3 = 0.1 + 0.4*(-1) + 0.7*1 = 0.4, h4 = -0.1 + (-0.2)*(-1) + 0.6*1 = 0.7
	// out = 0.2 + (-0.3)*0.4 + 0.5*0.7 = 0.43
	if len(out) != 1 || math.Abs(out["size"]-0.43) > 1e-9 {
		t.Errorf("Output is incorrect, expected %f got %f", 0.43, out["size"])
	}
}

func TestRoundTrip(t *testing.T) {
	nps := paramstores.FileAdapter{Path: "."}
	conf := config.Config{
		ML: config.MLParams{
			ActivationFunc: "bipolar-sigmoid",
			Alpha:          0.05,
			Criterion:      config.AdaptiveCriterion,
			Features:       1,
			Sigma:          0.01,
		},
	}
	id := t.Name() + "-a-b-ffnn"
	net, err := NewFFNN(id, []string{"subs", "events"}, []string{"size"}, 1, nps, conf)
	if err != nil {
		t.Fatalf("Failed to build a fresh net (%s)", err.Error())
	}
	defer nps.Delete(id)

	inputs := map[string]float64{"subs": 0.3, "events": -0.7}
	want, err := net.Evaluate(inputs)
	if err != nil {
		t.Fatalf("Failed to evaluate the fresh net (%s)", err.Error())
	}

	var np paramstores.FFNNParams
	found, err := nps.Load(id, &np)
	if err != nil || !found {
		t.Fatal("Failed to load the params a fresh net should have saved")
	}
	restored, err := FFNNFromParams(id, np, nps)
	if err != nil {
		t.Fatalf("Failed to rebuild the net from its params (%s)", err.Error())
	}
	got, err := restored.Evaluate(inputs)
	if err != nil {
		t.Fatalf("Failed to evaluate the restored net (%s)", err.Error())
	}
	if math.Abs(got["size"]-want["size"]) > 1e-12 {
		t.Errorf("The restored net doesn't reproduce the original's output, expected %g got %g", want["size"], got["size"])
	}
}

func TestTrain(t *testing.T) {
	nps := paramstores.FileAdapter{Path: "."}
	conf := config.Config{
		ML: config.MLParams{
			ActivationFunc: "identity",
			Alpha:          0.5,
			Criterion:      config.ConstCriterion,
			Features:       1,
			Sigma:          1e-6,
		},
	}
	id := t.Name() + "-x-y-ffnn"
	net, err := NewFFNN(id, []string{"value-0"}, []string{"value-1"}, 0, nps, conf)
	if err != nil {
		t.Fatalf("Failed to build a fresh net (%s)", err.Error())
	}
	defer nps.Delete(id)

	// value-1 = 2*value-0 + 1, an identity net with a bias can learn it exactly
	var samples []samplestores.Sample
	for i := 0; i < 10; i++ {
		samples = append(samples, samplestores.Sample{
			Values:    map[string]float64{"value-0": float64(i), "value-1": float64(2*i + 1)},
			TimeStamp: int64(777808800 + i),
		})
	}

	_, err = net.Train(samples, 1000, 0.1, 0)
	if err != nil {
		t.Fatalf("Failed to execute the training test scenario (%s)", err.Error())
	}

	out, err := net.Evaluate(map[string]float64{"value-0": 4})
	if err != nil {
		t.Fatalf("Failed to evaluate the trained net (%s)", err.Error())
	}
	if math.Abs(out["value-1"]-9) > 0.05 {
		t.Errorf("Output is incorrect, expected ~9, got %f", out["value-1"])
	}
}

func TestTrainConstantColumn(t *testing.T) {
	nps := paramstores.FileAdapter{Path: "."}
	conf := config.Config{
		ML: config.MLParams{
			ActivationFunc: "identity",
			Alpha:          0.5,
			Criterion:      config.ConstCriterion,
			Features:       1,
			Sigma:          1e-6,
		},
	}
	id := t.Name() + "-x-y-ffnn"
	net, err := NewFFNN(id, []string{"value-0"}, []string{"value-1"}, 0, nps, conf)
	if err != nil {
		t.Fatalf("Failed to build a fresh net (%s)", err.Error())
	}
	defer nps.Delete(id)

	var samples []samplestores.Sample
	for i := 0; i < 10; i++ {
		samples = append(samples, samplestores.Sample{
			Values:    map[string]float64{"value-0": float64(i), "value-1": 42},
			TimeStamp: int64(777808800 + i),
		})
	}

	if _, err = net.Train(samples, 1000, 0.1, 0); err == nil {
		t.Error("Training on a set with a constant column should fail, it can't be normalized")
	}
}
