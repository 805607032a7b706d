package paramstores

func initTest(nps NetParamStore) (string, error) {
	id := "test-evaluate-51e1890284194a8e4bb9923994e46cf59cfdd90d-89368e1d68015693ab48ee189d0632cb5d6edfb3-ffnn"
	params := FFNNParams{
		BiasIndex:    0,
		Criterion:    "adaptive",
		Inputs:       []string{"subs", "events"},
		LearningRate: 0.25,
		Outputs:      []string{"size"},
		Sigma:        0.01,
		Neurons: []NeuronParams{
			{Index: 0, Role: "internal", Activation: "const(1)"},
			{Index: 3, Role: "internal", Activation: "identity"},
			{Index: 4, Role: "internal", Activation: "identity"},
			{Index: 1, Role: "input", Activation: "identity"},
			{Index: 2, Role: "input", Activation: "identity"},
			{Index: 5, Role: "output", Activation: "identity"},
		},
		Synapses: []SynapseParams{
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
	return id, nps.Save(id, &params)
}
