package nets

import (
	"testing"

	"github.com/qvantel/synapse/internal/config"
	"github.com/qvantel/synapse/internal/model"
	"github.com/qvantel/synapse/internal/nets/paramstores"
)

func TestID2Type(t *testing.T) {
	nType, err := ID2Type("a-set-51e18902-89368e1d-ffnn")
	if err != nil {
		t.Fatalf("Failed to extract the type from a valid ID (%s)", err.Error())
	}
	if nType != "ffnn" {
		t.Errorf("Incorrect type, expected ffnn, got %s", nType)
	}
	if _, err = ID2Type("not-an-id"); err == nil {
		t.Error("An ID with too few parts should be rejected")
	}
}

func TestRequired(t *testing.T) {
	conf := config.Config{ML: config.MLParams{Net: "ffnn"}}

	// 9 weights with the bias, 10 samples per weight
	conf.ML.Features = model.Bias
	req, err := Required(2, 1, 1, conf)
	if err != nil {
		t.Fatalf("Failed to compute the sample requirement (%s)", err.Error())
	}
	if req != 90 {
		t.Errorf("Incorrect sample requirement, expected 90, got %d", req)
	}

	conf.ML.Features = model.None
	req, _ = Required(2, 1, 1, conf)
	if req != 60 {
		t.Errorf("Incorrect sample requirement without a bias, expected 60, got %d", req)
	}

	conf.ML.Features = model.Bias | model.LateralPrev
	req, _ = Required(2, 1, 1, conf)
	if req != 100 {
		t.Errorf("Incorrect sample requirement with lateral synapses, expected 100, got %d", req)
	}

	conf.ML.Net = "cnn"
	if _, err = Required(2, 1, 1, conf); err == nil {
		t.Error("An unknown net type should be rejected")
	}
}

func TestNewNetwork(t *testing.T) {
	nps := paramstores.FileAdapter{Path: "."}
	conf := config.Config{
		ML: config.MLParams{
			ActivationFunc: "bipolar-sigmoid",
			Alpha:          0.05,
			Criterion:      config.AdaptiveCriterion,
			Features:       1,
			Net:            "ffnn",
			Sigma:          0.01,
		},
	}
	id := t.Name() + "-a-b-ffnn"

	// Without create, a missing net yields nil
	net, err := NewNetwork(id, []string{"subs"}, []string{"size"}, 1, false, nps, conf)
	if err != nil {
		t.Fatalf("Looking up a missing net shouldn't fail (%s)", err.Error())
	}
	if net != nil {
		t.Fatal("Expected no net before creation")
	}

	net, err = NewNetwork(id, []string{"subs"}, []string{"size"}, 1, true, nps, conf)
	if err != nil {
		t.Fatalf("Failed to create a net (%s)", err.Error())
	}
	if net == nil {
		t.Fatal("Expected a net after creation")
	}
	defer nps.Delete(id)

	// The params were saved, the same ID now loads without create
	net, err = NewNetwork(id, nil, nil, 0, false, nps, conf)
	if err != nil {
		t.Fatalf("Failed to load a stored net (%s)", err.Error())
	}
	if net == nil {
		t.Fatal("Expected the stored net to be found")
	}

	if _, err = NewNetwork("bad-id", nil, nil, 0, false, nps, conf); err == nil {
		t.Error("An incorrectly formatted ID should be rejected")
	}
}
