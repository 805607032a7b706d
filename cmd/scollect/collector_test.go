package main

import (
	"testing"

	"github.com/qvantel/synapse/api/types"
)

func TestCollect(t *testing.T) {
	out := make(chan types.CategorizedSample, 10)
	fc := NewFileCollector(false, 2, out, "../../test/linear_test_data.txt", " ")
	collected := []types.CategorizedSample{}

	go fc.Collect()
	for sample := range out {
		collected = append(collected, sample)
	}
	if fc.Err() != nil {
		t.Fatalf("Failed to collect data from file (%s)", fc.Err().Error())
	}

	if len(collected) != 60 {
		t.Errorf("Expected to extract 60 samples, got: %d instead", len(collected))
	}
	if len(collected[0].Inputs) != 2 || len(collected[0].Outputs) != 1 {
		t.Errorf(
			"Expected 2 inputs and 1 output per sample, got %d and %d",
			len(collected[0].Inputs),
			len(collected[0].Outputs),
		)
	}
}
