package paramstores

import (
	"encoding/json"

	"github.com/qvantel/synapse/api/types"
	"github.com/qvantel/synapse/internal/logger"
)

// NeuronParams is the serialized form of one neuron
type NeuronParams struct {
	Index      int    `json:"index"`
	Role       string `json:"role"`
	Activation string `json:"activation"`
}

// SynapseParams is the serialized form of one synapse
type SynapseParams struct {
	Target int     `json:"target"`
	Source int     `json:"source"`
	Weight float64 `json:"weight"`
}

// FFNNParams holds the minimum information required to rebuild the net from scratch plus some metadata that is
// required for other parts of the system. Neurons are kept in restore order (internal first, then the input and
// output layers in registration order) so that loading them one by one reproduces the layer ordering
type FFNNParams struct {
	Accuracy     float64
	Averages     map[string]float64
	BiasIndex    int
	Criterion    string
	Deviations   map[string]float64
	Epoch        int
	ErrMargin    float64
	Features     int
	Inputs       []string
	LearningRate float64
	Neurons      []NeuronParams
	Outputs      []string
	Sigma        float64
	Synapses     []SynapseParams
}

// Brief returns a standard summarized version of the net's params (not enough to rebuild it but enough to compare it)
func (np FFNNParams) Brief() *types.BriefNet {
	return &types.BriefNet{
		Accuracy:   np.Accuracy,
		Averages:   np.Averages,
		Deviations: np.Deviations,
		ErrMargin:  np.ErrMargin,
		Inputs:     np.Inputs,
		Outputs:    np.Outputs,
		Type:       "ffnn",
	}
}

// Unmarshal is used to tell the param store how to read a NetParams object for an FFNN net
func (np *FFNNParams) Unmarshal(b []byte) error {
	return json.Unmarshal(b, np)
}

// Marshal is used to tell the param store how to write a NetParams object for an FFNN net
func (np *FFNNParams) Marshal() ([]byte, error) {
	return json.Marshal(np)
}

func (np FFNNParams) String() string {
	data, err := np.Marshal()
	if err != nil {
		logger.Error("There was an error marshalling the net params", err)
		return ""
	}
	return string(data)
}
