package nets

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/qvantel/synapse/internal/config"
	"github.com/qvantel/synapse/internal/logger"
	"github.com/qvantel/synapse/internal/ml"
	"github.com/qvantel/synapse/internal/model"
	"github.com/qvantel/synapse/internal/nets/paramstores"
	"github.com/qvantel/synapse/internal/nnmath"
	"github.com/qvantel/synapse/internal/samples/samplestores"
	"github.com/qvantel/synapse/internal/topo"
)

// FFNN wraps a feed-forward topology together with its evaluator and trainer and keeps its serialized form in sync
// with the param store
type FFNN struct {
	ID         string `json:"-"`
	Params     paramstores.FFNNParams
	ParamStore paramstores.NetParamStore `json:"-"`
	network    *topo.Network
	function   *ml.NetFunc
	training   *ml.Backpropagation
}

// FFNNTopology returns an array of neurons per layer given the number of inputs, outputs and hidden layers
func FFNNTopology(inputs, outputs, hLayers int) []int {
	topology := make([]int, hLayers+2)
	for i := 0; i <= hLayers; i++ { // <= so that we also fill in the number of neurons for the first layer
		topology[i] = inputs
	}
	topology[hLayers+1] = outputs
	return topology
}

// NewFFNN returns a feed-forward net built from scratch with the requested inputs, outputs and hidden layers
func NewFFNN(id string, inputs, outputs []string, hLayers int, nps paramstores.NetParamStore, conf config.Config) (*FFNN, error) {
	act, err := nnmath.Parse(conf.ML.ActivationFunc)
	if err != nil {
		return nil, err
	}
	winit := nnmath.NewDefaultUniform(time.Now().UnixNano())
	ff, err := model.NewFeedForward(FFNNTopology(len(inputs), len(outputs), hLayers), act, winit, conf.ML.Features)
	if err != nil {
		return nil, err
	}

	net := FFNN{ID: id, ParamStore: nps, network: ff.Network()}
	net.Params = paramstores.FFNNParams{
		Accuracy:     -1,
		BiasIndex:    -1,
		Criterion:    conf.ML.Criterion,
		Epoch:        0,
		ErrMargin:    0,
		Features:     ff.Features(),
		Inputs:       inputs,
		LearningRate: conf.ML.Alpha,
		Outputs:      outputs,
		Sigma:        conf.ML.Sigma,
	}
	if fixes := ff.Fixations(); len(fixes) > 0 {
		net.Params.BiasIndex = fixes[0].Index
	}
	net.syncParams()
	net.function = ff.Function()
	net.training = ff.Training()

	err = nps.Save(id, &net.Params)
	if err != nil {
		logger.Error("Error attempting to save params to store", err)
		return nil, err
	}
	return &net, nil
}

// FFNNFromParams returns a feed-forward network initialized with the specified params
func FFNNFromParams(id string, np paramstores.FFNNParams, nps paramstores.NetParamStore) (*FFNN, error) {
	net := FFNN{ID: id, Params: np, ParamStore: nps, network: topo.New()}
	for _, n := range np.Neurons {
		role, err := topo.ParseRole(n.Role)
		if err != nil {
			return nil, err
		}
		act, err := nnmath.Parse(n.Activation)
		if err != nil {
			return nil, err
		}
		net.network.SetNeuron(n.Index, role, act)
	}
	for _, s := range np.Synapses {
		err := net.network.SetSynapse(s.Target, s.Source, s.Weight)
		if err != nil {
			return nil, err
		}
	}
	net.function = ml.NewNetFunc(net.network, net.fixations()...)
	net.training = ml.NewBackpropagation(net.network, net.fixations()...)
	return &net, nil
}

func (net *FFNN) fixations() []ml.Fix {
	if net.Params.BiasIndex < 0 {
		return nil
	}
	return []ml.Fix{{Index: net.Params.BiasIndex, Value: 1}}
}

// syncParams refreshes the serialized topology from the live network, it has to run before every save since training
// mutates the weights in place
func (net *FFNN) syncParams() {
	neurons := make([]paramstores.NeuronParams, 0, net.network.Size())
	net.network.ForEachNeuron(func(n *topo.Neuron) {
		if n.Role() == topo.Internal {
			neurons = append(neurons, paramstores.NeuronParams{Index: n.Index(), Role: n.Role().String(), Activation: n.Activation().Encode()})
		}
	})
	net.network.ForEachInput(func(n *topo.Neuron) {
		neurons = append(neurons, paramstores.NeuronParams{Index: n.Index(), Role: n.Role().String(), Activation: n.Activation().Encode()})
	})
	net.network.ForEachOutput(func(n *topo.Neuron) {
		neurons = append(neurons, paramstores.NeuronParams{Index: n.Index(), Role: n.Role().String(), Activation: n.Activation().Encode()})
	})
	var synapses []paramstores.SynapseParams
	net.network.ForEachNeuron(func(n *topo.Neuron) {
		for _, d := range n.Dendrites() {
			synapses = append(synapses, paramstores.SynapseParams{Target: n.Index(), Source: d.Source, Weight: d.Weight})
		}
	})
	net.Params.Neurons = neurons
	net.Params.Synapses = synapses
}

// criterion builds the learning rate criterion the net was configured with. A fresh one is needed per training run
// since criteria carry convergence state
func (net *FFNN) criterion() ml.Criterion {
	if net.Params.Criterion == config.ConstCriterion {
		return ml.NewConstRate(net.Params.Sigma, net.Params.LearningRate)
	}
	return ml.NewAdaptiveRate(net.Params.Sigma, net.Params.LearningRate, ml.DefConvMax, ml.DefConvMin, ml.DefAccel, ml.DefDamp)
}

func (net *FFNN) normalize(label string, value float64) float64 {
	avg, ok := net.Params.Averages[label]
	if !ok {
		return value
	}
	dev, ok := net.Params.Deviations[label]
	if !ok {
		return value
	}
	return (value - avg) / dev
}

func (net *FFNN) denormalize(label string, nValue float64) float64 {
	avg, ok := net.Params.Averages[label]
	if !ok {
		return nValue
	}
	dev, ok := net.Params.Deviations[label]
	if !ok {
		return nValue
	}
	return nValue*dev + avg
}

func (net *FFNN) updateNormParams(samples []samplestores.Sample, tStart, tEnd int) error {
	nTrain := float64(len(samples))
	if tStart >= 0 {
		nTrain -= float64(tEnd - tStart)
	}
	if nTrain <= 1 {
		logger.Warning("[FFNN " + net.ID + "] There are not enough patterns to update the net's normalization parameters")
		return nil // Not strictly an error because this alone would mean no normalization at worst
	}
	net.Params.Averages = map[string]float64{}
	net.Params.Deviations = map[string]float64{}
	// Calculate averages
	for label := range samples[0].Values {
		net.Params.Averages[label] = 0
		for i := 0; i < len(samples); i++ {
			// Skip the samples earmarked for testing
			if i == tStart {
				i = tEnd - 1 // -1 because i will get a +1 before the next iteration
				continue
			}
			net.Params.Averages[label] += samples[i].Values[label]
		}
	}
	for label := range net.Params.Averages {
		net.Params.Averages[label] /= nTrain
	}
	// Calculate standard deviations
	for label := range samples[0].Values {
		net.Params.Deviations[label] = 0
		for i := 0; i < len(samples); i++ {
			// Skip the samples earmarked for testing
			if i == tStart {
				i = tEnd - 1 // -1 because i will get a +1 before the next iteration
				continue
			}
			diff := samples[i].Values[label] - net.Params.Averages[label]
			net.Params.Deviations[label] += diff * diff
		}
	}
	for label := range net.Params.Deviations {
		net.Params.Deviations[label] = math.Sqrt(net.Params.Deviations[label] / (nTrain - 1))
		if net.Params.Deviations[label] == 0 {
			return errors.New("the param " + label + " never changes in the training set, normalization won't work")
		}
	}
	return nil
}

// patterns turns the non-test slice of the sample set into normalized input/target vectors in label registration order
func (net *FFNN) patterns(samples []samplestores.Sample, tStart, tEnd int) []ml.Sample {
	set := make([]ml.Sample, 0, len(samples))
	for i := 0; i < len(samples); i++ {
		// Skip the samples earmarked for testing
		if i == tStart {
			i = tEnd - 1 // -1 because i will get a +1 before the next iteration
			continue
		}
		input := make([]float64, len(net.Params.Inputs))
		for j, label := range net.Params.Inputs {
			input[j] = net.normalize(label, samples[i].Values[label])
		}
		target := make([]float64, len(net.Params.Outputs))
		for j, label := range net.Params.Outputs {
			target[j] = net.normalize(label, samples[i].Values[label])
		}
		set = append(set, ml.Sample{Input: input, Target: target})
	}
	return set
}

// Train will use the specified input/output pairs to modify the net so the behaviour of its connections is closer to
// that of the unknown relationships it's intended to mimic. Training runs in batch mode and stops early once the
// criterion considers the net converged
func (net *FFNN) Train(samples []samplestores.Sample, maxEpoch int, errMargin, testSet float64) (float64, error) {
	// Determine test set range
	tStart := -1
	tEnd := -1
	nSamples := len(samples)
	nTest := int(math.Floor(float64(nSamples) * testSet))
	logger.Debug(fmt.Sprintf("Training %s with %d patterns, %d of which will be used for testing", net.ID, nSamples, nTest))
	if testSet > 0 {
		rand.Seed(time.Now().UnixNano())
		max := nSamples - nTest
		tStart = rand.Intn(max + 1)
		tEnd = tStart + nTest
	}
	// Update normalization params (note that the values in samples won't be touched)
	err := net.updateNormParams(samples, tStart, tEnd)
	if err != nil {
		return 0, err
	}

	set := net.patterns(samples, tStart, tEnd)
	criterion := net.criterion()
	for net.Params.Epoch = 0; net.Params.Epoch < maxEpoch; net.Params.Epoch++ {
		avg, err := net.training.Batch(set, criterion)
		if err != nil {
			return 0, err
		}
		if !criterion.Updated() {
			logger.Debug(fmt.Sprintf("Training of %s converged after %d epochs (avg sq error %g)", net.ID, net.Params.Epoch, avg))
			break
		}
	}
	net.Params.Epoch = 0
	net.syncParams()
	if testSet <= 0 {
		err := net.ParamStore.Save(net.ID, &net.Params)
		return -1.0, err
	}
	errs := 0
	for i := tStart; i < tEnd; i++ {
		outputs, err := net.Evaluate(samples[i].Values)
		if err != nil {
			return 0, err
		}
		for _, label := range net.Params.Outputs {
			// Note that outputs contains denormalized values, same as samples
			if math.Abs(outputs[label]-samples[i].Values[label]) > errMargin {
				errs++
				break
			}
		}
	}
	net.Params.ErrMargin = errMargin
	net.Params.Accuracy = 1.0 - float64(errs)/float64(nTest)
	err = net.ParamStore.Save(net.ID, &net.Params)
	if err != nil {
		return 0, err
	}
	return net.Params.Accuracy, nil
}

// Evaluate will return the net's output for the given input vector
func (net *FFNN) Evaluate(inputs map[string]float64) (map[string]float64, error) {
	if len(inputs) < len(net.Params.Inputs) {
		return nil, fmt.Errorf(
			"Number of inputs must match the number of neurons in the first layer, expected %d got %d",
			len(net.Params.Inputs),
			len(inputs),
		)
	}
	vector := make([]float64, len(net.Params.Inputs))
	for i, label := range net.Params.Inputs {
		vector[i] = net.normalize(label, inputs[label])
	}

	produced, err := net.function.Evaluate(vector)
	if err != nil {
		return nil, err
	}

	outputs := map[string]float64{}
	for i, label := range net.Params.Outputs {
		outputs[label] = net.denormalize(label, produced[i])
	}
	return outputs, nil
}
