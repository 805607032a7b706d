package ml

import (
	"fmt"

	"github.com/qvantel/synapse/internal/topo"
)

// ForwardResult is what the forward phase keeps per neuron: the weighted input
// sum and its activation. The sum is needed again by the backward phase to
// evaluate the activation derivative
type ForwardResult struct {
	Net float64
	Phi float64
}

// forwardPass computes activations like NetFunc but retains the pre-activation
// sums alongside
type forwardPass struct {
	*Computation[ForwardResult]
	fixes []Fix
}

func newForwardPass(network *topo.Network, fixes []Fix) *forwardPass {
	fw := &forwardPass{fixes: fixes}
	fw.Computation = NewComputation[ForwardResult](network, fw.f)
	return fw
}

func (fw *forwardPass) f(n *topo.Neuron) (ForwardResult, error) {
	var res ForwardResult
	for _, d := range n.Dendrites() {
		src, err := fw.Fx(d.Source)
		if err != nil {
			return ForwardResult{}, err
		}
		res.Net += d.Weight * src.Phi
	}
	res.Phi = n.Activate(res.Net)
	return res, nil
}

// run executes the forward phase for one input vector and returns the produced
// output layer activations
func (fw *forwardPass) run(inputs []float64) ([]float64, error) {
	network := fw.Network()
	if len(inputs) != network.InputSize() {
		return nil, topo.RangeError(
			fmt.Sprintf("ml: expected %d inputs, got %d", network.InputSize(), len(inputs)))
	}

	fw.Reset()
	var err error
	for _, fix := range fw.fixes {
		if err = fw.ConstFx(fix.Index, ForwardResult{Phi: fix.Value}); err != nil {
			return nil, err
		}
	}
	i := 0
	network.ForEachInput(func(n *topo.Neuron) {
		if err == nil {
			err = fw.ConstFx(n.Index(), ForwardResult{Phi: inputs[i]})
		}
		i++
	})
	if err != nil {
		return nil, err
	}

	outputs := make([]float64, 0, network.OutputSize())
	network.ForEachOutput(func(n *topo.Neuron) {
		if err != nil {
			return
		}
		var res ForwardResult
		res, err = fw.Fx(n.Index())
		outputs = append(outputs, res.Phi)
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

// fwdEdge points at a synapse from the source neuron's perspective: the neuron
// that consumes the source's activation and the dendrite that carries it
type fwdEdge struct {
	dst  int
	dend *topo.Dendrite
}

// forwardMap lists, per neuron, every synapse that uses the neuron as a source.
// Built once per Backpropagation instance; the dendrite pointers stay valid as
// long as the topology isn't structurally edited, which is already a rebuild
// condition for the evaluators themselves
type forwardMap [][]fwdEdge

func newForwardMap(network *topo.Network) forwardMap {
	fmap := make(forwardMap, network.SlotCount())
	network.ForEachNeuron(func(n *topo.Neuron) {
		dends := n.Dendrites()
		for i := range dends {
			src := dends[i].Source
			fmap[src] = append(fmap[src], fwdEdge{dst: n.Index(), dend: &dends[i]})
		}
	})
	return fmap
}

// backwardPass computes the delta (backward propagated error) per neuron
type backwardPass struct {
	*Computation[float64]
	fmap    forwardMap
	forward *forwardPass
	fixes   []Fix
}

func newBackwardPass(network *topo.Network, fmap forwardMap, forward *forwardPass, fixes []Fix) *backwardPass {
	bw := &backwardPass{fmap: fmap, forward: forward, fixes: fixes}
	bw.Computation = NewComputation[float64](network, bw.f)
	return bw
}

// f computes the delta of a non-output neuron from the deltas of the neurons it
// feeds. Output neurons are seeded in run, reaching one through the generic
// recursive path means the topology or the seeding is broken
func (bw *backwardPass) f(n *topo.Neuron) (float64, error) {
	if n.Role() == topo.Output {
		return 0, topo.LogicError("ml: unexpected output layer neuron during error propagation")
	}

	var delta float64
	for _, edge := range bw.fmap[n.Index()] {
		d, err := bw.Fx(edge.dst)
		if err != nil {
			return 0, err
		}
		delta += d * edge.dend.Weight
	}
	res, err := bw.forward.Cached(n.Index())
	if err != nil {
		return 0, err
	}
	return delta * n.Activation().Derivative(res.Net), nil
}

// run executes the backward phase for one error vector (produced minus target,
// output layer registration order). Seeding the outputs and then forcing the
// computation of every input drives delta through the whole reachable graph;
// the input deltas themselves are never used
func (bw *backwardPass) run(errs []float64) error {
	network := bw.Network()

	bw.Reset()
	var err error
	for _, fix := range bw.fixes {
		// A pinned unit has no trainable inputs, its delta is 0
		if err = bw.ConstFx(fix.Index, 0); err != nil {
			return err
		}
	}
	i := 0
	network.ForEachOutput(func(n *topo.Neuron) {
		if err != nil {
			return
		}
		var res ForwardResult
		res, err = bw.forward.Cached(n.Index())
		if err != nil {
			return
		}
		err = bw.ConstFx(n.Index(), errs[i]*n.Activation().Derivative(res.Net))
		i++
	})
	if err != nil {
		return err
	}
	network.ForEachInput(func(n *topo.Neuron) {
		if err == nil {
			_, err = bw.Fx(n.Index())
		}
	})
	return err
}

// slot is one sample's independent forward/backward evaluator pair. Batch
// training runs every sample in its own slot so the cached results don't
// interfere, then applies all the updates together
type slot struct {
	fw *forwardPass
	bw *backwardPass
}

func newSlot(network *topo.Network, fmap forwardMap, fixes []Fix) *slot {
	fw := newForwardPass(network, fixes)
	return &slot{fw: fw, bw: newBackwardPass(network, fmap, fw, fixes)}
}

// Sample is one training pattern
type Sample struct {
	Input  []float64
	Target []float64
}

// Backpropagation trains a network's synapse weights by backward propagation of
// error. Supports online/stochastic training (update after every pattern) and
// batch training (averaged update after a set of patterns). Rebuild the
// instance whenever the neuron set or the synapse structure changes
type Backpropagation struct {
	network *topo.Network
	fmap    forwardMap
	fixes   []Fix
	slots   []*slot
}

// NewBackpropagation returns a trainer for the network. The optional fixes pin
// neuron activations hard (e.g. bias = 1); their deltas are pinned to 0 so the
// update step never touches synapses through them
func NewBackpropagation(network *topo.Network, fixes ...Fix) *Backpropagation {
	return &Backpropagation{
		network: network,
		fmap:    newForwardMap(network),
		fixes:   fixes,
	}
}

// assertSlots makes sure at least n computation slots exist. Slots are kept
// across calls so repeated batches of the same size don't reallocate
func (bp *Backpropagation) assertSlots(n int) {
	for len(bp.slots) < n {
		bp.slots = append(bp.slots, newSlot(bp.network, bp.fmap, bp.fixes))
	}
}

// compute runs the two phases for one pattern in the given slot and returns the
// squared norm of the output error
func (bp *Backpropagation) compute(input, target []float64, s *slot) (float64, error) {
	produced, err := s.fw.run(input)
	if err != nil {
		return 0, err
	}
	if len(target) != len(produced) {
		return 0, topo.LogicError(
			fmt.Sprintf("ml: expected %d target values, got %d", len(produced), len(target)))
	}

	var errNorm2 float64
	errs := make([]float64, len(produced))
	for i, out := range produced {
		e := out - target[i]
		errs[i] = e
		errNorm2 += e * e
	}
	if err := s.bw.run(errs); err != nil {
		return 0, err
	}
	return errNorm2, nil
}

// update applies one slot's results to the weights: for every synapse,
// w -= rate * delta(destination) * phi(source)
func (bp *Backpropagation) update(rate float64, s *slot) error {
	var err error
	bp.network.ForEachNeuron(func(n *topo.Neuron) {
		if err != nil {
			return
		}
		var delta float64
		delta, err = s.bw.Cached(n.Index())
		if err != nil {
			return
		}
		dends := n.Dendrites()
		for i := range dends {
			var src ForwardResult
			src, err = s.fw.Cached(dends[i].Source)
			if err != nil {
				return
			}
			dends[i].Weight -= rate * delta * src.Phi
		}
	})
	return err
}

// Online runs backpropagation on a single pattern. The criterion maps the
// squared error norm to a learning rate; a zero rate skips the weight update,
// which is how the criterion expresses both adaptive learning and the stop
// condition. Returns the squared error norm
func (bp *Backpropagation) Online(input, target []float64, criterion Criterion) (float64, error) {
	bp.assertSlots(1)

	errNorm2, err := bp.compute(input, target, bp.slots[0])
	if err != nil {
		return 0, err
	}
	if rate := criterion.Rate(errNorm2); rate != 0 {
		if err := bp.update(rate, bp.slots[0]); err != nil {
			return 0, err
		}
	}
	return errNorm2, nil
}

// Batch runs backpropagation on a training set. Every sample gets its own slot,
// the criterion is consulted once with the average squared error norm and its
// rate is divided by the set size before being applied per sample, which is
// equivalent to averaging the gradients before stepping. Returns the average
// squared error norm
func (bp *Backpropagation) Batch(samples []Sample, criterion Criterion) (float64, error) {
	if len(samples) == 0 {
		return 0, topo.LogicError("ml: empty training set")
	}
	bp.assertSlots(len(samples))

	var avg float64
	for i, sample := range samples {
		errNorm2, err := bp.compute(sample.Input, sample.Target, bp.slots[i])
		if err != nil {
			return 0, err
		}
		avg += errNorm2
	}
	avg /= float64(len(samples))

	if rate := criterion.Rate(avg); rate != 0 {
		perSample := rate / float64(len(samples))
		for i := range samples {
			if err := bp.update(perSample, bp.slots[i]); err != nil {
				return 0, err
			}
		}
	}
	return avg, nil
}
