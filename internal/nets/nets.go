// Package nets provides a standard interface for interacting with neural networks
package nets

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"math"
	"strings"

	"github.com/qvantel/synapse/api/types"
	"github.com/qvantel/synapse/internal/config"
	"github.com/qvantel/synapse/internal/logger"
	"github.com/qvantel/synapse/internal/model"
	"github.com/qvantel/synapse/internal/nets/paramstores"
	"github.com/qvantel/synapse/internal/samples/samplestores"
)

// Network represents the neural net implementation that is being used
type Network interface {
	// This method should feed the training patterns into the net and update its params in the net param storage when
	// it's done
	Train(samples []samplestores.Sample, maxEpoch int, errMargin, testSet float64) (float64, error)
	// This method should return the outputs of feeding the specified inputs into the net
	Evaluate(inputs map[string]float64) (map[string]float64, error)
}

// NewNetwork returns an initialized neural network of the type specified in the configuration
func NewNetwork(id string, inputs, outputs []string, hLayers int, create bool, nps paramstores.NetParamStore, conf config.Config) (Network, error) {
	nType, err := ID2Type(id)
	if err != nil {
		return nil, err
	}
	switch nType {
	case "ffnn":
		var np paramstores.FFNNParams
		found, err := nps.Load(id, &np)
		if err != nil {
			logger.Error("Error attempting to load params for net "+id+" from store", err)
			return nil, err
		}
		if found {
			logger.Debug("Net params for net " + id + " found")
			return FFNNFromParams(id, np, nps)
		}
		if create {
			logger.Debug("Net params for net " + id + " not found, creating from scratch")
			return NewFFNN(id, inputs, outputs, hLayers, nps, conf)
		}
	default:
		return nil, errors.New(nType + " is not a valid net type")
	}
	// Valid type but not found and create is false
	logger.Debug("Net params for net " + id + " not found")
	return nil, nil
}

// List encapsulates the logic required to fill in BriefNet objects from the IDs of nets in the store
func List(offset, limit int, nps paramstores.NetParamStore) ([]types.BriefNet, int, error) {
	var nets []types.BriefNet
	ids, cursor, err := nps.List(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	for _, id := range ids {
		nType, err := ID2Type(id)
		if err != nil {
			logger.Warning("Encountered incorrectly formatted key in the net param store (" + id + ")")
			continue
		}
		switch nType {
		case "ffnn":
			var np paramstores.FFNNParams
			found, err := nps.Load(id, &np)
			if err != nil {
				return nil, 0, err
			}
			if found {
				brief := np.Brief()
				brief.ID = id
				nets = append(nets, *brief)
			}
		default:
			logger.Warning("Encountered incorrectly formatted key in the net param store (" + id + ")")
			continue
		}
	}
	return nets, cursor, nil
}

// Required returns the number of patterns required to train a net with the specified topology
func Required(inputs, outputs, hLayers int, conf config.Config) (int, error) {
	switch conf.ML.Net {
	case "ffnn":
		topology := FFNNTopology(inputs, outputs, hLayers)
		w := 0
		for layer := 1; layer < len(topology); layer++ {
			w += topology[layer] * topology[layer-1]
			if conf.ML.Features&model.Bias != 0 {
				w += topology[layer]
			}
			if conf.ML.Features&model.LateralPrev != 0 {
				w += topology[layer] * (topology[layer] - 1) / 2
			}
		}
		return int(math.Ceil(float64(w) / 0.1)), nil
	default:
		return 0, errors.New(conf.ML.Net + " is not a valid net type")
	}
}

// Trainer listens for requests to train neural nets with new samples
func Trainer(c chan types.TrainRequest, conf config.Config) error {
	// Set up net param store
	nps, err := paramstores.New(conf)
	if err != nil {
		logger.Error("Failed to initialize net param store for the training service", err)
		return err
	}
	// Set up sample store
	ss, err := samplestores.New(conf)
	if err != nil {
		logger.Error("Failed to initialize sample store for the training service", err)
		return err
	}
	logger.Info("Training service initialized")
	for tr := range c {
		group := tr.SetID + "-" + hash(tr.Inputs)
		logger.Info("Training group " + group)
		// Get samples
		samples, err := ss.GetLastN(tr.SetID, nil, tr.Required)
		if err != nil {
			logger.Error("Error retrieving samples from store for set "+tr.SetID, err)
			return err
		}
		// Build and train nets (1 per output)
		for _, output := range tr.Outputs {
			id := group + "-" + hash([]string{output}) + "-" + conf.ML.Net
			net, err := NewNetwork(id, tr.Inputs, []string{output}, conf.ML.HLayers, true, nps, conf)
			if err != nil {
				logger.Error("Error creating net from "+tr.SetID+" for "+output, err)
				return err
			}
			_, err = net.Train(samples, conf.ML.MaxEpoch, tr.ErrMargin, conf.ML.TestSet)
			if err != nil {
				logger.Error("Error training net from "+tr.SetID+" for "+output, err)
				continue // We can't kill the whole service every time training fails
			}
		}
		logger.Info("Training for group " + group + " completed")
	}
	return nil
}

// ID2Type takes a string and attempts to extract a net ID from it, when it comes to errors there can be false negatives
// but not false positives (no error doesn't necessarily mean it's a good ID)
func ID2Type(id string) (string, error) {
	parts := strings.Split(id, "-")
	if len(parts) < 4 {
		return "", errors.New("Incorrectly formatted net ID")
	}
	return parts[len(parts)-1], nil
}

// hash takes a list of SORTED strings and returns its hash
func hash(keys []string) string {
	hash := sha1.New()
	for _, key := range keys {
		hash.Write([]byte(key))
	}
	raw := hash.Sum(nil)
	res := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(res, raw)

	return string(res)
}
