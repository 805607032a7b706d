// Package samples contains the logic that manages the datasets used for machine learning
package samples

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/qvantel/synapse/api/types"
	"github.com/qvantel/synapse/internal/config"
	"github.com/qvantel/synapse/internal/logger"
	"github.com/qvantel/synapse/internal/nets"
	"github.com/qvantel/synapse/internal/samples/samplestores"
)

// ProcessUpdate serves to separate the cloud event processing logic from that which is Kafka specific, that way
// allowing for training data to be ingested into the system through other channels
func ProcessUpdate(event event.Event, ss samplestores.SampleStore, tServ chan types.TrainRequest, conf config.Config) error {
	switch event.Type() {
	case "com.qvantel.synapse.samplesupdate":
		// Unmarshal
		var su types.SamplesUpdate
		err := json.Unmarshal(event.Data(), &su)
		if err != nil {
			return err
		}
		if su.Stage != "test" && su.Stage != "production" {
			return errors.New("the stage of a samples update must be test or production, got " + su.Stage + " instead")
		}
		inputs := []string{}
		for name := range su.Samples[0].Inputs {
			inputs = append(inputs, name)
		}
		sort.Strings(inputs)
		outputs := []string{}
		for name := range su.Samples[0].Outputs {
			outputs = append(outputs, name)
		}
		sort.Strings(outputs)
		// Get current count
		count, err := ss.GetCount(su.SetID, nil)
		if err != nil {
			return err
		}

		// Persist
		if su.Labels == nil {
			su.Labels = map[string]string{}
		}
		su.Labels["subject"] = event.Subject()
		su.Labels["stage"] = su.Stage
		for _, sample := range su.Samples {
			values := map[string]float64{}
			for key, value := range sample.Inputs {
				values[key] = value
			}
			for key, value := range sample.Outputs {
				values[key] = value
			}
			s := samplestores.Sample{
				Labels:    su.Labels,
				Values:    values,
				TimeStamp: sample.TimeStamp,
			}
			err = ss.AddSample(su.SetID, s)
			if err != nil {
				logger.Error("Error encountered while persisting sample to store", err)
				return err
			}
		}
		// Queue up training if enough samples are available
		req, _ := nets.Required(len(inputs), 1, conf.ML.HLayers, conf) // 1 because we'll be creating individual nets for each output
		logger.Trace(fmt.Sprintf("Got %d samples for %s, %d required for training", count+len(su.Samples), su.SetID, req))
		if count < req && count+len(su.Samples) >= req {
			if conf.Samples.StoreType == config.ElasticsearchSampleStore {
				// Pause for refresh, otherwise the samples might not be readable yet and/or the next call might see
				// the old count again
				time.Sleep(1 * time.Second)
			}
			tServ <- types.TrainRequest{
				ErrMargin: su.ErrMargin,
				Inputs:    inputs,
				Outputs:   outputs,
				Required:  req,
				SetID:     su.SetID,
			}
		}

		return nil
	default:
		logger.Warning("Received cloud event with unsupported type (" + event.Type() + ") from " + event.Source())
		return errors.New("unsupported event type")
	}
}
