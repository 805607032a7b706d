// Package samplestores contains the implementation of all the supported storage adapters for the sample sets
package samplestores

import (
	"errors"

	"github.com/qvantel/synapse/api/types"
	"github.com/qvantel/synapse/internal/config"
)

const prefix string = "synapse-"

// SampleStore is an abstraction over the storage service that will be used to store the training patterns taken from
// producers
type SampleStore interface {
	// Adds a sample to a set, should create it if it doesn't exist (calling AddSet)
	AddSample(name string, s Sample) error
	// Create a new sample set
	AddSet(name string, sample Sample, retentionDays int) error
	// Delete a sample set
	DeleteSet(name string) error
	Exists(name string) (bool, error)
	GetCount(name string, labels map[string]string) (int, error)
	// Gets the most recent sample of the set
	GetLatest(name string, labels map[string]string) (Sample, error)
	GetLastN(name string, labels map[string]string, n int) ([]Sample, error)
	// Get list of available sample sets
	ListSets() ([]types.BriefSet, error)
}

// New returns an initialized sample store of the type specified in the configuration
func New(conf config.Config) (SampleStore, error) {
	switch conf.Samples.StoreType {
	case config.FileSampleStore:
		return NewFileAdapter(conf.Samples.StoreParams)
	case config.ElasticsearchSampleStore:
		return NewElasticAdapter(conf.Samples)
	default:
		return nil, errors.New(conf.Samples.StoreType + " is not a valid sample store type")
	}
}
