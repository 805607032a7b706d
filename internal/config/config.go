// Package config centralizes the parsing of application configuration
package config

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
)

// Store type identifiers
const (
	FileParamStore           = "file"
	RedisParamStore          = "redis"
	FileSampleStore          = "file"
	ElasticsearchSampleStore = "elasticsearch"
)

// Criterion type identifiers
const (
	ConstCriterion    = "const"
	AdaptiveCriterion = "adaptive"
)

// Kafka holds the necessary configuration to set up the connection to a Kafka cluster
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// LoggerParams holds the necessary configuration to initialize the logger
type LoggerParams struct {
	ArtifactID  string
	Level       string
	ServiceName string
}

// MLParams holds the parameters that determine how the nets are built, trained and stored
type MLParams struct {
	ActivationFunc string
	Alpha          float64
	Criterion      string
	Features       int
	HLayers        int
	MaxEpoch       int
	Net            string
	Sigma          float64
	StoreType      string
	StoreParams    map[string]interface{}
	TestSet        float64
}

// SamplesParams holds the parameters that determine how training samples are ingested and stored
type SamplesParams struct {
	FailLimit   int
	Source      Kafka
	StoreType   string
	StoreParams map[string]interface{}
	StorePass   string
	StoreUser   string
}

// Config holds all the configuration for the app
type Config struct {
	AppVersion string
	Logger     LoggerParams
	ML         MLParams
	Samples    SamplesParams
}

// New generates a Config object populated with values from the environment
func New() (*Config, error) {
	conf := Config{}

	// Take care of logging params first in case the app has to report a config related error
	conf.AppVersion = Getenv("VERSION", "unknown")
	conf.Logger.Level = Getenv("LOG_LEVEL", "INFO")
	conf.Logger.ArtifactID = Getenv("MARATHON_APP_DOCKER_IMAGE", "qvantel/synapse:"+conf.AppVersion+"?")
	conf.Logger.ServiceName = Getenv("SERVICE_5400_NAME", Getenv("SERVICE_NAME", "synapse"))

	// ML params
	conf.ML.ActivationFunc = Getenv("ML_ACT_FUNC", "bipolar-sigmoid")
	lr, err := strconv.ParseFloat(Getenv("ML_ALPHA", "0.05"), 64)
	if err != nil {
		return &conf, err
	}
	conf.ML.Alpha = lr
	conf.ML.Criterion = Getenv("ML_CRITERION", AdaptiveCriterion)
	if conf.ML.Criterion != ConstCriterion && conf.ML.Criterion != AdaptiveCriterion {
		return &conf, errors.New(conf.ML.Criterion + " is not a valid criterion type")
	}
	conf.ML.Features, err = strconv.Atoi(Getenv("ML_FEATURES", "1")) // bias on by default
	if err != nil {
		return &conf, err
	}
	conf.ML.HLayers, err = strconv.Atoi(Getenv("ML_HLAYERS", "1"))
	if err != nil {
		return &conf, err
	}
	conf.ML.MaxEpoch, err = strconv.Atoi(Getenv("ML_MAX_EPOCH", "1000"))
	if err != nil {
		return &conf, err
	}
	conf.ML.Net = Getenv("ML_NET", "ffnn")
	if conf.ML.Net != "ffnn" {
		return &conf, errors.New(conf.ML.Net + " is not a valid net type")
	}
	sigma, err := strconv.ParseFloat(Getenv("ML_SIGMA", "0.01"), 64)
	if err != nil {
		return &conf, err
	}
	conf.ML.Sigma = sigma
	conf.ML.StoreType = Getenv("ML_STORE_TYPE", FileParamStore)
	defMLStoreParams := `{"Path": "."}`
	redis := os.Getenv("SD_REDIS")
	if redis != "" {
		defMLStoreParams = `{"URL": "` + redis + `"}`
	}
	err = json.Unmarshal([]byte(Getenv("ML_STORE_PARAMS", defMLStoreParams)), &conf.ML.StoreParams)
	if err != nil {
		return &conf, err
	}
	ts, err := strconv.ParseFloat(Getenv("ML_TEST_SET", "0.4"), 64)
	if err != nil {
		return &conf, err
	}
	if ts < 0 || ts >= 1 {
		return &conf, errors.New("test set must be between 0 (included) and 1 (not included)")
	}
	conf.ML.TestSet = ts

	// Samples params
	conf.Samples.FailLimit, err = strconv.Atoi(Getenv("SAMPLES_FAIL_LIMIT", "5"))
	if err != nil {
		return &conf, err
	}
	brokers := os.Getenv("SD_KAFKA")
	if brokers == "" {
		return &conf, errors.New("no value found for required variable SD_KAFKA")
	}
	conf.Samples.Source = Kafka{
		Brokers: strings.Split(brokers, ","),
		GroupID: Getenv("SAMPLES_KAFKA_GROUP", "synapse"),
		Topic:   Getenv("SAMPLES_KAFKA_TOPIC", "synapse-events"),
	}
	conf.Samples.StoreType = Getenv("SAMPLES_STORE_TYPE", FileSampleStore)
	defSampleStoreParams := `{"Path": "."}`
	esNodes := os.Getenv("SD_ELASTICSEARCH")
	if esNodes != "" {
		defSampleStoreParams = `{"URLs": "` + esNodes + `"}`
	}
	err = json.Unmarshal([]byte(Getenv("SAMPLES_STORE_PARAMS", defSampleStoreParams)), &conf.Samples.StoreParams)
	if err != nil {
		return &conf, err
	}
	conf.Samples.StorePass = os.Getenv("SAMPLES_STORE_PASS")
	conf.Samples.StoreUser = os.Getenv("SAMPLES_STORE_USER")

	return &conf, nil
}

// Getenv is useful for retrieving the value of an env var with a default
func Getenv(env, fallback string) string {
	value := os.Getenv(env)
	if value == "" {
		return fallback
	}
	return value
}
