package samplestores

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
)

// Sample represents a single training pattern in a sample set
type Sample struct {
	Labels    map[string]string
	Values    map[string]float64
	TimeStamp int64
}

// ID generates a string that uniquely identifies a sample. Useful for deduplication
func (s Sample) ID() string {
	// We have to sort the labels in the map to ensure the hash is deterministic
	keys := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hash := sha256.New()
	hash.Write([]byte(strconv.FormatInt(s.TimeStamp, 10)))
	for _, key := range keys {
		hash.Write([]byte(s.Labels[key]))
	}

	raw := hash.Sum(nil)
	id := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(id, raw)

	return string(id)
}

// MarshalJSON is required for flattening the struct
func (s Sample) MarshalJSON() ([]byte, error) {
	total := make(map[string]interface{}, 1+len(s.Labels)+len(s.Values))

	total["@timestamp"] = s.TimeStamp
	for label, value := range s.Labels {
		total[label] = value
	}
	for name, value := range s.Values {
		total[name] = value
	}

	jSample, err := json.Marshal(total)
	return jSample, err
}

// UnmarshalJSON makes sure that we can recover a sample struct from a flattened representation
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	s.Labels = map[string]string{}
	s.Values = map[string]float64{}
	for key, value := range raw {
		if key == "@timestamp" {
			s.TimeStamp = int64(value.(float64))
			continue
		}
		switch v := value.(type) {
		case float64:
			s.Values[key] = v
		case string:
			s.Labels[key] = v
		}
	}
	return nil
}
