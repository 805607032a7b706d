package samplestores

import (
	"bufio"
	"encoding/json"
	"io/ioutil"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/qvantel/synapse/api/types"
)

// FileAdapter is a sample store implementation that uses the filesystem. Its main purpose is to facilitate
// testing, given its low performance it is strongly discouraged for production use
type FileAdapter struct {
	Path string
}

// NewFileAdapter returns an initialized file sample store object
func NewFileAdapter(conf map[string]interface{}) (*FileAdapter, error) {
	return &FileAdapter{Path: conf["Path"].(string)}, nil
}

// AddSample creates a new file with the JSON representation of the sample in the subdirectory that corresponds to the
// given set
func (fa FileAdapter) AddSample(name string, s Sample) error {
	dir := prefix + cleanDir(name)
	set := fa.Path + "/" + dir
	if _, err := os.Stat(set); os.IsNotExist(err) {
		err = fa.AddSet(name, s, 90)
		if err != nil {
			return err
		}
	}
	f, err := os.Create(fa.Path + "/" + dir + "/" + s.ID())
	if err != nil {
		return err
	}
	defer f.Close()
	jSample, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = f.WriteString(string(jSample))
	if err != nil {
		return err
	}
	f.Sync()
	ts := time.Unix(s.TimeStamp, 0)
	os.Chtimes(fa.Path+"/"+dir+"/"+s.ID(), ts, ts)
	return nil
}

// AddSet creates a directory to hold a sample set
func (fa FileAdapter) AddSet(name string, sample Sample, retentionDays int) error {
	dir := prefix + cleanDir(name)
	err := os.Mkdir(fa.Path+"/"+dir, 0755)
	return err
}

// DeleteSet removes the subdirectory used to store a set
func (fa FileAdapter) DeleteSet(name string) error {
	dir := prefix + cleanDir(name)
	return os.RemoveAll(fa.Path + "/" + dir)
}

// Exists returns true if a directory is present for the specified set, false if not or in case of error
func (fa FileAdapter) Exists(name string) (bool, error) {
	dir := prefix + cleanDir(name)
	set := fa.Path + "/" + dir
	_, err := os.Stat(set)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetCount retrieves the number of samples recorded for the given set (labels are ignored in this adapter for speed)
// (returns 0 if the set doesn't exist)
func (fa FileAdapter) GetCount(name string, labels map[string]string) (int, error) {
	dir := prefix + cleanDir(name)
	files, err := ioutil.ReadDir(fa.Path + "/" + dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// GetLatest returns the most recent sample of the set by looking for the most recent file in its subdir
func (fa FileAdapter) GetLatest(name string, labels map[string]string) (Sample, error) {
	samples, err := fa.GetLastN(name, labels, 1)
	if err != nil {
		return Sample{}, err
	}
	return samples[0], nil
}

// GetLastN returns the last n samples for the given set
func (fa FileAdapter) GetLastN(name string, labels map[string]string, n int) ([]Sample, error) {
	dir := prefix + cleanDir(name)

	files, err := ioutil.ReadDir(fa.Path + "/" + dir)
	if err != nil {
		return nil, err
	}
	if len(files) < n {
		n = len(files)
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[j].ModTime().Before(files[i].ModTime())
	})

	var samples []Sample
	for _, file := range files[:n] {
		dat, err := ioutil.ReadFile(fa.Path + "/" + dir + "/" + file.Name())
		if err != nil {
			return nil, err
		}
		var s Sample
		err = json.Unmarshal(dat, &s)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	return samples, nil
}

// ListSets returns a list of all the available sample sets in the configured directory
func (fa FileAdapter) ListSets() ([]types.BriefSet, error) {
	files, err := ioutil.ReadDir(fa.Path)
	if err != nil {
		return nil, err
	}
	var sets []types.BriefSet
	for _, file := range files {
		if !file.IsDir() || file.Name()[:len(prefix)] != prefix {
			continue
		}
		name := file.Name()[len(prefix):]
		count, err := fa.GetCount(name, nil)
		if err != nil {
			return nil, err
		}
		sets = append(sets, types.BriefSet{
			Name:  name,
			Count: count,
		})
	}

	return sets, nil
}

// LoadTestSet loads a set of samples from a single file for testing (not part of the standard SampleStore interface)
func (fa FileAdapter) LoadTestSet(name string) ([]Sample, error) {
	file, err := os.Open(fa.Path + "/" + name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	t := int64(777808800)
	var samples []Sample
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		values := strings.Split(scanner.Text(), " ")
		vmap := map[string]float64{}
		for i, rValue := range values {
			value, err := strconv.ParseFloat(rValue, 64)
			if err != nil {
				return nil, err
			}
			vmap["value-"+strconv.Itoa(i)] = value
		}
		samples = append(samples, Sample{Values: vmap, TimeStamp: t})
		t++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

func cleanDir(name string) string {
	res := strings.ToLower(name)
	return strings.ReplaceAll(res, ":", "_")
}
