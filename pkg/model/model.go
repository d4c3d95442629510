package model

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//ErrMissingFeature is returned when a prediction request lacks a feature
//the model was trained on
var ErrMissingFeature = errors.New("missing feature")

type (
	//Model is a trained classifier together with the scaling it expects
	Model struct {
		Features  []string  `json:"features"`
		Scaler    Scaler    `json:"scaler"`
		Logistic  Logistic  `json:"logistic"`
		Threshold float64   `json:"threshold"`
		TrainedAt time.Time `json:"trained_at"`
		Version   string    `json:"version"`
		// Dataset is the run id of the prepared dataset the model was fit on
		Dataset string `json:"dataset,omitempty"`
	}

	//Options bundles the settings of a training run
	Options struct {
		TestSize  float64
		Seed      int64
		Threshold float64
		Train     TrainOptions
	}

	//Result is the outcome of a training run
	Result struct {
		Model      *Model
		TrainRows  int
		TestRows   int
		Evaluation Evaluation
	}
)

//Train splits the dataset, fits the scaler and the classifier on the
//training rows and evaluates on the held out rows
func Train(ds *Dataset, opts Options) (*Result, error) {
	benign, attack := ds.ClassCounts()
	if benign == 0 || attack == 0 {
		return nil, ErrSingleClass
	}

	trainIdx, testIdx := StratifiedSplit(ds.Y, opts.TestSize, opts.Seed)
	train := ds.Subset(trainIdx)
	test := ds.Subset(testIdx)

	scaler := FitScaler(train.X)
	logistic := TrainLogistic(scaler.TransformAll(train.X), train.Y, opts.Train)

	m := &Model{
		Features:  ds.Features,
		Scaler:    scaler,
		Logistic:  logistic,
		Threshold: opts.Threshold,
		TrainedAt: time.Now().UTC(),
	}

	return &Result{
		Model:      m,
		TrainRows:  len(trainIdx),
		TestRows:   len(testIdx),
		Evaluation: Evaluate(m, test),
	}, nil
}

//Probability returns the attack probability of an unscaled feature row
func (m *Model) Probability(row []float64) float64 {
	return m.Logistic.Probability(m.Scaler.Transform(row))
}

//Predict classifies an unscaled feature row, returning 1 for an attack
func (m *Model) Predict(row []float64) (int, float64) {
	p := m.Probability(row)
	if p >= m.Threshold {
		return 1, p
	}
	return 0, p
}

//Row orders named feature values as the model expects them
func (m *Model) Row(values map[string]float64) ([]float64, error) {
	row := make([]float64, len(m.Features))
	for j, name := range m.Features {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		row[j] = v
	}
	return row, nil
}

func (m *Model) validate() error {
	n := len(m.Features)
	if n == 0 {
		return errors.New("model has no features")
	}
	if len(m.Scaler.Mean) != n || len(m.Scaler.Scale) != n || len(m.Logistic.Weights) != n {
		return fmt.Errorf("model parameters do not match its %d features", n)
	}
	return nil
}

//Save writes the model as JSON, replacing any existing file at path
func Save(path string, m *Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

//Load reads a model written by Save
func Load(path string) (*Model, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Model{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
