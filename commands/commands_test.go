package commands

import (
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KashifMalik777/ml-ids/pipeline"
	"github.com/KashifMalik777/ml-ids/pkg/model"
	"github.com/KashifMalik777/ml-ids/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flowCSV builds a small separable capture: short benign flows and
// long DoS flows
func flowCSV() string {
	var b strings.Builder
	b.WriteString("Flow Duration, Total Fwd Packets, Flow Bytes/s, Label\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%d,%d,%d,BENIGN\n", 10+i, 2+i%3, 100+i)
	}
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%d,%d,%d,DoS Hulk\n", 5000+i, 40+i%5, 90000+i)
	}
	return b.String()
}

func TestPrepareThenTrain(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "flows.csv")
	require.Nil(t, ioutil.WriteFile(input, []byte(flowCSV()), 0644))
	output := filepath.Join(dir, "dataset.parquet")

	res := resources.InitTestResources(t, []string{input}, output)
	require.Nil(t, runPrepare(res))

	modelPath := filepath.Join(dir, "model.json")
	require.Nil(t, runTrain(res, output, modelPath))

	m, err := model.Load(modelPath)
	require.Nil(t, err)
	assert.Equal(t, []string{"flow_duration", "total_fwd_packets", "flow_bytes_s"}, m.Features)
	assert.NotEmpty(t, m.Dataset)
	assert.Equal(t, "v0.0.0+testing", m.Version)
}

func TestPrepareWithoutInputs(t *testing.T) {
	res := resources.InitTestResources(t, nil, filepath.Join(t.TempDir(), "dataset.parquet"))
	err := runPrepare(res)
	assert.True(t, errors.Is(err, pipeline.ErrEmptyInput))
}

func TestTrainMissingDataset(t *testing.T) {
	dir := t.TempDir()
	res := resources.InitTestResources(t, nil, filepath.Join(dir, "dataset.parquet"))
	err := runTrain(res, filepath.Join(dir, "nope.parquet"), filepath.Join(dir, "model.json"))
	assert.NotNil(t, err)
}
