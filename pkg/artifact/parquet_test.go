package artifact

import (
	"context"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *table.Table {
	labels := table.NewTextColumn("label", []string{"Benign", "DoS", "Botnet"})
	tbl, err := table.New(
		table.NewNumericColumn("flow_duration", []float64{0.1, 1e-300, math.MaxFloat64}),
		table.NewNumericColumn("flow_bytes_s", []float64{1.0 / 3.0, -2.5, 123456789.123456789}),
		labels,
	)
	require.Nil(t, err)
	return tbl
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset.parquet")
	src := sampleTable(t)

	err := Write(path, src, Metadata{RunIDKey: "run-1", VersionKey: "v1.2.3"})
	require.Nil(t, err)

	got, meta, err := Read(context.Background(), path)
	require.Nil(t, err)

	assert.Equal(t, src.Names(), got.Names())
	assert.Equal(t, src.Column("flow_duration").Floats, got.Column("flow_duration").Floats)
	assert.Equal(t, src.Column("flow_bytes_s").Floats, got.Column("flow_bytes_s").Floats)
	assert.Equal(t, table.Text, got.Column("label").Kind)
	assert.Equal(t, []string{"Benign", "DoS", "Botnet"}, got.Column("label").Strings)
	assert.Equal(t, "run-1", meta[RunIDKey])
	assert.Equal(t, "v1.2.3", meta[VersionKey])

	// no temporary files are left next to the artifact
	entries, err := ioutil.ReadDir(filepath.Dir(path))
	require.Nil(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.parquet")
	require.Nil(t, ioutil.WriteFile(path, []byte("stale"), 0644))

	require.Nil(t, Write(path, sampleTable(t), nil))
	got, _, err := Read(context.Background(), path)
	require.Nil(t, err)
	assert.Equal(t, 3, got.NumRows())
}

func TestWriteFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.Nil(t, ioutil.WriteFile(blocker, []byte("x"), 0644))

	err := Write(filepath.Join(blocker, "dataset.parquet"), sampleTable(t), nil)
	assert.NotNil(t, err)

	entries, err := ioutil.ReadDir(dir)
	require.Nil(t, err)
	assert.Len(t, entries, 1)
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(context.Background(), filepath.Join(t.TempDir(), "nope.parquet"))
	assert.True(t, os.IsNotExist(err))
}
