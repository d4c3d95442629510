package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFilesKeepsSourceOrder(t *testing.T) {
	dir := t.TempDir()
	var sources []Source
	for i := 0; i < 9; i++ {
		path := writeFile(t, dir, fmt.Sprintf("f%d.csv", i), []byte(fmt.Sprintf("x\n%d\n", i)))
		sources = append(sources, Source{Path: path})
		if i == 4 {
			sources = append(sources, Source{Path: filepath.Join(dir, "missing.csv")})
		}
	}

	loaded, skipped := LoadFiles(context.Background(), sources, LoadOptions{Threads: 3, Progress: ioutil.Discard}, testLogger())

	require.Len(t, loaded, 9)
	for i, file := range loaded {
		assert.Equal(t, []float64{float64(i)}, file.Table.Column("x").Floats)
	}
	require.Len(t, skipped, 1)
	assert.True(t, errors.Is(skipped[0].Err, ErrFileNotFound))
}

func TestLoadFilesCancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.csv", []byte("x\n1\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loaded, skipped := LoadFiles(ctx, []Source{{Path: path}}, LoadOptions{Threads: 1, Progress: ioutil.Discard}, testLogger())
	assert.Empty(t, loaded)
	require.Len(t, skipped, 1)
	assert.True(t, errors.Is(skipped[0].Err, context.Canceled))
}

func TestLoadFilesNoSources(t *testing.T) {
	loaded, skipped := LoadFiles(context.Background(), nil, LoadOptions{Threads: 2}, testLogger())
	assert.Empty(t, loaded)
	assert.Empty(t, skipped)
}

func TestWarnIfLargerThanMemory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.csv", make([]byte, 2048))
	sources := []Source{{Path: path}, {Path: path + ".missing"}}

	var buf bytes.Buffer
	assert.True(t, warnIfLargerThanMemory(&buf, sources, 4096, testLogger()))
	assert.Contains(t, buf.String(), "2.0 KiB")
	assert.Contains(t, buf.String(), "4.0 KiB")

	buf.Reset()
	assert.False(t, warnIfLargerThanMemory(&buf, sources, 1<<20, testLogger()))
	assert.False(t, warnIfLargerThanMemory(&buf, sources, 0, testLogger()))
	assert.Empty(t, buf.String())
}
