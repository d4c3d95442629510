package resources

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/KashifMalik777/ml-ids/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerLevels(t *testing.T) {
	cases := map[int]log.Level{
		0: log.ErrorLevel,
		1: log.WarnLevel,
		2: log.InfoLevel,
		3: log.DebugLevel,
	}
	for level, expected := range cases {
		logger := initLogger(&config.LogStaticCfg{LogLevel: level})
		assert.Equal(t, expected, logger.Level)
		assert.Equal(t, os.Stderr, logger.Out)
	}

	logger := initLogger(&config.LogStaticCfg{LogLevel: 2, LogToFile: true})
	assert.Equal(t, ioutil.Discard, logger.Out)
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	logger := initLogger(&config.LogStaticCfg{LogLevel: 2, LogToFile: true})
	require.Nil(t, addFileLogger(logger, dir))

	logger.Warn("written to a file")

	runs, err := ioutil.ReadDir(dir)
	require.Nil(t, err)
	require.Len(t, runs, 1)

	contents, err := ioutil.ReadFile(filepath.Join(dir, runs[0].Name(), "warn.log"))
	require.Nil(t, err)
	assert.Contains(t, string(contents), "written to a file")
}

func TestInitTestResources(t *testing.T) {
	res := InitTestResources(t, []string{"a.csv"}, "out.parquet")
	assert.Equal(t, "out.parquet", res.Config.S.Pipeline.OutputPath)
	assert.Len(t, res.Config.R.Pipeline.Sources, 1)
	assert.Equal(t, log.DebugLevel, res.Log.Level)
}
