package util

import (
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), ".jeinwei8380243unt4u")
	file, err := os.OpenFile(filePath, os.O_RDONLY|os.O_CREATE, 0666)
	assert.Nil(t, err)
	file.Close()
	exists, err := Exists(filePath)
	assert.Nil(t, err)
	assert.True(t, exists)
	os.Remove(filePath)
	exists, err = Exists(filePath)
	assert.Nil(t, err)
	assert.False(t, exists)

	currBinary, err := os.Executable()
	assert.Nil(t, err)
	badPath := path.Join(currBinary, "non-existant-file")

	_, err = Exists(badPath)
	assert.NotNil(t, err)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsDir(dir))

	filePath := filepath.Join(dir, "a.csv")
	assert.Nil(t, os.WriteFile(filePath, []byte("x"), 0644))
	assert.False(t, IsDir(filePath))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}

func TestMinMax(t *testing.T) {
	large := 100
	small := -100
	assert.Equal(t, large, Max(large, small))
	assert.Equal(t, large, Max(small, large))
	assert.Equal(t, small, Min(large, small))
	assert.Equal(t, small, Min(small, large))
}

func TestStringInSlice(t *testing.T) {
	list := []string{"flow_duration", "label"}
	assert.True(t, StringInSlice("label", list))
	assert.False(t, StringInSlice("Label", list))
	assert.False(t, StringInSlice("label", nil))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 MiB", FormatBytes(1024*1024*3/2))
	assert.Equal(t, "2.0 GiB", FormatBytes(2<<30))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h0m0s", FormatDuration(time.Hour))
	assert.Equal(t, "2d1h0m0s", FormatDuration(49*time.Hour))
	assert.Equal(t, "1y1d0s", FormatDuration(366*24*time.Hour))
}
