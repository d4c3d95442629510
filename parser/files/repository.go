package files

import (
	"errors"
	"time"

	"github.com/KashifMalik777/ml-ids/pkg/table"
)

var (
	//ErrFileNotFound is returned when a configured input path does not exist
	ErrFileNotFound = errors.New("input file not found")

	//ErrUndecodable is returned when none of the candidate encodings could
	//decode a file
	ErrUndecodable = errors.New("file could not be decoded with any configured encoding")

	//ErrEmptyFile is returned when a file does not even carry a header line
	ErrEmptyFile = errors.New("file has no header")
)

type (
	//Source is an input path and the encodings to attempt, in order,
	//when decoding it
	Source struct {
		Path      string
		Encodings []string
	}

	//LoadedFile ties a parsed table to the file it was read from
	LoadedFile struct {
		Path     string
		Encoding string
		Length   int64
		ModTime  time.Time
		Table    *table.Table
	}

	//SkippedFile records an input which was not loaded and why
	SkippedFile struct {
		Path string
		Err  error
	}
)

//Reason returns a printable explanation for the skip
func (s SkippedFile) Reason() string {
	if s.Err == nil {
		return "unknown"
	}
	return s.Err.Error()
}
