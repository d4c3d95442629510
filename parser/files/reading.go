package files

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/KashifMalik777/ml-ids/util"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/htmlindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// missingTokens are read as missing values, matching the pandas defaults
var missingTokens = map[string]struct{}{
	"":         {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"#N/A":     {},
	"#NA":      {},
	"#N/A N/A": {},
	"NULL":     {},
	"null":     {},
	"None":     {},
	"<NA>":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
}

//IsCSV reports whether a file name looks like a plain or gzipped CSV file
func IsCSV(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".csv.gz")
}

// GatherSourceFiles expands the configured sources into the list of files
// to load. Directories are expanded to their CSV files in name order. Paths
// which do not exist are reported as skipped.
func GatherSourceFiles(sources []Source, logger *log.Logger) ([]Source, []SkippedFile) {
	var toReturn []Source
	var skipped []SkippedFile

	for _, src := range sources {
		exists, err := util.Exists(src.Path)
		if err != nil {
			skipped = append(skipped, SkippedFile{Path: src.Path, Err: err})
			continue
		}
		if !exists {
			logger.WithFields(log.Fields{
				"path": src.Path,
			}).Warn("Input file does not exist")
			skipped = append(skipped, SkippedFile{
				Path: src.Path,
				Err:  fmt.Errorf("%s: %w", src.Path, ErrFileNotFound),
			})
			continue
		}

		if util.IsDir(src.Path) {
			toReturn = append(toReturn, gatherDir(src, logger)...)
			continue
		}

		if !IsCSV(src.Path) {
			logger.WithFields(log.Fields{
				"path": src.Path,
			}).Debug("Reading input without a .csv extension as CSV")
		}
		toReturn = append(toReturn, src)
	}

	return toReturn, skipped
}

// gatherDir reads the directory looking for .csv and .csv.gz files
func gatherDir(dir Source, logger *log.Logger) []Source {
	var toReturn []Source
	entries, err := ioutil.ReadDir(dir.Path)
	if err != nil {
		logger.WithFields(log.Fields{
			"error": err.Error(),
			"path":  dir.Path,
		}).Error("Error when reading directory")
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if !entry.IsDir() && IsCSV(entry.Name()) {
			toReturn = append(toReturn, Source{
				Path:      filepath.Join(dir.Path, entry.Name()),
				Encodings: dir.Encodings,
			})
		}
	}
	return toReturn
}

//ReadFile reads, decodes, and parses a single source file
func ReadFile(src Source) (*LoadedFile, error) {
	fileHandle, err := os.Open(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", src.Path, ErrFileNotFound)
		}
		return nil, err
	}

	fInfo, err := fileHandle.Stat()
	if err != nil {
		fileHandle.Close()
		return nil, err
	}

	var reader io.Reader = fileHandle
	closer := fileHandle.Close
	if strings.HasSuffix(strings.ToLower(src.Path), ".gz") {
		reader, closer, err = newGzipReader(fileHandle)
		if err != nil {
			closer()
			return nil, err
		}
	}

	raw, err := ioutil.ReadAll(reader)
	closeErr := closer()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}

	decoded, encoding, err := Decode(raw, src.Encodings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	tbl, err := ParseCSV(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	return &LoadedFile{
		Path:     src.Path,
		Encoding: encoding,
		Length:   fInfo.Size(),
		ModTime:  fInfo.ModTime(),
		Table:    tbl,
	}, nil
}

//Decode converts raw bytes to UTF-8 using the first encoding which accepts
//them. utf-8 only accepts valid UTF-8 input. A UTF-8 byte order mark is
//stripped.
func Decode(raw []byte, encodings []string) ([]byte, string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(encodings) == 0 {
		encodings = []string{"utf-8"}
	}

	for _, name := range encodings {
		if strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
			if utf8.Valid(raw) {
				return raw, "utf-8", nil
			}
			continue
		}

		enc, err := htmlindex.Get(name)
		if err != nil {
			return nil, "", fmt.Errorf("unsupported encoding %q: %w", name, err)
		}
		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		return bytes.TrimPrefix(decoded, utf8BOM), name, nil
	}
	return nil, "", ErrUndecodable
}

//ParseCSV reads a comma separated table with a header line. Columns whose
//present cells all parse as numbers are numeric, the rest are text.
func ParseCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}
	names := dedupeHeader(header)

	cells := make([][]string, len(names))
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(record) > len(names) {
			return nil, fmt.Errorf("line %d has %d fields, expected %d", line, len(record), len(names))
		}
		for i := range names {
			if i < len(record) {
				cells[i] = append(cells[i], record[i])
			} else {
				cells[i] = append(cells[i], "")
			}
		}
	}

	columns := make([]*table.Column, len(names))
	for i, name := range names {
		columns[i] = buildColumn(name, cells[i])
	}
	return table.New(columns...)
}

// buildColumn infers the kind of a column from its cells
func buildColumn(name string, cells []string) *table.Column {
	floats := make([]float64, len(cells))
	numeric := true
	for i, cell := range cells {
		if isMissing(cell) {
			floats[i] = math.NaN()
			continue
		}
		f, ok := parseFloat(cell)
		if !ok {
			numeric = false
			break
		}
		floats[i] = f
	}
	if numeric {
		return table.NewNumericColumn(name, floats)
	}

	col := table.NewTextColumn(name, cells)
	for i, cell := range cells {
		if isMissing(cell) {
			col.Valid[i] = false
			col.Strings[i] = ""
		}
	}
	return col
}

func isMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// parseFloat accepts anything strconv does, including inf and infinity in
// any case. Values out of range become +/-Inf.
func parseFloat(cell string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// dedupeHeader renames repeated header names to name.1, name.2 and so on
func dedupeHeader(header []string) []string {
	names := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, name := range header {
		cur := counts[name]
		for cur > 0 {
			counts[name] = cur + 1
			name = fmt.Sprintf("%s.%d", name, cur)
			cur = counts[name]
		}
		names[i] = name
		counts[name] = cur + 1
	}
	return names
}

// newGzipReader wraps a compressed stream. Closing the returned closer
// closes both the decompressor and the underlying file.
func newGzipReader(fileHandle io.ReadCloser) (io.Reader, func() error, error) {
	gzipReader, err := gzip.NewReader(fileHandle)
	if err != nil {
		return nil, fileHandle.Close, err
	}
	closer := func() error {
		errGzip := gzipReader.Close()
		errFile := fileHandle.Close()
		if errGzip != nil {
			return errGzip
		}
		return errFile
	}
	return gzipReader, closer, nil
}
