package artifact

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/KashifMalik777/ml-ids/pkg/table"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

const (
	//RunIDKey is the metadata key holding the pipeline run id
	RunIDKey = "ml_ids.run_id"
	//VersionKey is the metadata key holding the version of the writer
	VersionKey = "ml_ids.version"
)

//Metadata is stored as key value pairs in the parquet footer
type Metadata map[string]string

// writeOnly hides the Close method of the wrapped file so the parquet
// writer does not close it before it is synced
type writeOnly struct {
	w io.Writer
}

func (w writeOnly) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

//Write stores the table as a parquet file at path. The file is written to
//a temporary file in the same directory and renamed into place, so path
//either holds the complete table or is left untouched.
func Write(path string, t *table.Table, meta Metadata) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = writeTable(writeOnly{tmp}, t, meta); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeTable(w io.Writer, t *table.Table, meta Metadata) error {
	mem := memory.NewGoAllocator()

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = meta[k]
	}
	md := arrow.NewMetadata(keys, values)

	fields := make([]arrow.Field, len(t.Columns))
	arrays := make([]arrow.Array, len(t.Columns))
	defer func() {
		for _, arr := range arrays {
			if arr != nil {
				arr.Release()
			}
		}
	}()

	for i, col := range t.Columns {
		switch col.Kind {
		case table.Numeric:
			fields[i] = arrow.Field{Name: col.Name, Type: arrow.PrimitiveTypes.Float64}
			b := array.NewFloat64Builder(mem)
			b.AppendValues(col.Floats, nil)
			arrays[i] = b.NewArray()
			b.Release()
		case table.Text:
			fields[i] = arrow.Field{Name: col.Name, Type: arrow.BinaryTypes.String, Nullable: true}
			b := array.NewStringBuilder(mem)
			b.AppendValues(col.Strings, col.Valid)
			arrays[i] = b.NewArray()
			b.Release()
		default:
			return fmt.Errorf("column %q has unsupported kind %s", col.Name, col.Kind)
		}
	}

	schema := arrow.NewSchema(fields, &md)
	rec := array.NewRecord(schema, arrays, int64(t.NumRows()))
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	fw, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}

//Read loads a parquet file written by Write, returning the table and the
//footer metadata
func Read(ctx context.Context, path string) (*table.Table, Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	rdr, err := file.NewParquetReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	defer rdr.Close()

	meta := make(Metadata)
	kv := rdr.MetaData().KeyValueMetadata()
	for _, key := range []string{RunIDKey, VersionKey} {
		if v := kv.FindValue(key); v != nil {
			meta[key] = *v
		}
	}

	mem := memory.NewGoAllocator()
	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, nil, err
	}
	arrowTable, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer arrowTable.Release()

	rows := int(arrowTable.NumRows())
	columns := make([]*table.Column, 0, arrowTable.NumCols())
	for i := 0; i < int(arrowTable.NumCols()); i++ {
		col, err := fromArrow(arrowTable.Column(i), rows)
		if err != nil {
			return nil, nil, err
		}
		columns = append(columns, col)
	}

	tbl, err := table.New(columns...)
	if err != nil {
		return nil, nil, err
	}
	return tbl, meta, nil
}

func fromArrow(col *arrow.Column, rows int) (*table.Column, error) {
	switch col.DataType().ID() {
	case arrow.FLOAT64:
		floats := make([]float64, 0, rows)
		for _, chunk := range col.Data().Chunks() {
			floats = append(floats, chunk.(*array.Float64).Float64Values()...)
		}
		return table.NewNumericColumn(col.Name(), floats), nil
	case arrow.STRING:
		out := &table.Column{
			Name:    col.Name(),
			Kind:    table.Text,
			Strings: make([]string, 0, rows),
			Valid:   make([]bool, 0, rows),
		}
		for _, chunk := range col.Data().Chunks() {
			strs := chunk.(*array.String)
			for j := 0; j < strs.Len(); j++ {
				if strs.IsNull(j) {
					out.Strings = append(out.Strings, "")
					out.Valid = append(out.Valid, false)
					continue
				}
				out.Strings = append(out.Strings, strs.Value(j))
				out.Valid = append(out.Valid, true)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("column %q has unsupported type %s", col.Name(), col.DataType())
}
