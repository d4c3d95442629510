package sanitize

import (
	"encoding/binary"
	"math"

	"github.com/KashifMalik777/ml-ids/pkg/table"
)

//Result holds the diagnostic counts gathered while sanitizing a table
type Result struct {
	RowsIn        int
	InfiniteCells int
	MissingRows   int
	DuplicateRows int
	RowsOut       int
}

//Sanitize returns a copy of t in which every infinite cell has been turned
//into a missing value, every row holding a missing value has been removed,
//and every row identical to an earlier row has been removed.
func Sanitize(t *table.Table) (*table.Table, Result) {
	res := Result{RowsIn: t.NumRows()}

	// infinities are rewritten before the missing value pass so that
	// both are dropped by the same rule
	work := t.Clone()
	for _, col := range work.Columns {
		if col.Kind != table.Numeric {
			continue
		}
		for i, f := range col.Floats {
			if math.IsInf(f, 0) {
				col.Floats[i] = math.NaN()
				res.InfiniteCells++
			}
		}
	}

	keep := make([]bool, work.NumRows())
	for row := range keep {
		keep[row] = true
		for _, col := range work.Columns {
			if col.IsMissing(row) {
				keep[row] = false
				res.MissingRows++
				break
			}
		}
	}
	work = work.Filter(keep)

	keep = make([]bool, work.NumRows())
	seen := make(map[string]struct{}, work.NumRows())
	var key []byte
	for row := range keep {
		key = rowKey(key[:0], work, row)
		if _, ok := seen[string(key)]; ok {
			res.DuplicateRows++
			continue
		}
		seen[string(key)] = struct{}{}
		keep[row] = true
	}
	work = work.Filter(keep)

	res.RowsOut = work.NumRows()
	return work, res
}

// rowKey serializes a row so that equal rows produce equal keys.
// Strings are length prefixed so that adjacent cells cannot run together.
func rowKey(buf []byte, t *table.Table, row int) []byte {
	var scratch [8]byte
	for _, col := range t.Columns {
		if col.Kind == table.Text {
			binary.LittleEndian.PutUint64(scratch[:], uint64(len(col.Strings[row])))
			buf = append(buf, scratch[:]...)
			buf = append(buf, col.Strings[row]...)
			continue
		}
		f := col.Floats[row]
		if f == 0 {
			// -0 and +0 compare equal
			f = 0
		}
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
		buf = append(buf, scratch[:]...)
	}
	return buf
}
