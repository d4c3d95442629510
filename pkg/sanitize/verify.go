package sanitize

import (
	"math"

	"github.com/KashifMalik777/ml-ids/pkg/table"
)

//VerifyResult holds the outcome of a final non-finite check
type VerifyResult struct {
	// Checked lists the ratio columns present in the table
	Checked        []string
	NonFiniteCells int
	DroppedRows    int
}

//VerifyFinite re-checks the named ratio columns (rates such as bytes per
//second, which become infinite on a zero denominator) and drops any row in
//which one of them is NaN or infinite. Columns absent from t are ignored.
func VerifyFinite(t *table.Table, ratioColumns []string) (*table.Table, VerifyResult) {
	var res VerifyResult
	var cols []*table.Column
	for _, name := range ratioColumns {
		col := t.Column(name)
		if col == nil || col.Kind != table.Numeric {
			continue
		}
		res.Checked = append(res.Checked, name)
		cols = append(cols, col)
	}

	keep := make([]bool, t.NumRows())
	for row := range keep {
		keep[row] = true
		for _, col := range cols {
			f := col.Floats[row]
			if math.IsNaN(f) || math.IsInf(f, 0) {
				res.NonFiniteCells++
				keep[row] = false
			}
		}
		if !keep[row] {
			res.DroppedRows++
		}
	}

	if res.DroppedRows == 0 {
		return t, res
	}
	return t.Filter(keep), res
}
