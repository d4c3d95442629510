package schema

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/KashifMalik777/ml-ids/pkg/table"
)

var (
	//ErrEmptyInput is returned when there are no source tables to unify
	ErrEmptyInput = errors.New("no input tables were loaded")

	//ErrNoCommonFeatures is returned when the sources share no preferred feature
	ErrNoCommonFeatures = errors.New("input tables have no common features")
)

//UnifyResult describes what unification kept and discarded
type UnifyResult struct {
	// CommonColumns is the number of columns shared by every source
	CommonColumns int
	// FinalFeatures are the retained columns, in preferred list order
	FinalFeatures []string
	// DroppedColumns holds, per source, the number of columns projected away
	DroppedColumns []int
	// CoercedCells counts text cells which could not be read as numbers
	CoercedCells int
	Rows         int
}

//TotalDroppedColumns sums the columns dropped over all sources
func (r UnifyResult) TotalDroppedColumns() int {
	total := 0
	for _, n := range r.DroppedColumns {
		total += n
	}
	return total
}

//CommonColumns returns the names present in every table, ordered as in the
//first table
func CommonColumns(tables []*table.Table) []string {
	if len(tables) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, tbl := range tables {
		for _, name := range tbl.Names() {
			counts[name]++
		}
	}

	var common []string
	for _, name := range tables[0].Names() {
		if counts[name] == len(tables) {
			common = append(common, name)
		}
	}
	return common
}

//FinalFeatures keeps the entries of preferred which appear in common,
//in the order of preferred
func FinalFeatures(preferred []string, common []string) []string {
	present := make(map[string]struct{}, len(common))
	for _, name := range common {
		present[name] = struct{}{}
	}

	var final []string
	for _, name := range preferred {
		if _, ok := present[name]; ok {
			final = append(final, name)
		}
	}
	return final
}

//Unify projects every source onto the preferred features they all share
//and concatenates the results in source order. The label column is forced
//to text and every other retained column is forced to numeric.
func Unify(sources []*table.Table, preferred []string, labelColumn string) (*table.Table, UnifyResult, error) {
	var res UnifyResult
	if len(sources) == 0 {
		return nil, res, ErrEmptyInput
	}

	common := CommonColumns(sources)
	res.CommonColumns = len(common)
	res.FinalFeatures = FinalFeatures(preferred, common)

	features := 0
	for _, name := range res.FinalFeatures {
		if name != labelColumn {
			features++
		}
	}
	if features == 0 {
		return nil, res, ErrNoCommonFeatures
	}

	projected := make([]*table.Table, 0, len(sources))
	res.DroppedColumns = make([]int, 0, len(sources))
	for _, src := range sources {
		proj, err := src.Project(res.FinalFeatures)
		if err != nil {
			return nil, res, err
		}
		for i, col := range proj.Columns {
			var coerced int
			if col.Name == labelColumn {
				proj.Columns[i] = toText(col)
			} else {
				proj.Columns[i], coerced = toNumeric(col)
			}
			res.CoercedCells += coerced
		}
		res.DroppedColumns = append(res.DroppedColumns, len(src.Columns)-len(res.FinalFeatures))
		projected = append(projected, proj)
	}

	unified, err := table.Concat(projected)
	if err != nil {
		return nil, res, err
	}
	res.Rows = unified.NumRows()
	return unified, res, nil
}

// toText renders a numeric column as text, keeping NaN cells missing
func toText(col *table.Column) *table.Column {
	if col.Kind == table.Text {
		return col
	}
	out := &table.Column{
		Name:    col.Name,
		Kind:    table.Text,
		Strings: make([]string, len(col.Floats)),
		Valid:   make([]bool, len(col.Floats)),
	}
	for i, f := range col.Floats {
		if math.IsNaN(f) {
			continue
		}
		out.Strings[i] = strconv.FormatFloat(f, 'g', -1, 64)
		out.Valid[i] = true
	}
	return out
}

// toNumeric parses a text column into floats. Cells which do not parse
// become missing and are counted.
func toNumeric(col *table.Column) (*table.Column, int) {
	if col.Kind == table.Numeric {
		return col, 0
	}
	coerced := 0
	out := &table.Column{Name: col.Name, Kind: table.Numeric, Floats: make([]float64, len(col.Strings))}
	for i, s := range col.Strings {
		if !col.Valid[i] {
			out.Floats[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = math.NaN()
			coerced++
		}
		out.Floats[i] = f
	}
	return out, coerced
}
