package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, cols ...*table.Column) *table.Table {
	tbl, err := table.New(cols...)
	require.Nil(t, err)
	return tbl
}

func TestUnifyIntersection(t *testing.T) {
	first := mustTable(t,
		table.NewNumericColumn("a", []float64{1, 2}),
		table.NewNumericColumn("b", []float64{3, 4}),
		table.NewNumericColumn("c", []float64{5, 6}),
	)
	second := mustTable(t,
		table.NewNumericColumn("b", []float64{7, 8, 9}),
		table.NewNumericColumn("c", []float64{10, 11, 12}),
		table.NewNumericColumn("d", []float64{13, 14, 15}),
	)

	unified, res, err := Unify([]*table.Table{first, second}, []string{"d", "c", "b", "a"}, "label")
	require.Nil(t, err)

	assert.Equal(t, []string{"c", "b"}, unified.Names())
	assert.Equal(t, []string{"c", "b"}, res.FinalFeatures)
	assert.Equal(t, 2, res.CommonColumns)
	assert.Equal(t, 5, unified.NumRows())
	assert.Equal(t, first.NumRows()+second.NumRows(), res.Rows)
	assert.Equal(t, []float64{5, 6, 10, 11, 12}, unified.Column("c").Floats)
	assert.Equal(t, []float64{3, 4, 7, 8, 9}, unified.Column("b").Floats)
	assert.Equal(t, []int{1, 1}, res.DroppedColumns)
	assert.Equal(t, 2, res.TotalDroppedColumns())
}

func TestUnifyRestrictsToPreferredList(t *testing.T) {
	src := mustTable(t,
		table.NewNumericColumn("flow_duration", []float64{1}),
		table.NewNumericColumn("destination_port", []float64{80}),
		table.NewTextColumn("label", []string{"BENIGN"}),
	)

	unified, res, err := Unify([]*table.Table{src}, []string{"flow_duration", "flow_bytes_s", "label"}, "label")
	require.Nil(t, err)
	assert.Equal(t, []string{"flow_duration", "label"}, unified.Names())
	assert.Equal(t, 3, res.CommonColumns)
	assert.Equal(t, []int{1}, res.DroppedColumns)
}

func TestUnifyErrors(t *testing.T) {
	_, _, err := Unify(nil, []string{"a"}, "label")
	assert.True(t, errors.Is(err, ErrEmptyInput))

	first := mustTable(t, table.NewNumericColumn("a", []float64{1}))
	second := mustTable(t, table.NewNumericColumn("b", []float64{1}))
	_, _, err = Unify([]*table.Table{first, second}, []string{"a", "b"}, "label")
	assert.True(t, errors.Is(err, ErrNoCommonFeatures))

	onlyLabel := mustTable(t, table.NewTextColumn("label", []string{"BENIGN"}))
	_, _, err = Unify([]*table.Table{onlyLabel}, []string{"a", "label"}, "label")
	assert.True(t, errors.Is(err, ErrNoCommonFeatures))
}

func TestUnifyReconcilesKinds(t *testing.T) {
	numericLabels := mustTable(t,
		table.NewNumericColumn("a", []float64{1, 2}),
		table.NewNumericColumn("label", []float64{0, math.NaN()}),
	)
	textFeature := mustTable(t,
		table.NewTextColumn("a", []string{"3.5", "oops"}),
		table.NewTextColumn("label", []string{"BENIGN", "Bot"}),
	)

	unified, res, err := Unify([]*table.Table{numericLabels, textFeature}, []string{"a", "label"}, "label")
	require.Nil(t, err)

	a := unified.Column("a")
	assert.Equal(t, table.Numeric, a.Kind)
	assert.Equal(t, []float64{1, 2, 3.5}, a.Floats[:3])
	assert.True(t, math.IsNaN(a.Floats[3]))
	assert.Equal(t, 1, res.CoercedCells)

	lbl := unified.Column("label")
	assert.Equal(t, table.Text, lbl.Kind)
	assert.Equal(t, []string{"0", "", "BENIGN", "Bot"}, lbl.Strings)
	assert.Equal(t, []bool{true, false, true, true}, lbl.Valid)
}

func TestCommonColumnsOrder(t *testing.T) {
	first := mustTable(t,
		table.NewNumericColumn("z", nil),
		table.NewNumericColumn("y", nil),
	)
	second := mustTable(t,
		table.NewNumericColumn("y", nil),
		table.NewNumericColumn("z", nil),
	)
	assert.Equal(t, []string{"z", "y"}, CommonColumns([]*table.Table{first, second}))
	assert.Nil(t, CommonColumns(nil))
}
