package schema

import (
	"errors"
	"testing"

	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalName(t *testing.T) {
	testCases := []struct {
		raw string
		out string
	}{
		{" Col A ", "col_a"},
		{"Flow Bytes/s", "flow_bytes_s"},
		{" Flow IAT Mean", "flow_iat_mean"},
		{"Label", "label"},
		{"already_canonical", "already_canonical"},
		{"", ""},
		{"   ", ""},
		{"a  b", "a__b"},
		{"\tTab Lead", "tab_lead"},
		{"Fwd Header Length.1", "fwd_header_length.1"},
		{"/", "_"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.out, CanonicalName(tc.raw), tc.raw)
	}
}

func TestCanonicalNameIdempotent(t *testing.T) {
	inputs := []string{
		" Col A ", "Flow Bytes/s", "Total Length of Fwd Packets", " \t weird/Name Here\n",
		"ÄÖÜ Größe", "x/y/z", "", "__", " Packet Length Std ",
	}
	for _, in := range inputs {
		once := CanonicalName(in)
		assert.Equal(t, once, CanonicalName(once), in)
	}
}

func TestNormalizeColumnsPreservesOrder(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn(" Col A ", []float64{1}),
		table.NewNumericColumn("Col B", []float64{2}),
		table.NewTextColumn(" Label", []string{"BENIGN"}),
	)
	require.Nil(t, err)

	out, collisions, err := NormalizeColumns(tbl, CollisionWarn)
	require.Nil(t, err)
	assert.Empty(t, collisions)
	assert.Equal(t, []string{"col_a", "col_b", "label"}, out.Names())
	assert.Nil(t, out.Column(" Col A "))
	// source names are untouched
	assert.Equal(t, " Col A ", tbl.Columns[0].Name)
}

func TestNormalizeColumnsCollisionWarn(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn("Flow Bytes/s", []float64{1}),
		table.NewNumericColumn(" flow bytes/s", []float64{2}),
		table.NewNumericColumn("Other", []float64{3}),
	)
	require.Nil(t, err)

	out, collisions, err := NormalizeColumns(tbl, CollisionWarn)
	require.Nil(t, err)
	assert.Equal(t, []string{"flow_bytes_s", "other"}, out.Names())
	assert.Equal(t, []float64{1}, out.Column("flow_bytes_s").Floats)
	assert.Equal(t, []Collision{{Canonical: "flow_bytes_s", Kept: "Flow Bytes/s", Dropped: " flow bytes/s"}}, collisions)
}

func TestNormalizeColumnsCollisionError(t *testing.T) {
	tbl, err := table.New(
		table.NewNumericColumn("A", []float64{1}),
		table.NewNumericColumn("a", []float64{2}),
	)
	require.Nil(t, err)

	_, collisions, err := NormalizeColumns(tbl, CollisionError)
	assert.True(t, errors.Is(err, ErrColumnCollision))
	assert.Len(t, collisions, 1)
}

func TestParseCollisionPolicy(t *testing.T) {
	p, err := ParseCollisionPolicy("")
	assert.Nil(t, err)
	assert.Equal(t, CollisionWarn, p)

	p, err = ParseCollisionPolicy(" ERROR ")
	assert.Nil(t, err)
	assert.Equal(t, CollisionError, p)

	_, err = ParseCollisionPolicy("overwrite")
	assert.NotNil(t, err)
}
