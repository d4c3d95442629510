package label

import (
	"testing"

	"github.com/KashifMalik777/ml-ids/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		raw      string
		expected Category
	}{
		{"BENIGN", Benign},
		{"benign", Benign},
		{"PortScan", PortScan},
		{"DoS Hulk", DoS},
		{"DoS slowloris", DoS},
		// "DDoS" contains "DoS" and the DoS rule is evaluated first
		{"DDoS", DoS},
		{"Web Attack \x96 Brute Force", WebAttack},
		{"Web Attack – XSS", WebAttack},
		{"Infiltration", Infiltration},
		{"Bot", Botnet},
		{"BruteForce-SSH", BruteForce},
		{"FTP-Patator", BruteForce},
		{"SSH-Patator", BruteForce},
		{"totally-unknown-thing", Other},
		{"", Other},
		{"Heartbleed", Other},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, Categorize(c.raw), c.raw)
	}
}

func TestCategorizeRuleOrder(t *testing.T) {
	assert.Equal(t, DoS, Categorize("Bot-DoS"))
	assert.Equal(t, DoS, Categorize("dos via bot"))
	assert.Equal(t, Benign, Categorize("BENIGN PortScan"))
	assert.Equal(t, WebAttack, Categorize("Web Attack Bot"))
}

func labelTable() *table.Table {
	labels := table.NewTextColumn("label", []string{"BENIGN", "FTP-Patator", "", "DDoS", "Bot"})
	labels.Valid[2] = false
	return &table.Table{Columns: []*table.Column{
		table.NewNumericColumn("flow_duration", []float64{1, 2, 3, 4, 5}),
		labels,
	}}
}

func TestConsolidate(t *testing.T) {
	src := labelTable()
	out, res, err := Consolidate(src, "label", MissingAsUnknown)
	require.Nil(t, err)

	assert.Equal(t,
		[]string{"Benign", "BruteForce", "Unknown", "DoS", "Botnet"},
		out.Column("label").Strings,
	)
	assert.Equal(t, []bool{true, true, true, true, true}, out.Column("label").Valid)
	assert.Equal(t, 1, res.MissingLabels)
	assert.Equal(t, map[Category]int{Benign: 1, BruteForce: 1, Unknown: 1, DoS: 1, Botnet: 1}, res.Counts)

	// column order and other columns are preserved, the source is not modified
	assert.Equal(t, []string{"flow_duration", "label"}, out.Names())
	assert.Equal(t, "FTP-Patator", src.Column("label").Strings[1])
}

func TestConsolidateMissingAsText(t *testing.T) {
	out, res, err := Consolidate(labelTable(), "label", MissingAsText)
	require.Nil(t, err)
	assert.Equal(t, "Other", out.Column("label").Strings[2])
	assert.Equal(t, 1, res.MissingLabels)
	assert.Equal(t, 0, res.Counts[Unknown])
}

func TestConsolidateRequiresTextLabel(t *testing.T) {
	_, _, err := Consolidate(labelTable(), "nope", MissingAsUnknown)
	assert.NotNil(t, err)

	_, _, err = Consolidate(labelTable(), "flow_duration", MissingAsUnknown)
	assert.NotNil(t, err)
}

func TestCategoryNames(t *testing.T) {
	for _, c := range Categories() {
		parsed, err := ParseCategory(c.String())
		require.Nil(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Len(t, Categories(), 10)
	assert.False(t, Benign.IsAttack())
	assert.False(t, Unknown.IsAttack())
	assert.True(t, DDoS.IsAttack())

	_, err := ParseCategory("Ransomware")
	assert.NotNil(t, err)
}
