package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/KashifMalik777/ml-ids/pkg/label"
	"github.com/KashifMalik777/ml-ids/pkg/table"
)

//ErrSingleClass is returned when the training data holds only benign or
//only malicious flows
var ErrSingleClass = errors.New("training data must contain benign and attack flows")

//Dataset is a dense feature matrix with binary targets. A target of 1
//marks an attack flow.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []int
}

//FromTable builds a dataset out of a prepared table. Every numeric column
//other than the label column is used as a feature.
func FromTable(t *table.Table, labelColumn string) (*Dataset, error) {
	labels := t.Column(labelColumn)
	if labels == nil || labels.Kind != table.Text {
		return nil, fmt.Errorf("label column %q missing or not text", labelColumn)
	}

	var cols []*table.Column
	ds := &Dataset{}
	for _, col := range t.Columns {
		if col.Name == labelColumn || col.Kind != table.Numeric {
			continue
		}
		cols = append(cols, col)
		ds.Features = append(ds.Features, col.Name)
	}
	if len(cols) == 0 {
		return nil, errors.New("table has no numeric feature columns")
	}

	rows := t.NumRows()
	ds.X = make([][]float64, rows)
	ds.Y = make([]int, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, len(cols))
		for j, col := range cols {
			row[j] = col.Floats[i]
		}
		ds.X[i] = row
		y, err := Target(labels.Strings[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		ds.Y[i] = y
	}
	return ds, nil
}

//Target maps a consolidated category name onto the binary target. Only
//attack categories are positive, so Unknown flows count as benign.
func Target(category string) (int, error) {
	cat, err := label.ParseCategory(category)
	if err != nil {
		return 0, err
	}
	if cat.IsAttack() {
		return 1, nil
	}
	return 0, nil
}

//Subset returns the rows at the given indices
func (d *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{
		Features: d.Features,
		X:        make([][]float64, len(idx)),
		Y:        make([]int, len(idx)),
	}
	for i, j := range idx {
		out.X[i] = d.X[j]
		out.Y[i] = d.Y[j]
	}
	return out
}

//ClassCounts returns the number of benign and attack rows
func (d *Dataset) ClassCounts() (benign int, attack int) {
	for _, y := range d.Y {
		if y == 1 {
			attack++
		} else {
			benign++
		}
	}
	return benign, attack
}

//StratifiedSplit shuffles each class separately and moves testSize of every
//class into the test set, so both sets keep the class balance of y. The
//returned indices are sorted.
func StratifiedSplit(y []int, testSize float64, seed int64) (train []int, test []int) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int][]int)
	var classes []int
	for i, c := range y {
		if _, ok := byClass[c]; !ok {
			classes = append(classes, c)
		}
		byClass[c] = append(byClass[c], i)
	}
	sort.Ints(classes)

	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(float64(len(idx))*testSize + 0.5)
		if nTest == 0 && len(idx) > 1 {
			nTest = 1
		}
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
