package label

import (
	"fmt"
	"strings"

	"github.com/KashifMalik777/ml-ids/pkg/table"
)

//MissingText is what a missing label reads as under MissingAsText
const MissingText = "nan"

//MissingPolicy decides how a missing label is consolidated
type MissingPolicy int

const (
	//MissingAsUnknown assigns the Unknown category to missing labels
	MissingAsUnknown MissingPolicy = iota
	//MissingAsText matches missing labels as the literal text "nan"
	MissingAsText
)

type rule struct {
	substring string
	category  Category
}

// rules are evaluated in order and the first match wins. Labels can match
// several rules ("DDoS" contains "DoS"), so the order is part of the
// training data semantics.
var rules = func() []rule {
	r := []rule{
		{"BENIGN", Benign},
		{"PortScan", PortScan},
		{"DoS", DoS},
		{"DDoS", DDoS},
		{"Web Attack", WebAttack},
		{"Infiltration", Infiltration},
		{"Bot", Botnet},
		{"BruteForce", BruteForce},
		{"Patator", BruteForce},
	}
	for i := range r {
		r[i].substring = strings.ToLower(r[i].substring)
	}
	return r
}()

//Categorize maps a raw attack label to its category
func Categorize(raw string) Category {
	lowered := strings.ToLower(raw)
	for _, r := range rules {
		if strings.Contains(lowered, r.substring) {
			return r.category
		}
	}
	return Other
}

//Result holds the diagnostic counts gathered during consolidation
type Result struct {
	Counts        map[Category]int
	MissingLabels int
}

//Consolidate returns a copy of t with the named label column replaced by
//category names
func Consolidate(t *table.Table, column string, policy MissingPolicy) (*table.Table, Result, error) {
	res := Result{Counts: make(map[Category]int)}

	src := t.Column(column)
	if src == nil {
		return nil, res, fmt.Errorf("label column %q not found", column)
	}
	if src.Kind != table.Text {
		return nil, res, fmt.Errorf("label column %q is %s, expected text", column, src.Kind)
	}

	names := make([]string, len(src.Strings))
	for i, raw := range src.Strings {
		var cat Category
		if !src.Valid[i] {
			res.MissingLabels++
			if policy == MissingAsText {
				cat = Categorize(MissingText)
			} else {
				cat = Unknown
			}
		} else {
			cat = Categorize(raw)
		}
		res.Counts[cat]++
		names[i] = cat.String()
	}

	out := &table.Table{Columns: make([]*table.Column, len(t.Columns))}
	for i, col := range t.Columns {
		if col == src {
			out.Columns[i] = table.NewTextColumn(column, names)
		} else {
			out.Columns[i] = col
		}
	}
	return out, res, nil
}
