package table

import (
	"fmt"
	"math"
)

//Kind describes how the cells of a column are stored
type Kind int

const (
	//Numeric columns hold float64 cells. NaN marks a missing value.
	Numeric Kind = iota
	//Text columns hold string cells alongside a validity flag.
	Text
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type (
	//Column is a single named, typed column. Exactly one of Floats or
	//Strings is populated, according to Kind.
	Column struct {
		Name    string
		Kind    Kind
		Floats  []float64
		Strings []string
		Valid   []bool
	}

	//Table is an ordered set of equal length columns
	Table struct {
		Columns []*Column
	}
)

//NewNumericColumn creates a numeric column from the given cells
func NewNumericColumn(name string, cells []float64) *Column {
	return &Column{Name: name, Kind: Numeric, Floats: cells}
}

//NewTextColumn creates a text column from the given cells, treating
//every cell as present
func NewTextColumn(name string, cells []string) *Column {
	valid := make([]bool, len(cells))
	for i := range valid {
		valid[i] = true
	}
	return &Column{Name: name, Kind: Text, Strings: cells, Valid: valid}
}

//Len returns the number of cells in the column
func (c *Column) Len() int {
	if c.Kind == Text {
		return len(c.Strings)
	}
	return len(c.Floats)
}

//IsMissing reports whether the ith cell holds the missing value sentinel
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Text {
		return !c.Valid[i]
	}
	return math.IsNaN(c.Floats[i])
}

//Clone returns a deep copy of the column
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Strings != nil {
		out.Strings = append([]string(nil), c.Strings...)
		out.Valid = append([]bool(nil), c.Valid...)
	}
	return out
}

//Renamed returns a shallow copy of the column carrying a new name
func (c *Column) Renamed(name string) *Column {
	out := *c
	out.Name = name
	return &out
}

//New creates a table from the given columns, verifying they share a length
func New(columns ...*Column) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if col.Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), columns[0].Len())
		}
		if _, ok := seen[col.Name]; ok {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	return &Table{Columns: columns}, nil
}

//NumRows returns the number of rows in the table
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

//Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

//Column returns the column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for _, col := range t.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}

//Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{Columns: make([]*Column, len(t.Columns))}
	for i, col := range t.Columns {
		out.Columns[i] = col.Clone()
	}
	return out
}

//Filter returns a new table holding only the rows for which keep is true
func (t *Table) Filter(keep []bool) *Table {
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}

	out := &Table{Columns: make([]*Column, len(t.Columns))}
	for i, col := range t.Columns {
		filtered := &Column{Name: col.Name, Kind: col.Kind}
		if col.Kind == Text {
			filtered.Strings = make([]string, 0, kept)
			filtered.Valid = make([]bool, 0, kept)
			for row, k := range keep {
				if k {
					filtered.Strings = append(filtered.Strings, col.Strings[row])
					filtered.Valid = append(filtered.Valid, col.Valid[row])
				}
			}
		} else {
			filtered.Floats = make([]float64, 0, kept)
			for row, k := range keep {
				if k {
					filtered.Floats = append(filtered.Floats, col.Floats[row])
				}
			}
		}
		out.Columns[i] = filtered
	}
	return out
}

//Project returns a table made of the named columns, in the given order.
//The returned columns share storage with t.
func (t *Table) Project(names []string) (*Table, error) {
	out := &Table{Columns: make([]*Column, 0, len(names))}
	for _, name := range names {
		col := t.Column(name)
		if col == nil {
			return nil, fmt.Errorf("column %q not found", name)
		}
		out.Columns = append(out.Columns, col)
	}
	return out, nil
}

//Concat appends the rows of every table in order. All tables must carry
//the same column names and kinds in the same order.
func Concat(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return &Table{}, nil
	}

	first := tables[0]
	total := 0
	for _, tbl := range tables {
		if len(tbl.Columns) != len(first.Columns) {
			return nil, fmt.Errorf("cannot concatenate tables with %d and %d columns", len(first.Columns), len(tbl.Columns))
		}
		for i, col := range tbl.Columns {
			if col.Name != first.Columns[i].Name || col.Kind != first.Columns[i].Kind {
				return nil, fmt.Errorf("column %d mismatch: %s (%s) vs %s (%s)",
					i, first.Columns[i].Name, first.Columns[i].Kind, col.Name, col.Kind)
			}
		}
		total += tbl.NumRows()
	}

	out := &Table{Columns: make([]*Column, len(first.Columns))}
	for i, proto := range first.Columns {
		col := &Column{Name: proto.Name, Kind: proto.Kind}
		if proto.Kind == Text {
			col.Strings = make([]string, 0, total)
			col.Valid = make([]bool, 0, total)
			for _, tbl := range tables {
				col.Strings = append(col.Strings, tbl.Columns[i].Strings...)
				col.Valid = append(col.Valid, tbl.Columns[i].Valid...)
			}
		} else {
			col.Floats = make([]float64, 0, total)
			for _, tbl := range tables {
				col.Floats = append(col.Floats, tbl.Columns[i].Floats...)
			}
		}
		out.Columns[i] = col
	}
	return out, nil
}

//CountNonFinite returns the number of NaN and +/-Inf cells in numeric
//columns and the number of invalid cells in text columns
func (t *Table) CountNonFinite() (missing int, infinite int) {
	for _, col := range t.Columns {
		if col.Kind == Text {
			for _, v := range col.Valid {
				if !v {
					missing++
				}
			}
			continue
		}
		for _, f := range col.Floats {
			if math.IsNaN(f) {
				missing++
			} else if math.IsInf(f, 0) {
				infinite++
			}
		}
	}
	return missing, infinite
}
