package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KashifMalik777/ml-ids/pkg/table"
)

//ErrColumnCollision is returned when two raw headers normalize to the same
//canonical name and the collision policy forbids it
var ErrColumnCollision = errors.New("column name collision")

//CollisionPolicy decides what happens when two raw headers share a canonical name
type CollisionPolicy int

const (
	//CollisionWarn keeps the first column and drops the later ones
	CollisionWarn CollisionPolicy = iota
	//CollisionError aborts normalization
	CollisionError
)

//ParseCollisionPolicy converts a config string into a CollisionPolicy
func ParseCollisionPolicy(policy string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", "warn":
		return CollisionWarn, nil
	case "error":
		return CollisionError, nil
	}
	return CollisionWarn, fmt.Errorf("unknown column collision policy %q", policy)
}

//Collision records a raw column which was dropped because an earlier
//column already claimed its canonical name
type Collision struct {
	Canonical string
	Kept      string
	Dropped   string
}

//CanonicalName maps a raw column header onto the canonical naming scheme:
//trimmed, lowercased, with spaces and slashes replaced by underscores.
func CanonicalName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "/", "_")
}

//NormalizeColumns renames every column of t to its canonical name. The
//mapping is built before anything is renamed so that collisions are
//detected rather than resolved by whichever column happens to come last.
func NormalizeColumns(t *table.Table, policy CollisionPolicy) (*table.Table, []Collision, error) {
	var collisions []Collision
	claimedBy := make(map[string]string, len(t.Columns))
	out := &table.Table{Columns: make([]*table.Column, 0, len(t.Columns))}

	for _, col := range t.Columns {
		canonical := CanonicalName(col.Name)
		if kept, ok := claimedBy[canonical]; ok {
			collisions = append(collisions, Collision{Canonical: canonical, Kept: kept, Dropped: col.Name})
			continue
		}
		claimedBy[canonical] = col.Name
		out.Columns = append(out.Columns, col.Renamed(canonical))
	}

	if len(collisions) > 0 && policy == CollisionError {
		c := collisions[0]
		return nil, collisions, fmt.Errorf("%w: %q and %q both normalize to %q",
			ErrColumnCollision, c.Kept, c.Dropped, c.Canonical)
	}
	return out, collisions, nil
}
