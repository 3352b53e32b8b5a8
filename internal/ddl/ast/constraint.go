package ast

import (
	"encoding/json"
	"fmt"
)

// TimeIndexName is the constraint name the catalog uses to recognise the
// time index when it is carried as a unique constraint.
const TimeIndexName = "__time_index"

// TableConstraint is a table level constraint: *Unique or *TimeIndex.
type TableConstraint interface {
	constraintNode()
	String() string
}

// Unique is a PRIMARY KEY or UNIQUE constraint over one or more columns.
type Unique struct {
	Name      *Ident
	Columns   []Ident
	IsPrimary bool
}

func (u *Unique) constraintNode() {}

// String returns the SQL representation of the constraint.
func (u *Unique) String() string {
	prefix := ""
	if u.Name != nil {
		prefix = "CONSTRAINT " + u.Name.String() + " "
	}
	if u.IsPrimary {
		return fmt.Sprintf("%sPRIMARY KEY (%s)", prefix, joinIdents(u.Columns))
	}
	return fmt.Sprintf("%sUNIQUE (%s)", prefix, joinIdents(u.Columns))
}

// MarshalJSON encodes the constraint in the unique wire form.
func (u *Unique) MarshalJSON() ([]byte, error) {
	w := uniqueJSON{
		Type:      "unique",
		Columns:   u.Columns,
		IsPrimary: u.IsPrimary,
	}
	if u.Name != nil {
		w.Name = u.Name.Value
	}
	return json.Marshal(w)
}

// TimeIndex designates the timestamp column that orders rows in time.
type TimeIndex struct {
	Column Ident
}

func (t *TimeIndex) constraintNode() {}

// String returns the SQL representation of the constraint.
func (t *TimeIndex) String() string {
	return fmt.Sprintf("TIME INDEX (%s)", t.Column.String())
}

// AsUnique renders the time index the way catalog collaborators expect it:
// a non-primary unique constraint named __time_index.
func (t *TimeIndex) AsUnique() *Unique {
	name := NewIdent(TimeIndexName)
	return &Unique{
		Name:      &name,
		Columns:   []Ident{NewIdent(t.Column.Value)},
		IsPrimary: false,
	}
}

// MarshalJSON encodes the time index through its unique form.
func (t *TimeIndex) MarshalJSON() ([]byte, error) {
	return t.AsUnique().MarshalJSON()
}

// ConstraintFromUnique maps a unique constraint named __time_index back to a
// *TimeIndex. Any other unique constraint is returned unchanged.
func ConstraintFromUnique(u *Unique) TableConstraint {
	if u.Name != nil && u.Name.Value == TimeIndexName && !u.IsPrimary && len(u.Columns) == 1 {
		return &TimeIndex{Column: u.Columns[0]}
	}
	return u
}

// UnmarshalConstraint decodes a constraint from its unique wire form.
func UnmarshalConstraint(data []byte) (TableConstraint, error) {
	var w uniqueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	if w.Type != "unique" {
		return nil, fmt.Errorf("unknown constraint type %q", w.Type)
	}
	u := &Unique{Columns: w.Columns, IsPrimary: w.IsPrimary}
	if w.Name != "" {
		name := NewIdent(w.Name)
		u.Name = &name
	}
	return ConstraintFromUnique(u), nil
}

type uniqueJSON struct {
	Type      string  `json:"type"`
	Name      string  `json:"name,omitempty"`
	Columns   []Ident `json:"columns"`
	IsPrimary bool    `json:"is_primary"`
}
