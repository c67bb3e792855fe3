package riff

import "fmt"

// Field is a caller-supplied schema entry, in the caller's column order.
type Field struct {
	Name     string
	DataType Type
	Nullable bool
}

// TypeSpec is a single column of a TypeDescription.  Position is the index
// of the column in the reordered read layout; OrigPosition is the index in
// the caller-supplied schema and is stable through serialization.
type TypeSpec struct {
	Name         string
	DataType     Type
	Nullable     bool
	Indexed      bool
	Position     int
	OrigPosition int
}

func (ts *TypeSpec) Equals(other *TypeSpec) bool {
	if other == nil {
		return false
	}
	return ts.Name == other.Name &&
		ts.DataType == other.DataType &&
		ts.Nullable == other.Nullable &&
		ts.Indexed == other.Indexed &&
		ts.Position == other.Position &&
		ts.OrigPosition == other.OrigPosition
}

func (ts *TypeSpec) String() string {
	return fmt.Sprintf(
		"TypeSpec(%s: %v, nullable=%t, indexed=%t, position=%d, origPos=%d)",
		ts.Name, ts.DataType, ts.Nullable, ts.Indexed, ts.Position, ts.OrigPosition)
}
