package riff

import (
	"fmt"
	"strings"
)

// TypeDescription is the ordered column layout of a file.  Indexed columns
// occupy a contiguous prefix, each group keeping the caller's original
// order; Position values are dense 0..n-1.
type TypeDescription struct {
	specs      []*TypeSpec
	numIndexed int
	byName     map[string]int
}

// NewTypeDescription validates the schema and the set of indexed column
// names, and builds the reordered layout.
func NewTypeDescription(schema []*Field, indexedNames []string) (*TypeDescription, error) {
	if len(schema) == 0 {
		return nil, NewSchemaErrorf("Schema has no columns")
	}
	byName := make(map[string]int, len(schema))
	for i, field := range schema {
		if _, ok := byName[field.Name]; ok {
			return nil, NewSchemaErrorf("Duplicate column name %q in schema", field.Name)
		}
		byName[field.Name] = i
	}
	indexed := make(map[string]bool, len(indexedNames))
	for _, name := range indexedNames {
		origPos, ok := byName[name]
		if !ok {
			return nil, NewSchemaErrorf("Indexed column %q does not appear in schema", name)
		}
		if !schema[origPos].DataType.Orderable() {
			return nil, NewSchemaErrorf(
				"Indexed column %q has non-orderable type %v", name, schema[origPos].DataType)
		}
		indexed[name] = true
	}
	// Indexed columns first, then the rest; both groups keep the original
	// schema order.
	specs := make([]*TypeSpec, 0, len(schema))
	for origPos, field := range schema {
		if indexed[field.Name] {
			specs = append(specs, newSpec(field, true, origPos))
		}
	}
	numIndexed := len(specs)
	for origPos, field := range schema {
		if !indexed[field.Name] {
			specs = append(specs, newSpec(field, false, origPos))
		}
	}
	positions := make(map[string]int, len(specs))
	for pos, spec := range specs {
		spec.Position = pos
		positions[spec.Name] = pos
	}
	return &TypeDescription{
		specs:      specs,
		numIndexed: numIndexed,
		byName:     positions,
	}, nil
}

// NewTypeDescriptionFromSpecs rebuilds a description from deserialized
// specs, which must already carry valid positions.
func NewTypeDescriptionFromSpecs(specs []*TypeSpec) (*TypeDescription, error) {
	if len(specs) == 0 {
		return nil, NewSchemaErrorf("Type description has no columns")
	}
	byName := make(map[string]int, len(specs))
	numIndexed := 0
	for pos, spec := range specs {
		if spec.Position != pos {
			return nil, NewSchemaErrorf(
				"Out of order spec %v at position %d", spec, pos)
		}
		if _, ok := byName[spec.Name]; ok {
			return nil, NewSchemaErrorf("Duplicate column name %q", spec.Name)
		}
		byName[spec.Name] = pos
		if spec.Indexed {
			if pos != numIndexed {
				return nil, NewSchemaErrorf(
					"Indexed spec %v outside the indexed prefix", spec)
			}
			numIndexed++
		}
	}
	return &TypeDescription{
		specs:      specs,
		numIndexed: numIndexed,
		byName:     byName,
	}, nil
}

func newSpec(field *Field, indexed bool, origPos int) *TypeSpec {
	return &TypeSpec{
		Name:         field.Name,
		DataType:     field.DataType,
		Nullable:     field.Nullable,
		Indexed:      indexed,
		OrigPosition: origPos,
	}
}

// Size returns the number of columns.
func (td *TypeDescription) Size() int {
	return len(td.specs)
}

// NumIndexed returns the number of indexed columns.
func (td *TypeDescription) NumIndexed() int {
	return td.numIndexed
}

// At returns the spec at the given read-layout position.
func (td *TypeDescription) At(ordinal int) *TypeSpec {
	return td.specs[ordinal]
}

// Position returns the read-layout position for a column name.
func (td *TypeDescription) Position(name string) (int, error) {
	pos, ok := td.byName[name]
	if !ok {
		return -1, NewUnknownColumnf("No column %q in type description %v", name, td)
	}
	return pos, nil
}

func (td *TypeDescription) Equals(other *TypeDescription) bool {
	if other == nil || len(td.specs) != len(other.specs) {
		return false
	}
	for i, spec := range td.specs {
		if !spec.Equals(other.specs[i]) {
			return false
		}
	}
	return true
}

func (td *TypeDescription) String() string {
	parts := make([]string, len(td.specs))
	for i, spec := range td.specs {
		parts[i] = spec.String()
	}
	return fmt.Sprintf("TypeDescription[%s]", strings.Join(parts, ", "))
}
