package tabstream

import (
	"strings"

	errors "github.com/go-sif/tabstream/errors"
)

// Schema is an ordered set of column names shared by every Row in a Chunk.
// The column set of a stream is fixed by the first Chunk read from a source,
// though a Transform may extend it once before streaming begins.
type Schema struct {
	names   []string
	indices map[string]int
}

// CreateSchema is a factory for Schemas, preserving the order of the given column names
func CreateSchema(names []string) (*Schema, error) {
	s := &Schema{
		names:   make([]string, 0, len(names)),
		indices: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if err := s.CreateColumn(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NumColumns returns the number of columns in this Schema
func (s *Schema) NumColumns() int {
	return len(s.names)
}

// ColumnNames returns the names of the columns in this Schema, in order
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// HasColumn returns true iff this Schema contains a column with the given name
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.indices[name]
	return ok
}

// ColumnIndex returns the position of the named column within this Schema
func (s *Schema) ColumnIndex(name string) (int, error) {
	idx, ok := s.indices[name]
	if !ok {
		return -1, errors.ColumnNotFoundError{Name: name}
	}
	return idx, nil
}

// CreateColumn appends a new column to this Schema
func (s *Schema) CreateColumn(name string) error {
	if _, ok := s.indices[name]; ok {
		return errors.ColumnExistsError{Name: name}
	}
	s.indices[name] = len(s.names)
	s.names = append(s.names, name)
	return nil
}

// Clone returns a copy of this Schema
func (s *Schema) Clone() *Schema {
	clone := &Schema{
		names:   make([]string, len(s.names)),
		indices: make(map[string]int, len(s.indices)),
	}
	copy(clone.names, s.names)
	for name, idx := range s.indices {
		clone.indices[name] = idx
	}
	return clone
}

// Select produces a new Schema containing only the given columns, in the given
// order. Every requested column must exist in this Schema.
func (s *Schema) Select(names []string) (*Schema, error) {
	for _, name := range names {
		if !s.HasColumn(name) {
			return nil, errors.ColumnNotFoundError{Name: name}
		}
	}
	return CreateSchema(names)
}

// Equals returns true iff this and another Schema have identical column sets in identical order
func (s *Schema) Equals(other *Schema) bool {
	if other == nil || len(s.names) != len(other.names) {
		return false
	}
	for i, name := range s.names {
		if other.names[i] != name {
			return false
		}
	}
	return true
}

// ToString returns a string representation of this Schema
func (s *Schema) ToString() string {
	return strings.Join(s.names, ",")
}
