package tabstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	errors "github.com/go-sif/tabstream/errors"
)

// Row is a single row of tabular data: an ordered mapping from column name to
// a scalar value (int64, float64, bool, string or nil), along with a reference
// to the Schema describing its column set. Rows marshal to JSON objects whose
// keys appear in Schema order.
type Row struct {
	schema *Schema
	values []interface{}
}

// CreateRow is a factory for empty Rows matching a given Schema
func CreateRow(schema *Schema) *Row {
	return &Row{schema: schema, values: make([]interface{}, schema.NumColumns())}
}

// Schema returns the Schema for this Row
func (r *Row) Schema() *Schema {
	return r.schema
}

// IsNil returns true iff the given column value is nil in this Row. If the column does not exist, this function returns false.
func (r *Row) IsNil(colName string) bool {
	idx, err := r.schema.ColumnIndex(colName)
	if err != nil {
		return false
	}
	return r.values[idx] == nil
}

// SetNil sets the given column value to nil within this Row
func (r *Row) SetNil(colName string) error {
	idx, err := r.schema.ColumnIndex(colName)
	if err != nil {
		return err
	}
	r.values[idx] = nil
	return nil
}

// Get returns the value of any column as an interface{}, if it exists
func (r *Row) Get(colName string) (interface{}, error) {
	idx, err := r.schema.ColumnIndex(colName)
	if err != nil {
		return nil, err
	}
	return r.values[idx], nil
}

// GetFloat64 retrieves a numeric value from the column with the given name,
// widening int64 values to float64. A nil or non-numeric value produces a
// TypeMismatchError.
func (r *Row) GetFloat64(colName string) (float64, error) {
	val, err := r.Get(colName)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, errors.TypeMismatchError{Name: colName, Value: val}
	}
}

// GetString retrieves a string value from the column with the given name
func (r *Row) GetString(colName string) (string, error) {
	val, err := r.Get(colName)
	if err != nil {
		return "", err
	}
	v, ok := val.(string)
	if !ok {
		return "", errors.TypeMismatchError{Name: colName, Value: val}
	}
	return v, nil
}

// Set stores a scalar value in the column with the given name
func (r *Row) Set(colName string, value interface{}) error {
	idx, err := r.schema.ColumnIndex(colName)
	if err != nil {
		return err
	}
	r.values[idx] = value
	return nil
}

// Project produces a new Row containing only the columns of the given Schema,
// which must be a subset of this Row's Schema
func (r *Row) Project(schema *Schema) (*Row, error) {
	projected := CreateRow(schema)
	for _, name := range schema.names {
		val, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		if err = projected.Set(name, val); err != nil {
			return nil, err
		}
	}
	return projected, nil
}

// Widen produces a new Row matching a wider Schema, carrying over every value
// from this Row. Columns present only in the wider Schema start nil.
func (r *Row) Widen(schema *Schema) (*Row, error) {
	widened := CreateRow(schema)
	for i, name := range r.schema.names {
		if err := widened.Set(name, r.values[i]); err != nil {
			return nil, err
		}
	}
	return widened, nil
}

// MarshalJSON serializes this Row as a JSON object with keys in Schema order
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.schema.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToString returns a string representation of this Row
func (r *Row) ToString() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range r.schema.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", name, r.values[i])
	}
	sb.WriteByte('}')
	return sb.String()
}
