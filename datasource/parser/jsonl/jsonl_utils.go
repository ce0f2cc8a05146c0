package jsonl

import (
	"fmt"
	"strings"

	"github.com/go-sif/tabstream"
	"github.com/tidwall/gjson"
)

// scanSchema derives a Schema from the first line of JSONL data, preserving
// key order
func scanSchema(line string) (*tabstream.Schema, error) {
	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("line is not a JSON object: %s", line)
	}
	var names []string
	parsed.ForEach(func(key, value gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	if len(names) == 0 {
		return nil, fmt.Errorf("first line contains no columns: %s", line)
	}
	return tabstream.CreateSchema(names)
}

// parseValue converts a gjson value into a tabstream scalar. Integral numbers
// become int64, other numbers float64; absent and null values become nil.
func parseValue(value gjson.Result) interface{} {
	switch value.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if !strings.ContainsAny(value.Raw, ".eE") {
			return value.Int()
		}
		return value.Float()
	case gjson.String:
		return value.String()
	default:
		// nested objects and arrays are carried as their raw JSON text
		return value.Raw
	}
}

// scanRow parses one line of JSONL data into a Row, according to a Schema.
// Column names are gjson paths, so nested values are addressable.
func scanRow(line string, schema *tabstream.Schema, row *tabstream.Row) error {
	if !gjson.Valid(line) {
		return fmt.Errorf("line is not valid JSON: %s", line)
	}
	for _, name := range schema.ColumnNames() {
		value := gjson.Get(line, name)
		if !value.Exists() {
			if err := row.SetNil(name); err != nil {
				return err
			}
			continue
		}
		if err := row.Set(name, parseValue(value)); err != nil {
			return err
		}
	}
	return nil
}
