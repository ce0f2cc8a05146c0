package dsv

import (
	"strconv"

	"github.com/go-sif/tabstream"
)

// parseValue infers a scalar type for one DSV field. Integral values parse as
// int64, other numerics as float64, everything else stays a string.
func parseValue(conf *ParserConf, field string) interface{} {
	if field == conf.NilValue {
		return nil
	}
	if ival, err := strconv.ParseInt(field, 10, 64); err == nil {
		return ival
	}
	if fval, err := strconv.ParseFloat(field, 64); err == nil {
		return fval
	}
	return field
}

// scanRow parses a slice of DSV fields into a Row, according to a Schema
func scanRow(conf *ParserConf, schema *tabstream.Schema, fields []string, row *tabstream.Row) error {
	for i, name := range schema.ColumnNames() {
		if err := row.Set(name, parseValue(conf, fields[i])); err != nil {
			return err
		}
	}
	return nil
}
