package transform

import (
	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

// scaleTransform multiplies one numeric column by a constant factor, writing
// the result to an output column which may overwrite the source column or
// extend the stream's column set
type scaleTransform struct {
	src       string
	factor    float64
	out       string
	outSchema *tabstream.Schema
}

// CreateColumnScale returns a new ColumnScale Transform. It carries no state
// across Chunks. Rows whose source value is nil or non-numeric are still
// emitted, with the output column set to nil, so one malformed row does not
// fail the stream.
func CreateColumnScale(src string, factor float64, out string) tabstream.Transform {
	return &scaleTransform{src: src, factor: factor, out: out}
}

// Setup checks the source column against the stream's column set and extends
// it with the output column if necessary
func (t *scaleTransform) Setup(schema *tabstream.Schema) (*tabstream.Schema, error) {
	if !schema.HasColumn(t.src) {
		return nil, errors.ColumnNotFoundError{Name: t.src}
	}
	t.outSchema = schema
	if !schema.HasColumn(t.out) {
		t.outSchema = schema.Clone()
		if err := t.outSchema.CreateColumn(t.out); err != nil {
			return nil, errors.ScaleTargetInvalidError{Name: t.out, Reason: err.Error()}
		}
	}
	return t.outSchema, nil
}

// Apply emits one record per Row, in order, with the output column holding
// the scaled value
func (t *scaleTransform) Apply(chunk *tabstream.Chunk) ([]*tabstream.Row, error) {
	records := make([]*tabstream.Row, 0, chunk.NumRows())
	err := chunk.ForEachRow(func(row *tabstream.Row) error {
		out, err := row.Widen(t.outSchema)
		if err != nil {
			return err
		}
		val, err := row.GetFloat64(t.src)
		if err != nil {
			// row-level mismatch: null the output and keep streaming
			if _, ok := err.(errors.TypeMismatchError); !ok {
				return err
			}
			if err = out.SetNil(t.out); err != nil {
				return err
			}
		} else if err = out.Set(t.out, val*t.factor); err != nil {
			return err
		}
		records = append(records, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Finish emits nothing: all records were emitted per-chunk
func (t *scaleTransform) Finish() ([]*tabstream.Row, error) {
	return nil, nil
}
