package transform

import (
	"github.com/go-sif/tabstream"
)

// passthroughTransform emits every source row unchanged, in source order
type passthroughTransform struct{}

// CreatePassthrough returns a new Passthrough Transform, the identity member
// of the catalog. It carries no state across Chunks.
func CreatePassthrough() tabstream.Transform {
	return &passthroughTransform{}
}

// Setup validates nothing: any column set passes through unchanged
func (t *passthroughTransform) Setup(schema *tabstream.Schema) (*tabstream.Schema, error) {
	return schema, nil
}

// Apply emits each Row of the Chunk as one record, preserving order
func (t *passthroughTransform) Apply(chunk *tabstream.Chunk) ([]*tabstream.Row, error) {
	records := make([]*tabstream.Row, 0, chunk.NumRows())
	err := chunk.ForEachRow(func(row *tabstream.Row) error {
		records = append(records, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Finish emits nothing: all records were emitted per-chunk
func (t *passthroughTransform) Finish() ([]*tabstream.Row, error) {
	return nil, nil
}
