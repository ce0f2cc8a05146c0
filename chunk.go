package tabstream

import (
	errors "github.com/go-sif/tabstream/errors"
)

// Chunk is an ordered, bounded-size sequence of Rows sharing one Schema. A
// source emits Chunks in source order, and row order within a Chunk matches
// source order. The final Chunk of a source may hold fewer than MaxRows rows.
type Chunk struct {
	schema  *Schema
	rows    []*Row
	maxRows int
}

// CreateChunk is a factory for Chunks with room for maxRows Rows
func CreateChunk(schema *Schema, maxRows int) *Chunk {
	return &Chunk{schema: schema, rows: make([]*Row, 0, maxRows), maxRows: maxRows}
}

// Schema returns the Schema shared by all Rows in this Chunk
func (c *Chunk) Schema() *Schema {
	return c.schema
}

// NumRows returns the number of Rows currently in this Chunk
func (c *Chunk) NumRows() int {
	return len(c.rows)
}

// MaxRows returns the maximum number of Rows this Chunk can hold
func (c *Chunk) MaxRows() int {
	return c.maxRows
}

// GetRow returns the Row at the given position within this Chunk
func (c *Chunk) GetRow(rowNum int) *Row {
	return c.rows[rowNum]
}

// AppendRow adds a Row to the end of this Chunk, unless it is full
func (c *Chunk) AppendRow(row *Row) error {
	if len(c.rows) >= c.maxRows {
		return errors.ChunkFullError{}
	}
	c.rows = append(c.rows, row)
	return nil
}

// ForEachRow iterates over the Rows of this Chunk in order, stopping at the
// first error returned by fn
func (c *Chunk) ForEachRow(fn func(row *Row) error) error {
	for _, row := range c.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Select produces a new Chunk containing only the columns of the given Schema,
// preserving row order
func (c *Chunk) Select(schema *Schema) (*Chunk, error) {
	if c.schema.Equals(schema) {
		return c, nil
	}
	projected := CreateChunk(schema, c.maxRows)
	for _, row := range c.rows {
		prow, err := row.Project(schema)
		if err != nil {
			return nil, err
		}
		if err = projected.AppendRow(prow); err != nil {
			return nil, err
		}
	}
	return projected, nil
}
