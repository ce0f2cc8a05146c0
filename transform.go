package tabstream

// A Transform is one unit of per-chunk computation threaded into the read
// path of a stream. The catalog of Transforms is closed: Passthrough,
// ColumnScale and GroupAggregate. Any state carried across Chunks (such as
// aggregation accumulators) is owned by the Transform instance, which is
// created per run and discarded when the run ends, so instances must never be
// shared between concurrent runs.
type Transform interface {
	// Setup validates this Transform against the column set of a stream's
	// first Chunk, returning the (possibly wider) Schema of emitted records.
	// Configuration problems such as a missing source column surface here,
	// before any record is emitted.
	Setup(schema *Schema) (*Schema, error)
	// Apply consumes one Chunk, in source order, and returns zero or more
	// records for immediate emission
	Apply(chunk *Chunk) ([]*Row, error)
	// Finish is called once, after the source is exhausted, and returns any
	// records which could only be produced once the full source was consumed
	Finish() ([]*Row, error)
}
