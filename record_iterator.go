package tabstream

// RecordIterator is a lazy sequence of emitted Rows, pulled by the transport
// layer one record at a time. The producer only advances when the consumer
// asks for the next record, so backpressure is simply the consumer not
// calling NextRecord.
type RecordIterator interface {
	// HasNextRecord returns false once this iterator is known to be exhausted.
	// It may return true when the underlying source has not yet been read far
	// enough to know, in which case NextRecord reports exhaustion.
	HasNextRecord() bool
	// NextRecord returns the next emitted Row, a NoMoreRecordsError once the
	// sequence is exhausted or cancelled, or any terminal stream error.
	NextRecord() (*Row, error)
	// OnEnd registers a listener which fires once, when this iterator is exhausted or closed
	OnEnd(onEnd func())
	// Close cancels the run early, releasing the underlying source and
	// discarding any transform state. Safe to call more than once.
	Close() error
}
