package tabstream

// ChunkIterator is a lazy, finite, non-restartable sequence of Chunks read
// incrementally from a tabular source. Implementations must not read ahead of
// the most recent NextChunk call, so that a slow consumer bounds memory use to
// a single in-flight Chunk.
type ChunkIterator interface {
	// HasNextChunk returns true iff this ChunkIterator may produce another Chunk
	HasNextChunk() bool
	// NextChunk returns the next Chunk if one is available, or a NoMoreChunksError.
	// The final Chunk of a source may hold fewer rows than the chunk size, including zero.
	NextChunk() (*Chunk, error)
	// OnEnd registers a listener which fires once, when this iterator is exhausted or closed
	OnEnd(onEnd func())
	// Close releases underlying resources early, firing any end listeners.
	// Safe to call more than once.
	Close() error
}
