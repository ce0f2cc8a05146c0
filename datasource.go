package tabstream

import (
	"io"
)

// DataSource is a source of tabular data which can be streamed as Chunks. It
// represents how to acquire the raw bytes of the source; a DataSourceParser
// turns those bytes into Chunks. Load is called once per run and the returned
// iterator owns any handle the DataSource opened, releasing it on exhaustion
// or Close.
type DataSource interface {
	ToString() string                                    // for logging
	Load(parser DataSourceParser) (ChunkIterator, error) // how to actually load data
}

// A DataSourceParser is capable of parsing raw data from a DataSource.Load to
// produce Chunks. Parsing is incremental: format problems surface from the
// returned iterator at chunk-read time, not from Parse itself.
type DataSourceParser interface {
	ChunkSize() int // returns the maximum size of Chunks produced by this DataSourceParser, in rows
	Parse(r io.Reader, onIteratorEnd func()) (ChunkIterator, error)
}
