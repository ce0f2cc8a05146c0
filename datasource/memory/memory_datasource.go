// Package memory provides a DataSource backed by an in-memory byte slice,
// useful for testing pipelines without touching the filesystem.
package memory

import (
	"bytes"
	"fmt"

	"github.com/go-sif/tabstream"
)

// DataSource is an in-memory buffer of tabular data which will be streamed as Chunks
type DataSource struct {
	data    []byte
	onClose func()
}

// CreateDataSource is a factory for memory DataSources
func CreateDataSource(data []byte) *DataSource {
	return &DataSource{data: data}
}

// OnClose registers a listener which fires when an iterator produced by Load
// releases this source, standing in for the handle release of a file-backed
// source in tests
func (ms *DataSource) OnClose(onClose func()) {
	ms.onClose = onClose
}

// ToString returns a string representation of this DataSource
func (ms *DataSource) ToString() string {
	return fmt.Sprintf("Memory source bytes: %d", len(ms.data))
}

// Load hands the buffered data to the given parser
func (ms *DataSource) Load(parser tabstream.DataSourceParser) (tabstream.ChunkIterator, error) {
	return parser.Parse(bytes.NewReader(ms.data), ms.onClose)
}
