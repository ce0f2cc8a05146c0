// Package file provides a DataSource backed by a single file on disk. Files
// with an .lz4 extension are decompressed transparently while streaming.
package file

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
	"github.com/pierrec/lz4"
)

// DataSource is a file containing tabular data which will be streamed as Chunks
type DataSource struct {
	path string
}

// CreateDataSource is a factory for file DataSources
func CreateDataSource(path string) *DataSource {
	return &DataSource{path: path}
}

// ToString returns a string representation of this DataSource
func (fs *DataSource) ToString() string {
	return fmt.Sprintf("File source path: %s", fs.path)
}

// Load opens the underlying file and hands it to the given parser. The open
// handle lives for the lifetime of the returned iterator and is released when
// the iterator is exhausted or closed. A path which does not resolve to a
// readable file produces a SourceNotFoundError.
func (fs *DataSource) Load(parser tabstream.DataSourceParser) (tabstream.ChunkIterator, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		return nil, errors.SourceNotFoundError{Path: fs.path, Err: err}
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, errors.SourceNotFoundError{Path: fs.path, Err: err}
	}
	var r io.Reader = f
	if strings.HasSuffix(fs.path, ".lz4") {
		r = lz4.NewReader(f)
	}
	pi, err := parser.Parse(r, func() {
		f.Close()
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return pi, nil
}
