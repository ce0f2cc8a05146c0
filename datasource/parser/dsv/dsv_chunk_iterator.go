package dsv

import (
	"encoding/csv"
	"io"
	"sync"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

type dsvChunkIterator struct {
	parser       *Parser
	reader       *csv.Reader
	schema       *tabstream.Schema
	hasNext      bool
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Chunks or is closed
func (dsvi *dsvChunkIterator) OnEnd(onEnd func()) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	dsvi.endListeners = append(dsvi.endListeners, onEnd)
}

// HasNextChunk returns true iff this ChunkIterator may produce another Chunk
func (dsvi *dsvChunkIterator) HasNextChunk() bool {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	return dsvi.hasNext
}

// fireEndListeners must be called with the lock held
func (dsvi *dsvChunkIterator) fireEndListeners() {
	dsvi.hasNext = false
	for _, l := range dsvi.endListeners {
		l()
	}
	dsvi.endListeners = []func(){}
}

// Close stops this iterator early, firing end listeners so the underlying
// handle is released
func (dsvi *dsvChunkIterator) Close() error {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	dsvi.fireEndListeners()
	return nil
}

// NextChunk returns the next Chunk if one is available. The final Chunk of a
// source may be empty when the row count is a multiple of the chunk size;
// subsequent calls return a NoMoreChunksError.
func (dsvi *dsvChunkIterator) NextChunk() (*tabstream.Chunk, error) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	if !dsvi.hasNext {
		return nil, errors.NoMoreChunksError{}
	}
	// the header fixes the column set, and is read on the first call only
	if dsvi.schema == nil {
		header, err := dsvi.reader.Read()
		if err != nil {
			dsvi.fireEndListeners()
			if err == io.EOF {
				return nil, errors.SourceFormatError{Err: io.ErrUnexpectedEOF}
			}
			return nil, errors.SourceFormatError{Err: err}
		}
		names := make([]string, len(header))
		copy(names, header)
		schema, err := tabstream.CreateSchema(names)
		if err != nil {
			dsvi.fireEndListeners()
			return nil, errors.SourceFormatError{Err: err}
		}
		dsvi.schema = schema
		dsvi.reader.FieldsPerRecord = schema.NumColumns()
	}
	chunk := tabstream.CreateChunk(dsvi.schema, dsvi.parser.ChunkSize())
	for chunk.NumRows() < chunk.MaxRows() {
		fields, err := dsvi.reader.Read()
		if err == io.EOF {
			dsvi.fireEndListeners()
			return chunk, nil
		} else if err != nil {
			// inconsistent column counts and the like fail the stream mid-read
			dsvi.fireEndListeners()
			return nil, errors.SourceFormatError{Err: err}
		}
		row := tabstream.CreateRow(dsvi.schema)
		if err = scanRow(dsvi.parser.conf, dsvi.schema, fields, row); err != nil {
			dsvi.fireEndListeners()
			return nil, errors.SourceFormatError{Err: err}
		}
		if err = chunk.AppendRow(row); err != nil {
			dsvi.fireEndListeners()
			return nil, err
		}
	}
	return chunk, nil
}
