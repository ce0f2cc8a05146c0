package jsonl

import (
	"bufio"
	"io"
	"sync"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

type jsonlChunkIterator struct {
	parser       *Parser
	scanner      *bufio.Scanner
	schema       *tabstream.Schema
	pendingLine  string
	hasPending   bool
	hasNext      bool
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Chunks or is closed
func (jsi *jsonlChunkIterator) OnEnd(onEnd func()) {
	jsi.lock.Lock()
	defer jsi.lock.Unlock()
	jsi.endListeners = append(jsi.endListeners, onEnd)
}

// HasNextChunk returns true iff this ChunkIterator may produce another Chunk
func (jsi *jsonlChunkIterator) HasNextChunk() bool {
	jsi.lock.Lock()
	defer jsi.lock.Unlock()
	return jsi.hasNext
}

// fireEndListeners must be called with the lock held
func (jsi *jsonlChunkIterator) fireEndListeners() {
	jsi.hasNext = false
	for _, l := range jsi.endListeners {
		l()
	}
	jsi.endListeners = []func(){}
}

// Close stops this iterator early, firing end listeners so the underlying
// handle is released
func (jsi *jsonlChunkIterator) Close() error {
	jsi.lock.Lock()
	defer jsi.lock.Unlock()
	jsi.fireEndListeners()
	return nil
}

// nextLine returns the next non-empty line, or io.EOF
func (jsi *jsonlChunkIterator) nextLine() (string, error) {
	if jsi.hasPending {
		jsi.hasPending = false
		return jsi.pendingLine, nil
	}
	for jsi.scanner.Scan() {
		line := jsi.scanner.Text()
		if len(line) > 0 {
			return line, nil
		}
	}
	if err := jsi.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// NextChunk returns the next Chunk if one is available. The final Chunk of a
// source may be empty when the row count is a multiple of the chunk size;
// subsequent calls return a NoMoreChunksError.
func (jsi *jsonlChunkIterator) NextChunk() (*tabstream.Chunk, error) {
	jsi.lock.Lock()
	defer jsi.lock.Unlock()
	if !jsi.hasNext {
		return nil, errors.NoMoreChunksError{}
	}
	// the first line fixes the column set, and is consumed as data below
	if jsi.schema == nil {
		line, err := jsi.nextLine()
		if err != nil {
			jsi.fireEndListeners()
			if err == io.EOF {
				return nil, errors.SourceFormatError{Err: io.ErrUnexpectedEOF}
			}
			return nil, errors.SourceFormatError{Err: err}
		}
		schema, err := scanSchema(line)
		if err != nil {
			jsi.fireEndListeners()
			return nil, errors.SourceFormatError{Err: err}
		}
		jsi.schema = schema
		jsi.pendingLine = line
		jsi.hasPending = true
	}
	chunk := tabstream.CreateChunk(jsi.schema, jsi.parser.ChunkSize())
	for chunk.NumRows() < chunk.MaxRows() {
		line, err := jsi.nextLine()
		if err == io.EOF {
			jsi.fireEndListeners()
			return chunk, nil
		} else if err != nil {
			jsi.fireEndListeners()
			return nil, errors.SourceFormatError{Err: err}
		}
		row := tabstream.CreateRow(jsi.schema)
		if err = scanRow(line, jsi.schema, row); err != nil {
			jsi.fireEndListeners()
			return nil, errors.SourceFormatError{Err: err}
		}
		if err = chunk.AppendRow(row); err != nil {
			jsi.fireEndListeners()
			return nil, err
		}
	}
	return chunk, nil
}
