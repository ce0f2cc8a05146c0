package jsonl

import (
	"bufio"
	"io"

	"github.com/go-sif/tabstream"
)

// ParserConf configures a JSONL Parser, suitable for JSON Lines data
type ParserConf struct {
	ChunkSize     int // The maximum number of rows per Chunk. Defaults to 128.
	MaxBufferSize int // Maximum size in bytes of the buffer used to read lines from the file
}

// Parser produces Chunks from JSONL data. The first line of the data fixes
// the column set for the stream; values in later lines which do not
// correspond to a first-line column are ignored.
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new JSONL Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.ChunkSize <= 0 {
		conf.ChunkSize = 128
	}
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	return &Parser{conf: conf}
}

// ChunkSize returns the maximum size in rows of Chunks produced by this Parser
func (p *Parser) ChunkSize() int {
	return p.conf.ChunkSize
}

// Parse prepares to parse JSONL data, producing a lazy ChunkIterator. Lines
// are not read until the first NextChunk call.
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (tabstream.ChunkIterator, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxBufferSize)

	iterator := &jsonlChunkIterator{
		parser:       p,
		scanner:      scanner,
		hasNext:      true,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}
