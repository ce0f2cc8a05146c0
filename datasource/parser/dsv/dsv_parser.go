package dsv

import (
	"encoding/csv"
	"io"

	"github.com/go-sif/tabstream"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	ChunkSize int    // The maximum number of rows per Chunk. Defaults to 128.
	Delimiter rune   // The delimiter separating columns in the file. Defaults to ,
	Comment   rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue  string // A special string which represents nil values in the dataset. Defaults to "" (the empty string).
}

// Parser produces Chunks from DSV data. The first line of the data names the
// columns and fixes the column set for the stream.
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new DSV Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.ChunkSize <= 0 {
		conf.ChunkSize = 128
	}
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	return &Parser{conf: conf}
}

// ChunkSize returns the maximum size in rows of Chunks produced by this Parser
func (p *Parser) ChunkSize() int {
	return p.conf.ChunkSize
}

// Parse prepares to parse DSV data, producing a lazy ChunkIterator. The header
// is not read until the first NextChunk call, so format problems (including an
// unreadable header) surface at first-chunk read time rather than here.
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (tabstream.ChunkIterator, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.ReuseRecord = true

	iterator := &dsvChunkIterator{
		parser:       p,
		reader:       reader,
		hasNext:      true,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}
