// Package pipeline orchestrates one streaming run: a ChunkIterator threaded
// through a Transform, exposed to the transport layer as a lazy
// RecordIterator. Runs are isolated: each Runner owns its own source handle
// and transform state, and nothing survives the end of a run.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	multierror "github.com/hashicorp/go-multierror"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
	"github.com/go-sif/tabstream/logging"
	"github.com/go-sif/tabstream/operations/transform"
)

// Runner drives a single run of the chunked streaming pipeline. A Runner is
// single-use: Run may be called once, and a failed or cancelled run is never
// resumed - a fresh Runner re-reads the source from the start.
type Runner struct {
	id     string
	source tabstream.DataSource
	parser tabstream.DataSourceParser
	conf   *tabstream.PipelineConfig
	log    *logging.Logger
	state  RunState
	lock   sync.Mutex
}

// CreateRunner is a factory for Runners
func CreateRunner(source tabstream.DataSource, parser tabstream.DataSourceParser, conf *tabstream.PipelineConfig, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.CreateLogger(logging.InfoLevel, nil)
	}
	return &Runner{
		id:     uuid.Must(uuid.NewV4()).String(),
		source: source,
		parser: parser,
		conf:   conf,
		log:    log,
		state:  Idle,
	}
}

// ID returns the unique identifier of this run
func (r *Runner) ID() string {
	return r.id
}

// State returns the current RunState of this Runner
func (r *Runner) State() RunState {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

func (r *Runner) setState(state RunState) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.log.Debugf("run %s: %s -> %s", r.id, r.state, state)
	r.state = state
}

// Run validates this Runner's configuration against the source's first Chunk,
// then begins streaming. Configuration and source-open problems are returned
// here, before any record is emitted; the returned RecordIterator lazily
// yields records as the source is read. Cancelling ctx stops the run at the
// next record pull, releasing the source handle and discarding any transform
// state.
func (r *Runner) Run(ctx context.Context) (tabstream.RecordIterator, error) {
	r.lock.Lock()
	if r.state != Idle {
		r.lock.Unlock()
		return nil, fmt.Errorf("run %s has already started", r.id)
	}
	r.state = Validating
	r.lock.Unlock()

	trans, err := transform.CreateTransform(r.conf)
	if err != nil {
		r.setState(Failed)
		return nil, err
	}
	chunks, err := r.source.Load(r.parser)
	if err != nil {
		r.setState(Failed)
		r.log.Errorf("run %s: cannot open %s: %v", r.id, r.source.ToString(), err)
		return nil, err
	}
	// validation requires the column set, so the first chunk is pulled early.
	// It is still the first chunk the transform sees once streaming begins.
	first, err := chunks.NextChunk()
	if err != nil {
		r.failValidation(chunks, err)
		return nil, err
	}
	schema := first.Schema()
	projSchema, err := r.projectionSchema(schema)
	if err != nil {
		r.failValidation(chunks, err)
		return nil, err
	}
	if first, err = first.Select(projSchema); err != nil {
		r.failValidation(chunks, err)
		return nil, err
	}
	if _, err = trans.Setup(projSchema); err != nil {
		r.failValidation(chunks, err)
		return nil, err
	}
	r.setState(Streaming)
	r.log.Infof("run %s: streaming %s (variant=%s chunksize=%d columns=%s)",
		r.id, r.source.ToString(), r.conf.Variant, r.parser.ChunkSize(), projSchema.ToString())
	return &runRecordIterator{
		ctx:          ctx,
		runner:       r,
		chunks:       chunks,
		trans:        trans,
		projSchema:   projSchema,
		first:        first,
		endListeners: []func(){},
	}, nil
}

func (r *Runner) failValidation(chunks tabstream.ChunkIterator, err error) {
	chunks.Close()
	r.setState(Failed)
	r.log.Errorf("run %s: validation failed: %v", r.id, err)
}

// projectionSchema resolves the optional column projection against the
// source's column set, collecting every missing column rather than stopping
// at the first
func (r *Runner) projectionSchema(schema *tabstream.Schema) (*tabstream.Schema, error) {
	if len(r.conf.Columns) == 0 {
		return schema, nil
	}
	var result *multierror.Error
	for _, name := range r.conf.Columns {
		if !schema.HasColumn(name) {
			result = multierror.Append(result, errors.ColumnNotFoundError{Name: name})
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return schema.Select(r.conf.Columns)
}
