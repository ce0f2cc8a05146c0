package pipeline

import (
	"context"
	"sync"

	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

// runRecordIterator is the lazy record sequence of one run. It pulls one
// Chunk at a time from the source, applies the run's Transform, and serves
// the resulting records on demand, so a consumer which stops asking stalls
// the read rather than forcing buffering.
type runRecordIterator struct {
	ctx          context.Context
	runner       *Runner
	chunks       tabstream.ChunkIterator
	trans        tabstream.Transform
	projSchema   *tabstream.Schema
	first        *tabstream.Chunk
	pending      []*tabstream.Row
	nextIdx      int
	finished     bool
	done         bool
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of records or is closed
func (ri *runRecordIterator) OnEnd(onEnd func()) {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	ri.endListeners = append(ri.endListeners, onEnd)
}

// HasNextRecord returns false once this iterator is known to be exhausted. It
// may return true before the source has been read far enough to know.
func (ri *runRecordIterator) HasNextRecord() bool {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	return ri.nextIdx < len(ri.pending) || !ri.done
}

// fireEndListeners must be called with the lock held
func (ri *runRecordIterator) fireEndListeners() {
	for _, l := range ri.endListeners {
		l()
	}
	ri.endListeners = []func(){}
}

// terminate must be called with the lock held
func (ri *runRecordIterator) terminate(state RunState) {
	ri.chunks.Close()
	ri.done = true
	ri.pending = nil
	ri.nextIdx = 0
	ri.runner.setState(state)
	ri.fireEndListeners()
}

// Close cancels the run early: the source handle is released, transform state
// is discarded and no further records are produced
func (ri *runRecordIterator) Close() error {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	if ri.done {
		return nil
	}
	ri.terminate(Cancelled)
	ri.runner.log.Infof("run %s: cancelled", ri.runner.id)
	return nil
}

// NextRecord returns the next emitted record, pulling and transforming source
// Chunks as needed. Exhaustion and cancellation both surface as a
// NoMoreRecordsError; any other error marks the run Failed and is terminal.
func (ri *runRecordIterator) NextRecord() (*tabstream.Row, error) {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	// cancellation is observed before anything else, including records which
	// were already transformed: nothing is emitted after disconnect
	if err := ri.ctx.Err(); err != nil && !ri.done {
		ri.terminate(Cancelled)
		ri.runner.log.Infof("run %s: cancelled by consumer: %v", ri.runner.id, err)
	}
	for {
		if ri.nextIdx < len(ri.pending) {
			record := ri.pending[ri.nextIdx]
			ri.nextIdx++
			// the run is only Completed once the last end-of-stream record
			// has actually been served
			if ri.finished && ri.nextIdx == len(ri.pending) {
				ri.complete()
			}
			return record, nil
		}
		if ri.done {
			return nil, errors.NoMoreRecordsError{}
		}
		if ri.first != nil {
			chunk := ri.first
			ri.first = nil
			if err := ri.applyChunk(chunk); err != nil {
				return nil, err
			}
			continue
		}
		if !ri.chunks.HasNextChunk() {
			if err := ri.finish(); err != nil {
				return nil, err
			}
			continue
		}
		chunk, err := ri.chunks.NextChunk()
		if err != nil {
			if errors.IsNoMoreChunks(err) {
				if err = ri.finish(); err != nil {
					return nil, err
				}
				continue
			}
			// mid-stream source failure: records already served stand, the
			// rest of the stream is truncated
			ri.terminate(Failed)
			ri.runner.log.Errorf("run %s: source failed mid-stream: %v", ri.runner.id, err)
			return nil, err
		}
		if chunk, err = chunk.Select(ri.projSchema); err != nil {
			ri.terminate(Failed)
			return nil, err
		}
		if err = ri.applyChunk(chunk); err != nil {
			return nil, err
		}
	}
}

// applyChunk must be called with the lock held
func (ri *runRecordIterator) applyChunk(chunk *tabstream.Chunk) error {
	records, err := ri.trans.Apply(chunk)
	if err != nil {
		ri.terminate(Failed)
		ri.runner.log.Errorf("run %s: transform failed: %v", ri.runner.id, err)
		return err
	}
	ri.pending = records
	ri.nextIdx = 0
	return nil
}

// finish must be called with the lock held. The source is exhausted: collect
// any end-of-stream records (the GroupAggregate burst). The run stays
// cancellable, and does not Complete, until that burst has been served.
func (ri *runRecordIterator) finish() error {
	ri.chunks.Close()
	records, err := ri.trans.Finish()
	if err != nil {
		ri.terminate(Failed)
		ri.runner.log.Errorf("run %s: transform failed at end of source: %v", ri.runner.id, err)
		return err
	}
	ri.pending = records
	ri.nextIdx = 0
	ri.finished = true
	if len(records) == 0 {
		ri.complete()
	}
	return nil
}

// complete must be called with the lock held, once every record has been served
func (ri *runRecordIterator) complete() {
	ri.done = true
	ri.runner.setState(Completed)
	ri.runner.log.Infof("run %s: completed", ri.runner.id)
	ri.fireEndListeners()
}
