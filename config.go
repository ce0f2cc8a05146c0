package tabstream

import (
	"math"

	errors "github.com/go-sif/tabstream/errors"
)

// TransformVariant names one member of the closed Transform catalog
type TransformVariant string

const (
	// Passthrough emits every source row unchanged
	Passthrough TransformVariant = "passthrough"
	// ColumnScale multiplies one numeric column by a constant factor
	ColumnScale TransformVariant = "scale"
	// GroupAggregate emits per-group count/sum/mean summaries after the full source is consumed
	GroupAggregate TransformVariant = "group"
)

// PipelineConfig describes which Transform variant a run should apply, along
// with its parameters. It is immutable once a run starts. Column references
// are validated against the stream's first Chunk by the pipeline runner;
// Validate only checks what can be known without seeing the source.
type PipelineConfig struct {
	Variant     TransformVariant
	ScaleSrc    string   // ColumnScale: column holding the values to scale
	ScaleFactor float64  // ColumnScale: multiplier; may be negative, zero or fractional
	ScaleOut    string   // ColumnScale: output column; may equal ScaleSrc, or extend the column set
	GroupByKey  string   // GroupAggregate: column whose values partition rows into groups
	Columns     []string // optional projection applied before the Transform; empty means all columns
}

// Validate checks this PipelineConfig for problems detectable without the
// source's column set
func (c *PipelineConfig) Validate() error {
	switch c.Variant {
	case Passthrough:
	case ColumnScale:
		if c.ScaleSrc == "" {
			return errors.InvalidConfigError{Reason: "scale source column is required"}
		}
		if c.ScaleOut == "" {
			return errors.ScaleTargetInvalidError{Name: c.ScaleOut, Reason: "scale output column is required"}
		}
		if math.IsNaN(c.ScaleFactor) || math.IsInf(c.ScaleFactor, 0) {
			return errors.ScaleTargetInvalidError{Name: c.ScaleOut, Reason: "scale factor must be a finite number"}
		}
	case GroupAggregate:
		if c.GroupByKey == "" {
			return errors.InvalidConfigError{Reason: "group-by key column is required"}
		}
	default:
		return errors.InvalidConfigError{Reason: "unknown transform variant " + string(c.Variant)}
	}
	return nil
}
