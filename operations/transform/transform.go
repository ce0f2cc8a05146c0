// Package transform implements the closed catalog of tabstream Transforms:
// Passthrough, ColumnScale and GroupAggregate.
package transform

import (
	"github.com/go-sif/tabstream"
	errors "github.com/go-sif/tabstream/errors"
)

// CreateTransform constructs the Transform variant selected by a
// PipelineConfig. A fresh Transform is built per run, so any cross-chunk
// state it carries is isolated from concurrent runs.
func CreateTransform(conf *tabstream.PipelineConfig) (tabstream.Transform, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	switch conf.Variant {
	case tabstream.Passthrough:
		return CreatePassthrough(), nil
	case tabstream.ColumnScale:
		return CreateColumnScale(conf.ScaleSrc, conf.ScaleFactor, conf.ScaleOut), nil
	case tabstream.GroupAggregate:
		return CreateGroupAggregate(conf.GroupByKey), nil
	}
	return nil, errors.InvalidConfigError{Reason: "unknown transform variant " + string(conf.Variant)}
}
