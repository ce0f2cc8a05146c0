package errors

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// SourceNotFoundError occurs when a source path does not resolve to a readable file
type SourceNotFoundError struct {
	Path string
	Err  error
}

// Error returns a textual representation of this SourceNotFoundError
func (e SourceNotFoundError) Error() string {
	return fmt.Sprintf("Source %s does not resolve to a readable file", e.Path)
}

// Unwrap returns the underlying filesystem error, if any
func (e SourceNotFoundError) Unwrap() error {
	return e.Err
}

// SourceFormatError occurs when source content cannot be parsed as tabular data
type SourceFormatError struct {
	Err error
}

// Error returns a textual representation of this SourceFormatError
func (e SourceFormatError) Error() string {
	return fmt.Sprintf("Source cannot be parsed as tabular data: %v", e.Err)
}

// Unwrap returns the underlying parse error
func (e SourceFormatError) Unwrap() error {
	return e.Err
}

// ColumnNotFoundError occurs when a configured column is absent from a stream's column set
type ColumnNotFoundError struct{ Name string }

// Error returns a textual representation of this ColumnNotFoundError
func (e ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Column %s does not exist", e.Name)
}

// ColumnExistsError occurs when a new column would shadow an existing one
type ColumnExistsError struct{ Name string }

// Error returns a textual representation of this ColumnExistsError
func (e ColumnExistsError) Error() string {
	return fmt.Sprintf("Column %s already exists", e.Name)
}

// ScaleTargetInvalidError occurs when a ColumnScale output column or factor is unusable
type ScaleTargetInvalidError struct {
	Name   string
	Reason string
}

// Error returns a textual representation of this ScaleTargetInvalidError
func (e ScaleTargetInvalidError) Error() string {
	return fmt.Sprintf("Scale target %q is invalid: %s", e.Name, e.Reason)
}

// InvalidConfigError occurs when a PipelineConfig is unusable before any source data is consulted
type InvalidConfigError struct{ Reason string }

// Error returns a textual representation of this InvalidConfigError
func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("Invalid pipeline configuration: %s", e.Reason)
}

// TypeMismatchError occurs when a Row value has an unexpected type for an operation
type TypeMismatchError struct {
	Name  string
	Value interface{}
}

// Error returns a textual representation of this TypeMismatchError
func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("Value for column %s is not numeric. Was: %#v", e.Name, e.Value)
}

// ChunkFullError occurs when a Chunk has reached its max size and a new Row insertion is attempted
type ChunkFullError struct{}

// Error returns a textual representation of this ChunkFullError
func (e ChunkFullError) Error() string {
	return "Chunk is full"
}

// NoMoreChunksError occurs when there are no more chunks in a ChunkIterator
type NoMoreChunksError struct{}

// Error returns a textual representation of this NoMoreChunksError
func (e NoMoreChunksError) Error() string {
	return "No more chunks"
}

// NoMoreRecordsError occurs when a RecordIterator is exhausted or its run was cancelled
type NoMoreRecordsError struct{}

// Error returns a textual representation of this NoMoreRecordsError
func (e NoMoreRecordsError) Error() string {
	return "No more records"
}

// IsNotFound returns true iff err indicates an unreadable source path
func IsNotFound(err error) bool {
	_, ok := err.(SourceNotFoundError)
	return ok
}

// IsFormatError returns true iff err indicates unparseable source content
func IsFormatError(err error) bool {
	_, ok := err.(SourceFormatError)
	return ok
}

// IsConfigError returns true iff err indicates a configuration problem which
// fails a stream before any record is emitted
func IsConfigError(err error) bool {
	switch e := err.(type) {
	case ColumnNotFoundError, ScaleTargetInvalidError, InvalidConfigError:
		return true
	case *multierror.Error:
		if len(e.Errors) == 0 {
			return false
		}
		for _, inner := range e.Errors {
			if !IsConfigError(inner) {
				return false
			}
		}
		return true
	}
	return false
}

// IsNoMoreRecords returns true iff err marks the normal end of a record sequence
func IsNoMoreRecords(err error) bool {
	_, ok := err.(NoMoreRecordsError)
	return ok
}

// IsNoMoreChunks returns true iff err marks the normal end of a chunk sequence
func IsNoMoreChunks(err error) bool {
	_, ok := err.(NoMoreChunksError)
	return ok
}
