package pipeline

// RunState tracks the lifecycle of one pipeline run
type RunState int

const (
	// Idle indicates a Runner which has not yet started
	Idle RunState = iota
	// Validating indicates a Runner checking its configuration against the source's first Chunk
	Validating
	// Streaming indicates a Runner lazily yielding records to its consumer
	Streaming
	// Completed indicates a Runner whose source was exhausted and whose records were all emitted
	Completed
	// Failed indicates a Runner stopped by a configuration or source error
	Failed
	// Cancelled indicates a Runner stopped early by its consumer. Cancellation is a normal terminal state, not an error.
	Cancelled
)

// String returns a string representation of this RunState
func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Streaming:
		return "streaming"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
