// Package simerr defines the error taxonomy shared across the pipeline
// stages: config problems, degenerate per-segment input, numeric faults,
// recoverable capacity overruns, and I/O failures from the external
// readers/writers the orchestrator talks to.
package simerr

import "fmt"

// InvalidConfig reports an unknown recombination model, an unreadable
// descriptor file, or a required key missing without a documented default.
type InvalidConfig struct {
	Reason string
	Err    error
}

func (e *InvalidConfig) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid config: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid config: %s", e.Reason)
}

func (e *InvalidConfig) Unwrap() error { return e.Err }

// NewInvalidConfig builds an InvalidConfig with no wrapped cause.
func NewInvalidConfig(reason string) *InvalidConfig {
	return &InvalidConfig{Reason: reason}
}

// WrapInvalidConfig builds an InvalidConfig wrapping a lower-level error.
func WrapInvalidConfig(reason string, err error) *InvalidConfig {
	return &InvalidConfig{Reason: reason, Err: err}
}

// InvalidInput reports a per-segment degeneracy: zero length on the anode
// projection combined with zero drift. The segment is skipped, not fatal.
type InvalidInput struct {
	SegmentIndex int
	Reason       string
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("invalid input at segment %d: %s", e.SegmentIndex, e.Reason)
}

// NumericFault reports a NaN recombination factor, a NaN diffusion sigma, or
// a non-positive `a` coefficient in the Gaussian line-charge integral. Fatal
// for the batch it occurred in.
type NumericFault struct {
	Stage        string
	SegmentIndex int
	Reason       string
}

func (e *NumericFault) Error() string {
	return fmt.Sprintf("numeric fault in %s at segment %d: %s", e.Stage, e.SegmentIndex, e.Reason)
}

// CapacityExceeded reports that the active- or neighbor-pixel count for a
// batch exceeded its pre-allocated bound. Recoverable: the orchestrator
// re-runs the association stage once.
type CapacityExceeded struct {
	Bound    string
	Needed   int
	Capacity int
}

func (e *CapacityExceeded) Error() string {
	return fmt.Sprintf("capacity exceeded for %s: needed %d, had %d", e.Bound, e.Needed, e.Capacity)
}

// IOError wraps a failure from an external reader or writer (segment input,
// descriptor files, output sink).
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO builds an IOError wrapping a lower-level error.
func WrapIO(op string, err error) *IOError {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}
