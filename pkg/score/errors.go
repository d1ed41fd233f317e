package score

import "errors"

// Sentinel kinds for structural violations. These allow errors.Is/As from
// callers; they are returned by the call that introduced the violation.
var (
	// ErrStreamOperand marks an operation that requires a statically known
	// duration being handed an event stream (left operand of a
	// concatenation, any operand of a repetition).
	ErrStreamOperand = errors.New("operation not defined on an event stream")

	// ErrStreamChild marks an attempt to hang an event stream under a
	// Tracks node.
	ErrStreamChild = errors.New("event stream cannot be a tracks child")

	// ErrCycle marks an attempt to build a Tracks tree containing itself.
	ErrCycle = errors.New("tracks tree must be acyclic")

	// ErrUnboundedDuration marks a duration query on a stream whose end
	// has not been observed yet.
	ErrUnboundedDuration = errors.New("stream duration not known before end of stream")

	// ErrStreamConsumed marks a pull on a stream side that was invalidated
	// by a fork.
	ErrStreamConsumed = errors.New("stream already consumed")

	// ErrDeviceClosed marks use of a real-time stream whose device binding
	// was released.
	ErrDeviceClosed = errors.New("real-time device closed")
)
