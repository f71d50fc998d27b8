package invocations

import (
	"errors"
	"fmt"
	"time"

	"github.com/galaxybio/blend/core"
)

// ErrPDFUnavailable marks a report.pdf request the server declined. The usual
// cause is that the server's optional pdf rendering dependencies are not
// installed.
var ErrPDFUnavailable = errors.New("pdf report unavailable, server may lack pdf rendering dependencies")

// ErrInvalidWaitOptions marks Wait arguments that violate its preconditions.
// It is returned synchronously, before any request is made.
var ErrInvalidWaitOptions = errors.New("invalid wait options")

// InvocationFailedError is returned by Wait when state checking is enabled
// and the invocation reached a terminal state other than scheduled.
type InvocationFailedError struct {
	InvocationID string
	State        core.InvocationState
}

func (e *InvocationFailedError) Error() string {
	return fmt.Sprintf("invocation %s is in terminal state %s", e.InvocationID, e.State)
}

// TimeoutError is returned by Wait when the time budget ran out before the
// invocation reached a terminal state.
type TimeoutError struct {
	InvocationID string

	// State is the last non-terminal state observed.
	State core.InvocationState

	// MaxWait is the budget that was exhausted.
	MaxWait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("invocation %s is still in non-terminal state %s after %s", e.InvocationID, e.State, e.MaxWait)
}
