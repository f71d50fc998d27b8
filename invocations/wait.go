package invocations

import (
	"context"
	"fmt"
	"time"

	"github.com/galaxybio/blend/core"
	"github.com/galaxybio/blend/internal/log"
	"github.com/galaxybio/blend/internal/metrickeys"
	"github.com/galaxybio/blend/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WaitOptions bound a Wait call.
type WaitOptions struct {
	// MaxWait is the total budget for the invocation to reach a terminal
	// state. Must not be negative.
	MaxWait time.Duration

	// Interval is the pause between two consecutive polls. Must be positive.
	Interval time.Duration

	// Check fails the wait when the terminal state is anything other than
	// scheduled.
	Check bool
}

// DefaultWaitOptions waits up to 12000s, polling every 3s, and checks that
// the invocation was actually scheduled.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		MaxWait:  12000 * time.Second,
		Interval: 3 * time.Second,
		Check:    true,
	}
}

// Wait polls the invocation until it reaches a terminal state and returns the
// terminal snapshot. When opts.Check is set, cancelled and failed count as
// errors (*InvocationFailedError); scheduled is the only terminal state that
// means the workflow completed its scheduling successfully.
//
// The budget is consumed in Interval-sized ticks rather than measured in
// elapsed wall-clock time: this bounds the number of polls by
// ceil(MaxWait/Interval)+1 regardless of request latency, at the cost of a
// slightly longer wall-clock wait when requests are slow. The final sleep is
// clamped to the remaining budget but still consumes a full tick. When the
// budget runs out with the invocation still in a non-terminal state, a
// *TimeoutError is returned.
//
// Polling is strictly sequential and the sleep between polls is interrupted
// by ctx. Concurrent waits for different invocations need no coordination.
func (c *Client) Wait(ctx context.Context, invocationID string, opts WaitOptions) (*core.Invocation, error) {
	if opts.MaxWait < 0 {
		return nil, fmt.Errorf("%w: max wait must not be negative, got %s", ErrInvalidWaitOptions, opts.MaxWait)
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidWaitOptions, opts.Interval)
	}

	ctx, span := c.tracer.Start(ctx, "WaitForInvocation", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	timer := metrics.Timer(c.metrics, metrickeys.InvocationWaitDuration, metrics.Tags{})
	defer timer.Stop()

	remaining := opts.MaxWait
	for {
		invocation, err := c.Show(ctx, invocationID)
		if err != nil {
			return nil, fmt.Errorf("getting invocation state: %w", err)
		}

		c.metrics.Counter(metrickeys.InvocationPolls, metrics.Tags{}, 1)

		state := invocation.State
		if state.Terminal() {
			if opts.Check && state != core.InvocationStateScheduled {
				return nil, &InvocationFailedError{InvocationID: invocationID, State: state}
			}
			return invocation, nil
		}

		if remaining <= 0 {
			return nil, &TimeoutError{InvocationID: invocationID, State: state, MaxWait: opts.MaxWait}
		}

		c.logger.Debug("Invocation in non-terminal state",
			log.InvocationIDKey, invocationID,
			log.StateKey, state.String(),
			log.RemainingKey, remaining.String(),
		)

		if err := c.sleep(ctx, min(remaining, opts.Interval)); err != nil {
			return nil, err
		}
		remaining -= opts.Interval
	}
}

// sleep suspends for d on the client's clock, or until ctx is done.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	t := c.clock.Timer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
