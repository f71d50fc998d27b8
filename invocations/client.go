// Package invocations implements the client for observing workflow
// invocations scheduled on a remote Galaxy server: listing and inspecting
// them, retrieving derived summaries and reports, requesting cancellation,
// and waiting for an invocation to reach a terminal state.
//
// Invocations are created and driven entirely server-side; this client only
// observes them. Every operation returns a fresh snapshot, nothing is cached
// between calls.
package invocations

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strconv"

	"github.com/benbjohnson/clock"
	"github.com/galaxybio/blend/core"
	"github.com/galaxybio/blend/internal/log"
	"github.com/galaxybio/blend/internal/metrickeys"
	"github.com/galaxybio/blend/metrics"
	"github.com/galaxybio/blend/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "galaxy-invocations"

type Client struct {
	api       transport.API
	logger    *slog.Logger
	metrics   metrics.Client
	tracer    trace.Tracer
	clock     clock.Clock
	chunkSize int
}

// New creates an invocation client issuing its requests through api.
func New(api transport.API, opts ...Option) *Client {
	options := applyOptions(opts...)

	return &Client{
		api:       api,
		logger:    options.Logger,
		metrics:   options.Metrics,
		tracer:    options.TracerProvider.Tracer(TracerName),
		clock:     options.Clock,
		chunkSize: options.ChunkSize,
	}
}

// View selects how much detail listed invocations carry.
type View string

const (
	// ViewCollection returns summary fields only.
	ViewCollection View = "collection"

	// ViewElement returns full nested invocation detail.
	ViewElement View = "element"
)

// ListOptions filters and shapes a List call.
//
// The zero value serializes include_terminal=false, which excludes finished
// invocations; use DefaultListOptions for the server defaults.
type ListOptions struct {
	// WorkflowID restricts results to invocations of the given workflow.
	WorkflowID string

	// HistoryID restricts results to invocations in the given history.
	HistoryID string

	// UserID restricts results to invocations owned by the given user.
	// Restricted to admin users by the server.
	UserID string

	// Limit bounds the number of returned invocations. nil sends no limit
	// parameter.
	Limit *int

	// IncludeTerminal also returns invocations that already reached a
	// terminal state.
	IncludeTerminal bool

	View View

	// StepDetails includes full step detail for each invocation. Only has an
	// effect when View is ViewElement.
	StepDetails bool
}

// DefaultListOptions returns the server defaults: terminal invocations
// included, collection view, no step details.
func DefaultListOptions() ListOptions {
	return ListOptions{
		IncludeTerminal: true,
		View:            ViewCollection,
	}
}

// values serializes the options. IncludeTerminal, View and StepDetails are
// meaningful at their zero values and always sent; the optional filters are
// only sent when the caller supplied them.
func (o ListOptions) values() url.Values {
	view := o.View
	if view == "" {
		view = ViewCollection
	}

	v := url.Values{}
	v.Set("include_terminal", strconv.FormatBool(o.IncludeTerminal))
	v.Set("view", string(view))
	v.Set("step_details", strconv.FormatBool(o.StepDetails))

	if o.WorkflowID != "" {
		v.Set("workflow_id", o.WorkflowID)
	}
	if o.HistoryID != "" {
		v.Set("history_id", o.HistoryID)
	}
	if o.UserID != "" {
		v.Set("user_id", o.UserID)
	}
	if o.Limit != nil {
		v.Set("limit", strconv.Itoa(*o.Limit))
	}

	return v
}

// List returns the workflow invocations matching opts.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]*core.Invocation, error) {
	ctx, span := c.tracer.Start(ctx, "ListInvocations", trace.WithAttributes(
		attribute.String(log.WorkflowIDKey, opts.WorkflowID),
		attribute.String(log.HistoryIDKey, opts.HistoryID),
	))
	defer span.End()

	var invocations []*core.Invocation
	if err := c.api.Get(ctx, "invocations", opts.values(), &invocations); err != nil {
		return nil, err
	}

	return invocations, nil
}

// Show returns the current snapshot of the invocation's scheduling. The
// result may be sparse at first, missing inputs and steps, and becomes more
// populated as the server actually schedules the workflow. Callers must not
// assume a fixed shape.
func (c *Client) Show(ctx context.Context, invocationID string) (*core.Invocation, error) {
	ctx, span := c.tracer.Start(ctx, "ShowInvocation", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	var invocation core.Invocation
	if err := c.api.Get(ctx, invocationPath(invocationID), nil, &invocation); err != nil {
		return nil, err
	}

	return &invocation, nil
}

// Cancel requests cancellation of the invocation's scheduling. The returned
// snapshot reflects the invocation as it stood at cancellation request time;
// the server may take a while longer to actually reach the cancelled state.
// Combine with Wait to observe it.
func (c *Client) Cancel(ctx context.Context, invocationID string) (*core.Invocation, error) {
	ctx, span := c.tracer.Start(ctx, "CancelInvocation", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	var invocation core.Invocation
	if err := c.api.Delete(ctx, invocationPath(invocationID), &invocation); err != nil {
		return nil, err
	}

	c.logger.Debug("Requested invocation cancellation",
		log.InvocationIDKey, invocationID,
		log.StateKey, invocation.State.String(),
	)

	c.metrics.Counter(metrickeys.InvocationCancelled, metrics.Tags{}, 1)

	return &invocation, nil
}

// ShowStep returns the details of a single invocation step.
func (c *Client) ShowStep(ctx context.Context, invocationID, stepID string) (*core.InvocationStep, error) {
	ctx, span := c.tracer.Start(ctx, "ShowInvocationStep", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
		attribute.String(log.StepIDKey, stepID),
	))
	defer span.End()

	var step core.InvocationStep
	if err := c.api.Get(ctx, stepPath(invocationID, stepID), nil, &step); err != nil {
		return nil, err
	}

	return &step, nil
}

// RunStepAction executes an action on an active invocation step. What the
// action means and which values are accepted depends on the step type; for
// pause steps it is the boolean continuation signal. The value is passed
// through to the server verbatim, without validation.
func (c *Client) RunStepAction(ctx context.Context, invocationID, stepID string, action any) (*core.InvocationStep, error) {
	ctx, span := c.tracer.Start(ctx, "RunInvocationStepAction", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
		attribute.String(log.StepIDKey, stepID),
	))
	defer span.End()

	payload := map[string]any{
		"action": action,
	}

	var step core.InvocationStep
	if err := c.api.Put(ctx, stepPath(invocationID, stepID), payload, &step); err != nil {
		return nil, err
	}

	c.metrics.Counter(metrickeys.InvocationStepActions, metrics.Tags{}, 1)

	return &step, nil
}

func invocationPath(invocationID string) string {
	return path.Join("invocations", invocationID)
}

func stepPath(invocationID, stepID string) string {
	return path.Join("invocations", invocationID, "steps", stepID)
}
