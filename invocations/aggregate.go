package invocations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/galaxybio/blend/core"
	"github.com/galaxybio/blend/internal/log"
	"github.com/galaxybio/blend/internal/metrickeys"
	"github.com/galaxybio/blend/metrics"
	"github.com/galaxybio/blend/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// JobsSummary returns the invocation's jobs aggregated by coarse state,
// stating how many jobs succeeded, are paused, errored and so on.
func (c *Client) JobsSummary(ctx context.Context, invocationID string) (*core.InvocationSummary, error) {
	ctx, span := c.tracer.Start(ctx, "InvocationJobsSummary", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	var summary core.InvocationSummary
	if err := c.api.Get(ctx, path.Join(invocationPath(invocationID), "jobs_summary"), nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// StepJobsSummary returns one summary per job underlying the invocation's
// steps.
func (c *Client) StepJobsSummary(ctx context.Context, invocationID string) ([]*core.StepJobsSummary, error) {
	ctx, span := c.tracer.Start(ctx, "InvocationStepJobsSummary", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	var summaries []*core.StepJobsSummary
	if err := c.api.Get(ctx, path.Join(invocationPath(invocationID), "step_jobs_summary"), nil, &summaries); err != nil {
		return nil, err
	}

	return summaries, nil
}

// Report returns the Markdown execution report for the invocation.
func (c *Client) Report(ctx context.Context, invocationID string) (*core.InvocationReport, error) {
	ctx, span := c.tracer.Start(ctx, "InvocationReport", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	var report core.InvocationReport
	if err := c.api.Get(ctx, path.Join(invocationPath(invocationID), "report"), nil, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

// ReportPDF streams the invocation's execution report, rendered as PDF, into
// w. The payload is copied in bounded chunks so large reports are never
// buffered whole; the chunk size is configured via WithChunkSize.
//
// When the server declines the request nothing is written to w and the
// returned error wraps ErrPDFUnavailable. Rendering PDFs requires optional
// dependencies on the server, so this is a common failure.
func (c *Client) ReportPDF(ctx context.Context, invocationID string, w io.Writer) error {
	ctx, span := c.tracer.Start(ctx, "InvocationReportPDF", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	body, err := c.api.GetStream(ctx, path.Join(invocationPath(invocationID), "report.pdf"))
	if err != nil {
		var apiErr *transport.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: invocation %s: status code %d", ErrPDFUnavailable, invocationID, apiErr.StatusCode)
		}
		return err
	}
	defer body.Close()

	// Hide ReaderFrom/WriterTo so the copy actually goes through the
	// bounded buffer.
	written, err := io.CopyBuffer(struct{ io.Writer }{w}, struct{ io.Reader }{body}, make([]byte, c.chunkSize))
	if err != nil {
		return fmt.Errorf("streaming pdf report for invocation %s: %w", invocationID, err)
	}

	c.metrics.Distribution(metrickeys.ReportPDFBytes, metrics.Tags{}, float64(written))

	return nil
}

// BioComputeObject returns the BioCompute object describing the invocation.
// The object's shape is server-defined, so it is returned undecoded.
func (c *Client) BioComputeObject(ctx context.Context, invocationID string) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "InvocationBioComputeObject", trace.WithAttributes(
		attribute.String(log.InvocationIDKey, invocationID),
	))
	defer span.End()

	var object map[string]any
	if err := c.api.Get(ctx, path.Join(invocationPath(invocationID), "biocompute"), nil, &object); err != nil {
		return nil, err
	}

	return object, nil
}
