package metrics

import (
	"time"

	m "github.com/galaxybio/blend/metrics"
)

type noopClient struct{}

// NewNoopMetricsClient returns the metrics sink used when the caller did not
// configure one. It discards everything.
func NewNoopMetricsClient() m.Client {
	return noopClient{}
}

var _ m.Client = noopClient{}

func (noopClient) Counter(name string, tags m.Tags, value float64) {}

func (noopClient) Distribution(name string, tags m.Tags, value float64) {}

func (noopClient) Timing(name string, tags m.Tags, duration time.Duration) {}

func (c noopClient) WithTags(tags m.Tags) m.Client {
	return c
}
