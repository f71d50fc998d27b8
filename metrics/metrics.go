package metrics

import "time"

type Tags map[string]string

// Client is the sink for the module's operational metrics. The default used
// by the invocation client is a no-op; pass a real implementation via the
// client options to export metrics.
type Client interface {
	Counter(name string, tags Tags, value float64)

	Distribution(name string, tags Tags, value float64)

	Timing(name string, tags Tags, duration time.Duration)

	WithTags(tags Tags) Client
}
