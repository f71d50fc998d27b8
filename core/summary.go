package core

// InvocationSummary aggregates the invocation's jobs by coarse job state
// ("ok", "error", "paused", "running", "new", ...). It is computed by the
// server and fetched fresh on every call, never cached here.
type InvocationSummary struct {
	// ID is the encoded invocation ID.
	ID string `json:"id"`

	Model string `json:"model"`

	// PopulatedState indicates whether the invocation's full step plan is
	// known to the server yet.
	PopulatedState string `json:"populated_state"`

	// States maps a coarse job state to the number of jobs in that state.
	States map[string]int `json:"states"`
}

// StepJobsSummary is the jobs breakdown for a single job of the invocation.
type StepJobsSummary struct {
	// ID is the encoded job ID the summary describes.
	ID string `json:"id"`

	Model string `json:"model"`

	PopulatedState string `json:"populated_state"`

	States map[string]int `json:"states"`
}

// InvocationReport is the rendered execution report for an invocation.
type InvocationReport struct {
	Markdown string `json:"markdown"`

	RenderFormat string `json:"render_format"`

	// Workflows maps encoded workflow IDs to the workflows referenced by the
	// report.
	Workflows map[string]ReportWorkflow `json:"workflows"`
}

type ReportWorkflow struct {
	Name string `json:"name"`
}
