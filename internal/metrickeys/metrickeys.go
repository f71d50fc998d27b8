package metrickeys

const (
	Prefix = "galaxy."

	InvocationCancelled = Prefix + "invocation.cancelled"

	InvocationPolls        = Prefix + "invocation.wait.polls"
	InvocationWaitDuration = Prefix + "invocation.wait.duration"

	InvocationStepActions = Prefix + "invocation.step.actions"

	ReportPDFBytes = Prefix + "invocation.report.pdf_bytes"
)

// Tag names
const (
	// Terminal state observed when a wait finished
	State = "state"
)
