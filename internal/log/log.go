package log

// Structured logging keys used across the module. Fields are passed to
// log/slog in pairs.
const (
	NamespaceKey = "galaxy"

	InvocationIDKey = NamespaceKey + ".invocation.id"
	StepIDKey       = NamespaceKey + ".invocation.step.id"
	StateKey        = NamespaceKey + ".invocation.state"

	WorkflowIDKey = NamespaceKey + ".workflow.id"
	HistoryIDKey  = NamespaceKey + ".history.id"

	MaxWaitKey   = NamespaceKey + ".wait.max_wait"
	IntervalKey  = NamespaceKey + ".wait.interval"
	RemainingKey = NamespaceKey + ".wait.remaining"

	StatusCodeKey = NamespaceKey + ".http.status_code"
)
