package core

// InvocationState is the scheduling state of a workflow invocation.
type InvocationState string

const (
	InvocationStateNew       InvocationState = "new"
	InvocationStateReady     InvocationState = "ready"
	InvocationStateCancelled InvocationState = "cancelled"
	InvocationStateFailed    InvocationState = "failed"
	InvocationStateScheduled InvocationState = "scheduled"
)

// Terminal reports whether no further transition away from s will ever be
// observed. State transitions are server-driven and monotonic, so once a
// snapshot shows a terminal state every later snapshot shows the same state.
func (s InvocationState) Terminal() bool {
	switch s {
	case InvocationStateCancelled, InvocationStateFailed, InvocationStateScheduled:
		return true
	}

	return false
}

func (s InvocationState) String() string {
	return string(s)
}

// Invocation is a snapshot of one execution of a workflow as reported by the
// server. Invocations are created server-side when a workflow is launched and
// are only ever observed here: they are decoded fresh from each response and
// never constructed or mutated locally.
type Invocation struct {
	// ID is the encoded invocation ID.
	ID string `json:"id"`

	// WorkflowID is the encoded ID of the workflow this invocation executes.
	WorkflowID string `json:"workflow_id"`

	// HistoryID is the encoded ID of the history the invocation runs in.
	HistoryID string `json:"history_id"`

	State InvocationState `json:"state"`

	UpdateTime Time `json:"update_time"`

	UUID string `json:"uuid"`

	ModelClass string `json:"model_class,omitempty"`

	// Steps is only populated for detail views, in execution order. A freshly
	// created invocation may not have a step plan yet.
	Steps []*InvocationStep `json:"steps,omitempty"`
}

// InvocationStep is one unit of work within an invocation, corresponding to a
// step of the workflow template.
type InvocationStep struct {
	// ID is the encoded invocation step ID.
	ID string `json:"id"`

	// OrderIndex is the zero-based position of the step in the invocation's
	// execution order.
	OrderIndex int `json:"order_index"`

	// State is empty until the step has been scheduled.
	State InvocationState `json:"state,omitempty"`

	// JobID is the encoded ID of the job backing this step, if one has been
	// created.
	JobID string `json:"job_id,omitempty"`

	// Action carries a step-type dependent signal, e.g. the boolean
	// continuation flag of a pause step. Its shape is defined by the server.
	Action any `json:"action,omitempty"`

	// WorkflowStepID, WorkflowStepUUID and WorkflowStepLabel identify the
	// step within the workflow template, not the invocation.
	WorkflowStepID    string `json:"workflow_step_id,omitempty"`
	WorkflowStepUUID  string `json:"workflow_step_uuid,omitempty"`
	WorkflowStepLabel string `json:"workflow_step_label,omitempty"`

	UpdateTime Time `json:"update_time"`

	ModelClass string `json:"model_class,omitempty"`
}
