package harness

// Step outcomes recorded in the trace.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeAccessDenied = "access_denied"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeError        = "error"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step     int    `json:"step"`
	Action   string `json:"action"`
	As       int32  `json:"as"`
	PersonID int64  `json:"person_id,omitempty"`
	Outcome  string `json:"outcome"`
	Allowed  *bool  `json:"allowed,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step met its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Bindings maps the names bound by add steps to person ids.
	Bindings map[string]int64 `json:"bindings,omitempty"`
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Bindings: make(map[string]int64),
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
