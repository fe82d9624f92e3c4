package domain

import "time"

// Status describes how a single segment finished.
type Status string

const (
	StatusOK      Status = "ok"
	StatusUnknown Status = "unknown"
	StatusFailed  Status = "failed"
)

// Outcome is the result of executing one segment.
type Outcome struct {
	Command  Command       `json:"command"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report is the result of executing a whole chain, in segment order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Failed returns the outcomes that did not finish with StatusOK.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status != StatusOK {
			failed = append(failed, o)
		}
	}
	return failed
}

// OK reports whether every segment succeeded.
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}
