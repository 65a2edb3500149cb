// Package trace records probe and fault-injection outcomes during a scenario
// run for end-of-run reporting. This package has no dependencies on
// fallback/ — it stores pure data types.
package trace

import "time"

// ProbeRecord captures a single probe RPC and its classification.
type ProbeRecord struct {
	Phase     string // "precondition", "transition" or "stability"
	Iteration int
	Mode      string
	Deadline  time.Duration
	Outcome   string // "backend", "fallback" or "unknown"
	Elapsed   time.Duration
}

// InjectionRecord captures one fault-injection command run.
type InjectionRecord struct {
	Command string
	Failed  bool
}
