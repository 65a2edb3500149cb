package trace

// Phase names recorded by the verifier.
const (
	PhasePrecondition = "precondition"
	PhaseTransition   = "transition"
	PhaseStability    = "stability"
)

// OutcomeFallback is the outcome string for a fallback-served probe.
const OutcomeFallback = "fallback"

// RunTrace collects probe and injection records during a scenario run.
type RunTrace struct {
	Probes     []ProbeRecord
	Injections []InjectionRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace() *RunTrace {
	return &RunTrace{
		Probes:     make([]ProbeRecord, 0),
		Injections: make([]InjectionRecord, 0),
	}
}

// RecordProbe appends a probe record.
func (rt *RunTrace) RecordProbe(record ProbeRecord) {
	rt.Probes = append(rt.Probes, record)
}

// RecordInjection appends a fault-injection record.
func (rt *RunTrace) RecordInjection(record InjectionRecord) {
	rt.Injections = append(rt.Injections, record)
}
