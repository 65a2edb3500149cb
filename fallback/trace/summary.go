package trace

// RunSummary aggregates statistics from a RunTrace.
type RunSummary struct {
	TotalProbes         int
	BackendCount        int
	FallbackCount       int
	UnknownCount        int
	TransitionIteration int            // first fallback-served transition probe; -1 if none
	PhaseDistribution   map[string]int // phase name → probe count
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *RunSummary {
	summary := &RunSummary{
		TransitionIteration: -1,
		PhaseDistribution:   make(map[string]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalProbes = len(rt.Probes)
	for _, p := range rt.Probes {
		summary.PhaseDistribution[p.Phase]++
		switch p.Outcome {
		case "backend":
			summary.BackendCount++
		case OutcomeFallback:
			summary.FallbackCount++
		default:
			summary.UnknownCount++
		}
		if summary.TransitionIteration < 0 && p.Phase == PhaseTransition && p.Outcome == OutcomeFallback {
			summary.TransitionIteration = p.Iteration
		}
	}

	return summary
}
