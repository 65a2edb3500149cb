package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)

	if summary.TotalProbes != 0 {
		t.Errorf("expected 0 probes, got %d", summary.TotalProbes)
	}
	if summary.TransitionIteration != -1 {
		t.Errorf("expected -1 transition iteration, got %d", summary.TransitionIteration)
	}
	if len(summary.PhaseDistribution) != 0 {
		t.Error("expected empty phase distribution")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	summary := Summarize(NewRunTrace())

	if summary.TotalProbes != 0 {
		t.Errorf("expected 0 probes, got %d", summary.TotalProbes)
	}
	if summary.BackendCount != 0 || summary.FallbackCount != 0 || summary.UnknownCount != 0 {
		t.Error("expected zero outcome counts")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace from an after-startup run
	rt := NewRunTrace()
	rt.RecordProbe(ProbeRecord{Phase: PhasePrecondition, Iteration: 0, Outcome: "backend"})
	rt.RecordProbe(ProbeRecord{Phase: PhaseTransition, Iteration: 0, Outcome: "unknown"})
	rt.RecordProbe(ProbeRecord{Phase: PhaseTransition, Iteration: 1, Outcome: OutcomeFallback})
	rt.RecordProbe(ProbeRecord{Phase: PhaseStability, Iteration: 0, Outcome: OutcomeFallback})
	rt.RecordProbe(ProbeRecord{Phase: PhaseStability, Iteration: 1, Outcome: OutcomeFallback})

	// WHEN summarized
	summary := Summarize(rt)

	// THEN counts match
	if summary.TotalProbes != 5 {
		t.Errorf("expected 5 probes, got %d", summary.TotalProbes)
	}
	if summary.BackendCount != 1 {
		t.Errorf("expected 1 backend, got %d", summary.BackendCount)
	}
	if summary.FallbackCount != 3 {
		t.Errorf("expected 3 fallback, got %d", summary.FallbackCount)
	}
	if summary.UnknownCount != 1 {
		t.Errorf("expected 1 unknown, got %d", summary.UnknownCount)
	}
	if summary.PhaseDistribution[PhaseTransition] != 2 {
		t.Errorf("expected 2 transition probes, got %d", summary.PhaseDistribution[PhaseTransition])
	}
}

func TestSummarize_TransitionIteration_FirstFallbackInTransitionPhase(t *testing.T) {
	rt := NewRunTrace()
	rt.RecordProbe(ProbeRecord{Phase: PhaseTransition, Iteration: 0, Outcome: "unknown"})
	rt.RecordProbe(ProbeRecord{Phase: PhaseTransition, Iteration: 1, Outcome: "unknown"})
	rt.RecordProbe(ProbeRecord{Phase: PhaseTransition, Iteration: 2, Outcome: OutcomeFallback})
	rt.RecordProbe(ProbeRecord{Phase: PhaseTransition, Iteration: 3, Outcome: OutcomeFallback})

	summary := Summarize(rt)

	if summary.TransitionIteration != 2 {
		t.Errorf("expected transition at iteration 2, got %d", summary.TransitionIteration)
	}
}

func TestSummarize_NoTransition_NegativeIteration(t *testing.T) {
	// Fallback probes outside the transition phase do not count as the
	// transition point (before-startup runs have no transition phase).
	rt := NewRunTrace()
	rt.RecordProbe(ProbeRecord{Phase: PhaseStability, Iteration: 0, Outcome: OutcomeFallback})

	summary := Summarize(rt)

	if summary.TransitionIteration != -1 {
		t.Errorf("expected -1 transition iteration, got %d", summary.TransitionIteration)
	}
}
