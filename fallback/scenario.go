package fallback

import (
	"fmt"
	"sort"
	"time"
)

// Scenario identifies one of the four fallback verification cases.
type Scenario int

const (
	// FastFallbackBeforeStartup breaks routing hard before the first
	// connection comes up.
	FastFallbackBeforeStartup Scenario = iota
	// SlowFallbackBeforeStartup blackholes routing before the first
	// connection comes up.
	SlowFallbackBeforeStartup
	// FastFallbackAfterStartup breaks routing hard under an established
	// backend connection.
	FastFallbackAfterStartup
	// SlowFallbackAfterStartup blackholes routing under an established
	// backend connection.
	SlowFallbackAfterStartup
)

// scenarioNames maps CLI test-case strings to scenarios.
var scenarioNames = map[string]Scenario{
	"fast_fallback_before_startup": FastFallbackBeforeStartup,
	"slow_fallback_before_startup": SlowFallbackBeforeStartup,
	"fast_fallback_after_startup":  FastFallbackAfterStartup,
	"slow_fallback_after_startup":  SlowFallbackAfterStartup,
}

// ParseScenario resolves a test-case name to a Scenario.
func ParseScenario(name string) (Scenario, error) {
	s, ok := scenarioNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown test case %q; valid: %v", name, ScenarioNames())
	}
	return s, nil
}

// ScenarioNames returns all recognized test-case names, sorted.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarioNames))
	for name := range scenarioNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Scenario) String() string {
	for name, sc := range scenarioNames {
		if sc == s {
			return name
		}
	}
	return fmt.Sprintf("scenario(%d)", int(s))
}

// CommandKind selects which fault-injection command a scenario runs.
type CommandKind int

const (
	// Unroute makes the LB and backend addresses hard-unreachable; failures
	// surface immediately as connection errors.
	Unroute CommandKind = iota
	// Blackhole silently drops packets to the LB and backend addresses;
	// failures surface only as timeouts.
	Blackhole
)

func (k CommandKind) String() string {
	if k == Blackhole {
		return "blackhole"
	}
	return "unroute"
}

// Commands holds the environment-supplied fault-injection command pair.
type Commands struct {
	Unroute   string
	Blackhole string
}

// Select returns the command for kind.
func (c Commands) Select(kind CommandKind) string {
	if kind == Blackhole {
		return c.Blackhole
	}
	return c.Unroute
}

// Plan fixes every tunable of a scenario run: which fault command runs, the
// per-probe deadlines, and the iteration bounds of each phase. Plans are
// read-only once built.
//
// The precondition/transition fields apply only to after-startup scenarios.
type Plan struct {
	Scenario             Scenario
	Command              CommandKind
	BeforeStartup        bool
	PreconditionDeadline time.Duration // deadline for the initial backend-route check
	TransitionAttempts   int           // wait-for-ready probes allowed before fallback must appear
	TransitionDeadline   time.Duration // per-probe deadline while awaiting transition
	StabilityProbes      int           // probes that must all classify as fallback
	StabilityDeadline    time.Duration // per-probe deadline during the stability window
	Interval             time.Duration // pause between stability probes
}

const (
	stabilityProbes    = 30
	transitionAttempts = 40
	pollInterval       = time.Second
)

// PlanFor returns the fixed plan for s. Panics on unrecognized scenarios;
// ParseScenario is the only producer of Scenario values.
func PlanFor(s Scenario) Plan {
	switch s {
	case FastFallbackBeforeStartup:
		// Unroutable addresses fail fast, so a tight probe budget suffices.
		return beforeStartupPlan(s, Unroute, 9*time.Second)
	case SlowFallbackBeforeStartup:
		// Blackholed connections only fail by timing out, so each probe
		// needs a larger budget.
		return beforeStartupPlan(s, Blackhole, 20*time.Second)
	case FastFallbackAfterStartup:
		return afterStartupPlan(s, Unroute)
	case SlowFallbackAfterStartup:
		return afterStartupPlan(s, Blackhole)
	default:
		panic(fmt.Sprintf("unknown scenario %d", int(s)))
	}
}

func beforeStartupPlan(s Scenario, kind CommandKind, deadline time.Duration) Plan {
	return Plan{
		Scenario:          s,
		Command:           kind,
		BeforeStartup:     true,
		StabilityProbes:   stabilityProbes,
		StabilityDeadline: deadline,
		Interval:          pollInterval,
	}
}

func afterStartupPlan(s Scenario, kind CommandKind) Plan {
	return Plan{
		Scenario:             s,
		Command:              kind,
		PreconditionDeadline: 20 * time.Second,
		TransitionAttempts:   transitionAttempts,
		TransitionDeadline:   time.Second,
		StabilityProbes:      stabilityProbes,
		StabilityDeadline:    20 * time.Second,
		Interval:             pollInterval,
	}
}
