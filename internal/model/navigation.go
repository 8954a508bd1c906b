package model

import "fmt"

// Step is one stage of the guided workflow.
type Step int

const (
	// StepJobs is the job listing, and the initial step.
	StepJobs Step = iota
	// StepViz is result inspection, unlocked by selecting a job.
	StepViz
)

// String returns the wire name of the step.
func (s Step) String() string {
	switch s {
	case StepJobs:
		return "jobs"
	case StepViz:
		return "viz"
	default:
		return "unknown"
	}
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s == StepJobs || s == StepViz
}

// ParseStep converts "jobs" or "viz" to a Step.
func ParseStep(s string) (Step, error) {
	switch s {
	case "jobs":
		return StepJobs, nil
	case "viz":
		return StepViz, nil
	default:
		return 0, fmt.Errorf("unknown step %q", s)
	}
}

// NavigationState is the per-interface-session view of step gating.
// SelectedJobID is empty until a job is selected.
type NavigationState struct {
	ActiveStep            Step
	SelectedJobID         string
	CanViewVisualizations bool
}
