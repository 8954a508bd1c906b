// Package navigator gates the two-step jobs/visualizations workflow. The
// visualization step stays locked until a job has been selected, and once
// unlocked it stays unlocked for the rest of the interface session.
//
// A Navigator is owned by a single UI loop and is not safe for concurrent use.
package navigator

import "github.com/datamonkey-labs/dmchat/internal/model"

// Navigator holds the navigation state for one interface session.
type Navigator struct {
	state model.NavigationState
}

// New returns a Navigator on the jobs step with nothing selected.
func New() *Navigator {
	return &Navigator{state: model.NavigationState{ActiveStep: model.StepJobs}}
}

// SelectJob records jobID and unlocks the visualization step. The active
// step is left alone. An empty id is not a selection.
func (n *Navigator) SelectJob(jobID string) {
	if jobID == "" {
		return
	}
	n.state.SelectedJobID = jobID
	n.state.CanViewVisualizations = true
}

// NavigateTo moves to step. It reports false, leaving the state unchanged,
// for unknown steps and for the visualization step while it is locked.
func (n *Navigator) NavigateTo(step model.Step) bool {
	if !step.Valid() {
		return false
	}
	if step == model.StepViz && !n.state.CanViewVisualizations {
		return false
	}
	n.state.ActiveStep = step
	return true
}

// State returns a copy of the current state.
func (n *Navigator) State() model.NavigationState {
	return n.state
}

// Reset returns to the initial state for a new interface session.
func (n *Navigator) Reset() {
	n.state = model.NavigationState{ActiveStep: model.StepJobs}
}
