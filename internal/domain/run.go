package domain

import (
	"errors"
	"strings"
	"time"
)

// RunOutcome is the persisted outcome of a run. Outcomes are stored and
// serialized as integers; zero is the initial, non-terminal state.
type RunOutcome int

const (
	OutcomePending   RunOutcome = 0
	OutcomeCompleted RunOutcome = 1
	OutcomeAborted   RunOutcome = 2
)

// Known reports whether the outcome is one of the defined values.
func (o RunOutcome) Known() bool {
	switch o {
	case OutcomePending, OutcomeCompleted, OutcomeAborted:
		return true
	}
	return false
}

// Terminal reports whether the outcome ends the run. A run leaves
// OutcomePending exactly once and never transitions out of a terminal
// outcome.
func (o RunOutcome) Terminal() bool {
	return o.Known() && o != OutcomePending
}

func (o RunOutcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCompleted:
		return "completed"
	case OutcomeAborted:
		return "aborted"
	}
	return "unknown"
}

// Run is a single attempt at a parcour, by a user or anonymously.
type Run struct {
	ID        string
	ParcourID string
	UserID    *string
	StartedOn *time.Time
	EndedOn   *time.Time
	Outcome   RunOutcome
	CreatedOn time.Time
	UpdatedOn time.Time
}

func (r Run) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("run id is required")
	}
	if strings.TrimSpace(r.ParcourID) == "" {
		return errors.New("parcour id is required")
	}
	if !r.Outcome.Known() {
		return errors.New("run outcome is unknown")
	}
	if r.StartedOn != nil && r.EndedOn != nil && r.EndedOn.Before(*r.StartedOn) {
		return errors.New("run must not end before it starts")
	}
	return nil
}
