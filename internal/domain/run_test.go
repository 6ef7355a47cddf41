package domain

import (
	"testing"
	"time"
)

func TestRunOutcomeTerminal(t *testing.T) {
	tests := []struct {
		outcome  RunOutcome
		terminal bool
	}{
		{OutcomePending, false},
		{OutcomeCompleted, true},
		{OutcomeAborted, true},
		{RunOutcome(99), false},
	}
	for _, tt := range tests {
		if got := tt.outcome.Terminal(); got != tt.terminal {
			t.Fatalf("Terminal(%d)=%v, want %v", tt.outcome, got, tt.terminal)
		}
	}
}

func TestRunValidate(t *testing.T) {
	started := time.Date(2010, 6, 6, 12, 0, 0, 0, time.UTC)
	ended := time.Date(2010, 6, 6, 12, 12, 12, 0, time.UTC)

	valid := Run{ID: "r1", ParcourID: "p1", StartedOn: &started, EndedOn: &ended, Outcome: OutcomeCompleted}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Run)
	}{
		{"missing id", func(r *Run) { r.ID = " " }},
		{"missing parcour", func(r *Run) { r.ParcourID = "" }},
		{"unknown outcome", func(r *Run) { r.Outcome = RunOutcome(7) }},
		{"ended before started", func(r *Run) { r.StartedOn, r.EndedOn = r.EndedOn, r.StartedOn }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := valid
			tt.mutate(&run)
			if err := run.Validate(); err == nil {
				t.Fatal("Validate() expected error")
			}
		})
	}
}
