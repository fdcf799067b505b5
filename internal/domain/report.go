package domain

import (
	"time"
)

// StepStatus is the outcome of a step as reported to the caller.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusConfirmed StepStatus = "confirmed"
	StepStatusSkipped   StepStatus = "skipped"
	StepStatusFailed    StepStatus = "failed"
)

// StepState tracks a step through its lifecycle:
// Pending → ArgsResolved → Submitted → Confirmed → PostActionsComplete, or Failed.
type StepState string

const (
	StepStatePending             StepState = "Pending"
	StepStateArgsResolved        StepState = "ArgsResolved"
	StepStateSubmitted           StepState = "Submitted"
	StepStateConfirmed           StepState = "Confirmed"
	StepStatePostActionsComplete StepState = "PostActionsComplete"
	StepStateFailed              StepState = "Failed"
)

// StepReport is the per-step entry of a RunReport.
type StepReport struct {
	Step     string
	Contract string
	Status   StepStatus
	State    StepState
	Address  string
	TxHash   string
	Error    error
	Warnings []string
}

// RunReport is the ordered outcome of one plan run.
type RunReport struct {
	RunID      string
	Plan       string
	NetworkID  uint64
	Network    string
	Steps      []*StepReport
	StartedAt  time.Time
	FinishedAt time.Time
}

// Step returns the report entry for name.
func (r *RunReport) Step(name string) *StepReport {
	for _, s := range r.Steps {
		if s.Step == name {
			return s
		}
	}
	return nil
}

// FailedStep returns the step that aborted the run, if any.
func (r *RunReport) FailedStep() *StepReport {
	for _, s := range r.Steps {
		if s.Status == StepStatusFailed {
			return s
		}
	}
	return nil
}

// Succeeded reports whether every step was confirmed or skipped without errors.
func (r *RunReport) Succeeded() bool {
	for _, s := range r.Steps {
		if s.Error != nil {
			return false
		}
		if s.Status != StepStatusConfirmed && s.Status != StepStatusSkipped {
			return false
		}
	}
	return true
}

// Count returns the number of steps with the given status.
func (r *RunReport) Count(status StepStatus) int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == status {
			n++
		}
	}
	return n
}
