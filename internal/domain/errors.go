package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrConfiguration marks missing or invalid network configuration
	ErrConfiguration = errors.New("configuration error")

	// ErrPlanInvalid marks a plan rejected before any transaction was sent
	ErrPlanInvalid = errors.New("invalid deployment plan")

	// ErrDependencyUnresolved marks a lookup of an artifact that is not deployed
	ErrDependencyUnresolved = errors.New("dependency unresolved")

	// ErrSubmission marks a deployment transaction rejected by the network
	ErrSubmission = errors.New("submission failed")

	// ErrConfirmationTimeout marks a transaction whose final state is unknown
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// ErrPostAction marks a post-deploy action that failed after a successful deployment
	ErrPostAction = errors.New("post action failed")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")
)

// ConfigurationError is fatal for a run and raised before any ledger call.
type ConfigurationError struct {
	NetworkID   uint64
	Network     string
	Reason      string
	Suggestions []string
}

func (e *ConfigurationError) Error() string {
	target := e.Network
	if target == "" {
		target = fmt.Sprintf("%d", e.NetworkID)
	}
	msg := fmt.Sprintf("network %s: %s", target, e.Reason)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// PlanInvalidError is raised while ordering a plan. No transaction has been sent.
type PlanInvalidError struct {
	Reason string
	Steps  []string
}

func (e *PlanInvalidError) Error() string {
	if len(e.Steps) == 0 {
		return fmt.Sprintf("invalid deployment plan: %s", e.Reason)
	}
	return fmt.Sprintf("invalid deployment plan: %s: %s", e.Reason, strings.Join(e.Steps, ", "))
}

func (e *PlanInvalidError) Is(target error) bool { return target == ErrPlanInvalid }

// DependencyUnresolvedError is returned when an artifact is looked up on a
// network where it has not been deployed.
type DependencyUnresolvedError struct {
	Step       string
	Dependency string
	NetworkID  uint64
}

func (e *DependencyUnresolvedError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("artifact %q is not deployed on network %d", e.Dependency, e.NetworkID)
	}
	return fmt.Sprintf("step %s: artifact %q is not deployed on network %d", e.Step, e.Dependency, e.NetworkID)
}

func (e *DependencyUnresolvedError) Is(target error) bool { return target == ErrDependencyUnresolved }

// SubmissionError wraps a transaction the network refused. It is never retried.
type SubmissionError struct {
	Step string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("step %s: submission rejected: %v", e.Step, e.Err)
}

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }
func (e *SubmissionError) Unwrap() error        { return e.Err }

// ConfirmationTimeoutError leaves the on-chain state of TxHash unknown; the
// transaction may still be mined and has to be reconciled by an operator.
type ConfirmationTimeoutError struct {
	Step          string
	TxHash        string
	Confirmations uint64
	Err           error
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("step %s: transaction %s not confirmed at depth %d: %v (check its status manually before re-running)",
		e.Step, e.TxHash, e.Confirmations, e.Err)
}

func (e *ConfirmationTimeoutError) Is(target error) bool { return target == ErrConfirmationTimeout }
func (e *ConfirmationTimeoutError) Unwrap() error        { return e.Err }

// PostActionError reports a post-deploy action failure. The deployment itself
// stays in place.
type PostActionError struct {
	Step   string
	Action string
	Err    error
}

func (e *PostActionError) Error() string {
	return fmt.Sprintf("step %s: %s failed: %v", e.Step, e.Action, e.Err)
}

func (e *PostActionError) Is(target error) bool { return target == ErrPostAction }
func (e *PostActionError) Unwrap() error        { return e.Err }
