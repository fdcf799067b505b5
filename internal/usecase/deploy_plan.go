package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// DefaultConfirmationTimeout bounds the wait for a single transaction
const DefaultConfirmationTimeout = 5 * time.Minute

// ConfirmationPolicy controls how long a deployment is waited on before it is
// treated as durable.
type ConfirmationPolicy struct {
	// Confirmations is the block depth to wait for; 0 accepts the submission as is.
	Confirmations uint64
	// Timeout bounds each wait. Zero means DefaultConfirmationTimeout.
	Timeout time.Duration
}

// awaitConfirmation waits for sub to reach policy's depth. A wait that runs
// out of time is a ConfirmationTimeoutError, any other failure a
// SubmissionError.
func awaitConfirmation(ctx context.Context, ledger Ledger, policy ConfirmationPolicy, step string, sub *Submission) (*Confirmation, error) {
	timeout := policy.Timeout
	if timeout <= 0 {
		timeout = DefaultConfirmationTimeout
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conf, err := ledger.WaitForConfirmations(waitCtx, sub, policy.Confirmations)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ConfirmationTimeoutError{
				Step:          step,
				TxHash:        sub.TxHash,
				Confirmations: policy.Confirmations,
				Err:           err,
			}
		}
		return nil, &domain.SubmissionError{Step: step, Err: err}
	}
	return conf, nil
}

// RunOptions tunes a single plan run
type RunOptions struct {
	// Tags restricts the run to tagged steps and their dependencies.
	Tags []string
	// AlreadyDeployed reports steps deployed by a previous run. Those steps
	// send no transaction; their prior record is reused.
	AlreadyDeployed func(name string) bool
	// VerificationEnabled is set when explorer credentials are configured.
	VerificationEnabled bool
}

func (o RunOptions) alreadyDeployed(name string) bool {
	return o.AlreadyDeployed != nil && o.AlreadyDeployed(name)
}

// DeployPlan executes a deployment plan against one network, strictly in
// dependency order.
type DeployPlan struct {
	registry NetworkRegistry
	store    ArtifactStore
	ledgers  LedgerConnector
	records  DeploymentRecords
	verifier VerifierGateway
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployPlan creates the orchestrator. records and verifier may be nil.
func NewDeployPlan(
	registry NetworkRegistry,
	store ArtifactStore,
	ledgers LedgerConnector,
	records DeploymentRecords,
	verifier VerifierGateway,
	progress ProgressSink,
	log *slog.Logger,
) *DeployPlan {
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &DeployPlan{
		registry: registry,
		store:    store,
		ledgers:  ledgers,
		records:  records,
		verifier: verifier,
		progress: progress,
		log:      log,
	}
}

// Run deploys plan on networkID using credential.
//
// Pre-flight failures (unknown network, invalid plan, unreachable ledger)
// return a nil report. Afterwards the report always lists every selected step;
// steps never attempted stay pending. A fatal step error stops the plan and is
// returned alongside the report. Post-action failures only hold back the steps
// depending on the affected step and are returned joined at the end.
func (uc *DeployPlan) Run(
	ctx context.Context,
	networkID uint64,
	credential domain.Credential,
	plan *domain.DeploymentPlan,
	policy ConfirmationPolicy,
	opts RunOptions,
) (*domain.RunReport, error) {
	profile, err := uc.registry.Resolve(networkID)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return nil, &domain.ConfigurationError{NetworkID: profile.ID, Network: profile.Name, Reason: "no deployer credential"}
	}
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultConfirmationTimeout
	}

	steps, err := OrderPlan(plan, opts.Tags, func(name string) bool {
		return uc.preload(ctx, profile, name)
	})
	if err != nil {
		return nil, err
	}

	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		Plan:      plan.Name,
		NetworkID: profile.ID,
		Network:   profile.Name,
		StartedAt: time.Now(),
	}
	for _, step := range steps {
		report.Steps = append(report.Steps, &domain.StepReport{
			Step:     step.Name,
			Contract: step.ContractName(),
			Status:   domain.StepStatusPending,
			State:    domain.StepStatePending,
		})
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StagePlanCreated,
		Total:    len(steps),
		Message:  fmt.Sprintf("%s on %s", plan.Name, profile.Label()),
		Metadata: steps,
	})

	ledger, err := uc.ledgers.Connect(ctx, profile)
	if err != nil {
		return nil, &domain.ConfigurationError{
			NetworkID: profile.ID,
			Network:   profile.Name,
			Reason:    fmt.Sprintf("cannot connect to ledger: %v", err),
		}
	}
	defer ledger.Close()

	run := &planRun{
		DeployPlan: uc,
		log:        uc.log.With("run", report.RunID),
		runID:      report.RunID,
		ledger:     ledger,
		profile:    profile,
		credential: credential,
		policy:     policy,
		opts:       opts,
		blocked:    make(map[string]bool),
	}

	var postActionErrs []error
	for i, step := range steps {
		entry := report.Steps[i]

		if dep, ok := run.blockedBy(step); ok {
			run.blocked[step.Name] = true
			run.log.Warn("step held back by failed post action", "step", step.Name, "dependency", dep)
			continue
		}

		// Cancellation is honoured only between steps, never after a submission.
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			return report, fmt.Errorf("deployment stopped before step %s: %w", step.Name, err)
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageStepStarting,
			Current: i + 1,
			Total:   len(steps),
			Message: step.Name,
			Spinner: true,
		})

		err := run.execute(ctx, step, entry)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageStepCompleted,
			Current:  i + 1,
			Total:    len(steps),
			Message:  step.Name,
			Metadata: entry,
		})

		if err == nil {
			continue
		}

		var postErr *domain.PostActionError
		if errors.As(err, &postErr) {
			run.blocked[step.Name] = true
			postActionErrs = append(postActionErrs, err)
			continue
		}

		report.FinishedAt = time.Now()
		run.log.Error("deployment aborted", "step", step.Name, "error", err)
		return report, err
	}

	report.FinishedAt = time.Now()
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeployComplete, Metadata: report})
	return report, errors.Join(postActionErrs...)
}

// preload makes a dependency outside the plan available from the deployment
// records. It never touches the ledger.
func (uc *DeployPlan) preload(ctx context.Context, profile *domain.NetworkProfile, name string) bool {
	if uc.store.Has(profile.ID, name) {
		return true
	}
	record, err := uc.priorRecord(ctx, profile, name)
	if err != nil {
		return false
	}
	return uc.store.Put(profile.ID, name, record) == nil
}

func (uc *DeployPlan) priorRecord(ctx context.Context, profile *domain.NetworkProfile, name string) (*domain.ArtifactRecord, error) {
	if uc.store.Has(profile.ID, name) {
		return uc.store.Get(profile.ID, name)
	}
	if uc.records == nil {
		return nil, domain.ErrNotFound
	}
	record, err := uc.records.Get(ctx, profile, name)
	if err != nil {
		return nil, err
	}
	if record.NetworkID != 0 && record.NetworkID != profile.ID {
		return nil, fmt.Errorf("record %s belongs to network %d: %w", name, record.NetworkID, domain.ErrNotFound)
	}
	return record, nil
}

// planRun carries the per-run state of DeployPlan.Run
type planRun struct {
	*DeployPlan
	log        *slog.Logger
	runID      string
	ledger     Ledger
	profile    *domain.NetworkProfile
	credential domain.Credential
	policy     ConfirmationPolicy
	opts       RunOptions
	blocked    map[string]bool
}

func (r *planRun) blockedBy(step *domain.DeploymentStep) (string, bool) {
	for _, dep := range step.DependsOn {
		if r.blocked[dep] {
			return dep, true
		}
	}
	return "", false
}

func (r *planRun) setState(ctx context.Context, entry *domain.StepReport, state domain.StepState) {
	entry.State = state
	r.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageStepState,
		Message:  fmt.Sprintf("%s: %s", entry.Step, state),
		Spinner:  state == domain.StepStateSubmitted,
		Metadata: entry,
	})
}

func (r *planRun) fail(ctx context.Context, entry *domain.StepReport, err error) error {
	entry.Status = domain.StepStatusFailed
	entry.Error = err
	r.setState(ctx, entry, domain.StepStateFailed)
	return err
}

func (r *planRun) execute(ctx context.Context, step *domain.DeploymentStep, entry *domain.StepReport) error {
	if r.opts.alreadyDeployed(step.Name) {
		return r.skip(ctx, step, entry)
	}

	resolve := step.Args
	if resolve == nil {
		resolve = domain.NoArgs
	}
	args, err := resolve(r.profile, r.store.ForNetwork(r.profile.ID))
	if err != nil {
		return r.fail(ctx, entry, resolverError(step.Name, err))
	}
	r.setState(ctx, entry, domain.StepStateArgsResolved)

	r.log.Info("deploying", "step", step.Name, "contract", step.ContractName(), "network", r.profile.Name,
		"from", r.credential.Identity())
	sub, err := r.ledger.Deploy(ctx, r.credential, DeployRequest{
		Step:     step.Name,
		Contract: step.ContractName(),
		Args:     args,
	})
	if err != nil {
		return r.fail(ctx, entry, &domain.SubmissionError{Step: step.Name, Err: err})
	}
	entry.TxHash = sub.TxHash
	entry.Address = sub.Address
	r.setState(ctx, entry, domain.StepStateSubmitted)

	// The submission is irreversible: everything below runs to completion
	// regardless of caller cancellation, bounded by the confirmation timeout.
	stepCtx := context.WithoutCancel(ctx)

	conf, err := r.confirm(stepCtx, step.Name, sub)
	if err != nil {
		return r.fail(ctx, entry, err)
	}

	record := &domain.ArtifactRecord{
		Name:                step.Name,
		Contract:            step.ContractName(),
		NetworkID:           r.profile.ID,
		Address:             sub.Address,
		ConstructorArgs:     args,
		EncodedArgs:         sub.EncodedArgs,
		TxHash:              sub.TxHash,
		BlockNumber:         conf.BlockNumber,
		ConfirmedBlockDepth: conf.Depth,
		ABIRef:              sub.ABIRef,
		RunID:               r.runID,
		DeployedAt:          time.Now().UTC(),
	}
	if err := r.store.Put(r.profile.ID, step.Name, record); err != nil {
		return r.fail(ctx, entry, &domain.SubmissionError{Step: step.Name, Err: err})
	}
	entry.Status = domain.StepStatusConfirmed
	r.setState(ctx, entry, domain.StepStateConfirmed)
	r.log.Info("deployed", "step", step.Name, "address", sub.Address, "tx", sub.TxHash, "confirmations", conf.Depth)

	r.persist(stepCtx, entry, record)

	return r.runPostActions(stepCtx, step, entry)
}

// skip reuses the prior record of a step deployed by an earlier run
func (r *planRun) skip(ctx context.Context, step *domain.DeploymentStep, entry *domain.StepReport) error {
	record, err := r.priorRecord(ctx, r.profile, step.Name)
	if err != nil {
		r.log.Error("no prior record for already deployed step", "step", step.Name, "error", err)
		return r.fail(ctx, entry, &domain.DependencyUnresolvedError{
			Step:       step.Name,
			Dependency: step.Name,
			NetworkID:  r.profile.ID,
		})
	}
	if !r.store.Has(r.profile.ID, step.Name) {
		if err := r.store.Put(r.profile.ID, step.Name, record); err != nil {
			return r.fail(ctx, entry, fmt.Errorf("step %s: prior record: %w", step.Name, err))
		}
	}

	entry.Status = domain.StepStatusSkipped
	entry.Address = record.Address
	entry.TxHash = record.TxHash
	r.setState(ctx, entry, domain.StepStatePostActionsComplete)
	r.log.Info("reusing deployment", "step", step.Name, "address", record.Address)
	return nil
}

// confirm waits for the configured depth and classifies failures
func (r *planRun) confirm(ctx context.Context, step string, sub *Submission) (*Confirmation, error) {
	return awaitConfirmation(ctx, r.ledger, r.policy, step, sub)
}

func (r *planRun) persist(ctx context.Context, entry *domain.StepReport, record *domain.ArtifactRecord) {
	if r.records == nil {
		return
	}
	if err := r.records.Save(ctx, r.profile, record); err != nil {
		msg := fmt.Sprintf("deployment record not saved: %v", err)
		entry.Warnings = append(entry.Warnings, msg)
		r.log.Warn("deployment record not saved", "step", entry.Step, "error", err)
	}
}

func resolverError(step string, err error) error {
	var depErr *domain.DependencyUnresolvedError
	if errors.As(err, &depErr) {
		tagged := *depErr
		tagged.Step = step
		return &tagged
	}
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return err
	}
	return fmt.Errorf("step %s: resolve constructor arguments: %w", step, err)
}
