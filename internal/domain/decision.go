package domain

// PolicyAction is the outcome of one retrain policy evaluation.
type PolicyAction string

const (
	ActionDryRunNoop    PolicyAction = "dry-run-noop"
	ActionNoop          PolicyAction = "noop"
	ActionAlreadyQueued PolicyAction = "already-queued"
	ActionQueuedRetrain PolicyAction = "queued-retrain"
)

// Decision is the full result of a policy evaluation, including what
// was (or would have been) enqueued.
type Decision struct {
	Season        string        `json:"season"`
	DryRun        bool          `json:"dry_run"`
	ShouldRetrain bool          `json:"should_retrain"`
	Action        PolicyAction  `json:"action"`
	Reasons       []string      `json:"reasons"`
	Metrics       PolicyMetrics `json:"metrics"`
	Thresholds    Thresholds    `json:"thresholds"`
	Execution     Execution     `json:"execution"`
}

// Execution describes the queue side effects of a decision.
type Execution struct {
	DuplicateGuardTriggered bool        `json:"duplicate_guard_triggered"`
	RetrainJob              *RetrainJob `json:"retrain_job,omitempty"`
	RollbackStrategy        string      `json:"rollback_strategy,omitempty"`
}

// WorkerStatus is the outcome of one worker tick.
type WorkerStatus string

const (
	WorkerNoop      WorkerStatus = "noop"
	WorkerCompleted WorkerStatus = "completed"
	WorkerFailed    WorkerStatus = "failed"
)

// WorkerResult reports what a single ProcessNext call did. Training
// failures are reported here, never raised to the caller.
type WorkerResult struct {
	Status     WorkerStatus `json:"status"`
	Message    string       `json:"message"`
	Job        *RetrainJob  `json:"job,omitempty"`
	RunDetails *RunDetails  `json:"run_details,omitempty"`
}
