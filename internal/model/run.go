package model

import "time"

// RunStatus represents the current state of a lead-generation run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusListing   RunStatus = "listing"
	RunStatusCleaning  RunStatus = "cleaning"
	RunStatusAssigning RunStatus = "assigning"
	RunStatusEnriching RunStatus = "enriching"
	RunStatusVerifying RunStatus = "verifying"
	RunStatusUploading RunStatus = "uploading"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents a single pipeline run for one campaign tag.
type Run struct {
	ID        string     `json:"id"`
	Tag       string     `json:"tag"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the per-stage counts of a finished run.
type RunResult struct {
	Listings       int           `json:"listings"`
	Candidates     int           `json:"candidates"`
	Accounts       int           `json:"accounts"`
	AcceptedAccts  int           `json:"accepted_accounts"`
	Contacts       int           `json:"contacts"`
	Kept           int           `json:"kept"`
	Rejected       int           `json:"rejected"`
	Uploaded       int           `json:"uploaded"`
	UploadFailures int           `json:"upload_failures"`
	Credits        float64       `json:"credits"`
	CostUSD        float64       `json:"cost_usd"`
	Phases         []PhaseResult `json:"phases"`
	Error          string        `json:"error,omitempty"`
}

// RunPhase represents a stage within a run.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}

// PhaseStatus represents the current state of a pipeline stage.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a pipeline stage.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
