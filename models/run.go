package models

import "time"

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSkipped RunStatus = "skipped"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunRecord struct {
	ID         string        `json:"id"`
	Status     RunStatus     `json:"status"`
	Tier       Tier          `json:"tier,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Error      string        `json:"error,omitempty"`
	Upload     *UploadResult `json:"upload,omitempty"`
}

func (r *RunRecord) Finished() bool {
	return r.Status != RunStatusRunning
}
