package api

type runResp struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Tier       string      `json:"tier,omitempty"`
	FileName   string      `json:"file_name,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	StartedAt  string      `json:"started_at"`
	FinishedAt string      `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
	Upload     *uploadResp `json:"upload,omitempty"`
}

type uploadResp struct {
	FileID        string `json:"file_id"`
	FileName      string `json:"file_name"`
	ContentLength int64  `json:"content_length"`
	ContentSHA1   string `json:"content_sha1"`
	UploadedAt    string `json:"uploaded_at"`
}

type listRunsResp struct {
	Runs    []runResp `json:"runs"`
	NextRun string    `json:"next_run,omitempty"`
}

type triggerRunResp struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}
