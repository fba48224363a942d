package model

import "time"

// JobStatus is the lifecycle state of an analysis run.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobProgress is the externally observable state of one run.
type JobProgress struct {
	ID             string     `json:"id"`
	SiteID         int64      `json:"site_id"`
	Status         JobStatus  `json:"status"`
	CurrentStep    string     `json:"current_step"`
	Percentage     int        `json:"progress_percentage"`
	StepsCompleted []string   `json:"steps_completed"`
	ResultID       *int64     `json:"analysis_id,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Site is a registered website.
type Site struct {
	ID             int64      `json:"id"`
	URL            string     `json:"url"`
	Name           string     `json:"name,omitempty"`
	LatestScore    *float64   `json:"latest_score,omitempty"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
