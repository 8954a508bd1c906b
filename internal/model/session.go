package model

import "time"

// Session is a chat/analysis context owned by the chat backend.
type Session struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// JobStatus is the lifecycle state reported by the analysis backend.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
)

// Terminal reports whether the job will not change status again.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobError
}

// Job is a result artifact produced by an analysis run.
type Job struct {
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Status  JobStatus `json:"status"`
	Created time.Time `json:"created"`
}
