package entity

import "time"

type Status string

const (
	StatusQueued     Status = "queued"
	StatusScraping   Status = "scraping"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Active reports whether a job for the username is still in the queue or running.
func (s Status) Active() bool {
	return s == StatusQueued || s == StatusScraping || s == StatusGenerating
}

type StatusRecord struct {
	Username    string    `json:"username" bson:"username"`
	Status      Status    `json:"status" bson:"status"`
	Message     string    `json:"message,omitempty" bson:"message,omitempty"`
	JobID       string    `json:"job_id" bson:"job_id"`
	RequestedBy string    `json:"requested_by,omitempty" bson:"requested_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
