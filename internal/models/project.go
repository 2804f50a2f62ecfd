package models

import "time"

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "not_started"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectNotStarted, ProjectInProgress, ProjectCompleted:
		return true
	default:
		return false
	}
}

// Project is the engagement spawned by accepting a bid. Exactly one
// non-completed project may exist per job; the repository enforces that
// during acceptance.
type Project struct {
	Id         string        `db:"id" json:"id"`
	JobId      string        `db:"job_id" json:"jobId"`
	ClientId   string        `db:"client_id" json:"clientId"`
	AccessorId string        `db:"accessor_id" json:"accessorId"`
	Status     ProjectStatus `db:"status" json:"status"`
	StartDate  time.Time     `db:"start_date" json:"startDate"`
	EndDate    *time.Time    `db:"end_date" json:"endDate,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"-"`
}
