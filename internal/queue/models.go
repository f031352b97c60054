package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a compression job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusRunning,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Job represents a compression job persisted in SQLite.
type Job struct {
	ID              int64
	ClientID        string
	InputPath       string
	Profile         string
	Status          Status
	OutputPath      string
	ErrorMessage    string
	ProgressPercent float64
	InputSize       int64
	OutputSize      int64
	SavedPercent    float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	FinishedAt      *time.Time
}

// IsTerminal reports whether the job reached a final state.
func (j Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Stats aggregates job counts per lifecycle state.
type Stats struct {
	Total     int
	Pending   int
	Running   int
	Completed int
	Failed    int
}
