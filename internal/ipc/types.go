package ipc

import (
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/tasks"
)

// ClientCreateRequest provisions a new client folder.
type ClientCreateRequest struct {
	Name string `json:"name"`
}

// ClientListRequest fetches the active client summaries.
type ClientListRequest struct{}

// ClientDetailsRequest fetches the storage breakdown of one client.
type ClientDetailsRequest struct {
	ID string `json:"id"`
}

// ClientPathRequest resolves a client id to its folder on disk.
type ClientPathRequest struct {
	ID string `json:"id"`
}

// ClientAddFileRequest records an existing file in a client's metadata.
type ClientAddFileRequest struct {
	ClientID string              `json:"clientId"`
	File     metadata.FileRecord `json:"file"`
}

// ClientRenameRequest changes a client's display name.
type ClientRenameRequest struct {
	ID      string `json:"id"`
	NewName string `json:"newName"`
}

// ClientDuplicateRequest copies a client folder under a new identity.
type ClientDuplicateRequest struct {
	ID      string `json:"id"`
	NewName string `json:"newName"`
}

// ClientDeleteRequest soft-deletes a client.
type ClientDeleteRequest struct {
	ID string `json:"id"`
}

// StatusUpdateRequest merges workflow flags into a client's status.
type StatusUpdateRequest struct {
	ID    string               `json:"id"`
	Patch metadata.StatusPatch `json:"patch"`
}

// TaskAddRequest appends a task to a client's list.
type TaskAddRequest struct {
	ClientID string       `json:"clientId"`
	Fields   tasks.Fields `json:"fields"`
}

// TaskUpdateRequest applies a partial update to one task.
type TaskUpdateRequest struct {
	ClientID string      `json:"clientId"`
	TaskID   string      `json:"taskId"`
	Patch    tasks.Patch `json:"patch"`
}

// TaskDeleteRequest removes one task.
type TaskDeleteRequest struct {
	ClientID string `json:"clientId"`
	TaskID   string `json:"taskId"`
}

// CompressRequest queues a compression job.
type CompressRequest struct {
	ClientID  string `json:"clientId"`
	InputPath string `json:"inputPath"`
	Profile   string `json:"profile"`
}

// JobListRequest filters job listing by status names.
type JobListRequest struct {
	Statuses []string `json:"statuses"`
}

// JobDescribeRequest fetches a single job by id.
type JobDescribeRequest struct {
	ID int64 `json:"id"`
}

// JobsClearRequest removes finished jobs.
type JobsClearRequest struct{}

// ReportRequest builds the delivery ZIP for one client.
type ReportRequest struct {
	ClientID string `json:"clientId"`
}

// DepsCheckRequest reports external binary availability.
type DepsCheckRequest struct{}

// DaemonStatusRequest fetches daemon runtime information.
type DaemonStatusRequest struct{}

// DaemonStopRequest asks the daemon process to shut down.
type DaemonStopRequest struct{}
