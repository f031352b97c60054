package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"mechanicflow/internal/api"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/tasks"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req any) (api.Envelope, error) {
	var resp api.Envelope
	if err := c.client.Call("MechanicFlow."+method, req, &resp); err != nil {
		return api.Envelope{}, err
	}
	return resp, nil
}

// ClientCreate provisions a new client folder.
func (c *Client) ClientCreate(name string) (api.Envelope, error) {
	return c.call("ClientCreate", ClientCreateRequest{Name: name})
}

// ClientList returns the active client summaries.
func (c *Client) ClientList() (api.Envelope, error) {
	return c.call("ClientList", ClientListRequest{})
}

// ClientDetails returns the storage breakdown of one client.
func (c *Client) ClientDetails(id string) (api.Envelope, error) {
	return c.call("ClientDetails", ClientDetailsRequest{ID: id})
}

// ClientPath resolves a client id to its folder on disk.
func (c *Client) ClientPath(id string) (api.Envelope, error) {
	return c.call("ClientPath", ClientPathRequest{ID: id})
}

// ClientAddFile records an existing file in a client's metadata.
func (c *Client) ClientAddFile(clientID string, file metadata.FileRecord) (api.Envelope, error) {
	return c.call("ClientAddFile", ClientAddFileRequest{ClientID: clientID, File: file})
}

// ClientRename changes a client's display name.
func (c *Client) ClientRename(id, newName string) (api.Envelope, error) {
	return c.call("ClientRename", ClientRenameRequest{ID: id, NewName: newName})
}

// ClientDuplicate copies a client folder under a new identity.
func (c *Client) ClientDuplicate(id, newName string) (api.Envelope, error) {
	return c.call("ClientDuplicate", ClientDuplicateRequest{ID: id, NewName: newName})
}

// ClientDelete soft-deletes a client.
func (c *Client) ClientDelete(id string) (api.Envelope, error) {
	return c.call("ClientDelete", ClientDeleteRequest{ID: id})
}

// StatusUpdate merges workflow flags into a client's status.
func (c *Client) StatusUpdate(id string, patch metadata.StatusPatch) (api.Envelope, error) {
	return c.call("StatusUpdate", StatusUpdateRequest{ID: id, Patch: patch})
}

// TaskAdd appends a task to a client's list.
func (c *Client) TaskAdd(clientID string, fields tasks.Fields) (api.Envelope, error) {
	return c.call("TaskAdd", TaskAddRequest{ClientID: clientID, Fields: fields})
}

// TaskUpdate applies a partial update to one task.
func (c *Client) TaskUpdate(clientID, taskID string, patch tasks.Patch) (api.Envelope, error) {
	return c.call("TaskUpdate", TaskUpdateRequest{ClientID: clientID, TaskID: taskID, Patch: patch})
}

// TaskDelete removes one task.
func (c *Client) TaskDelete(clientID, taskID string) (api.Envelope, error) {
	return c.call("TaskDelete", TaskDeleteRequest{ClientID: clientID, TaskID: taskID})
}

// Compress queues a compression job.
func (c *Client) Compress(clientID, inputPath, profile string) (api.Envelope, error) {
	return c.call("Compress", CompressRequest{ClientID: clientID, InputPath: inputPath, Profile: profile})
}

// JobList returns queued jobs filtered by status names.
func (c *Client) JobList(statuses []string) (api.Envelope, error) {
	return c.call("JobList", JobListRequest{Statuses: statuses})
}

// JobDescribe returns a single job.
func (c *Client) JobDescribe(id int64) (api.Envelope, error) {
	return c.call("JobDescribe", JobDescribeRequest{ID: id})
}

// JobsClear removes finished jobs.
func (c *Client) JobsClear() (api.Envelope, error) {
	return c.call("JobsClear", JobsClearRequest{})
}

// Report builds the delivery ZIP for one client.
func (c *Client) Report(clientID string) (api.Envelope, error) {
	return c.call("Report", ReportRequest{ClientID: clientID})
}

// DepsCheck reports external binary availability.
func (c *Client) DepsCheck() (api.Envelope, error) {
	return c.call("DepsCheck", DepsCheckRequest{})
}

// DaemonStatus fetches daemon runtime information.
func (c *Client) DaemonStatus() (api.Envelope, error) {
	return c.call("DaemonStatus", DaemonStatusRequest{})
}

// DaemonStop asks the daemon process to shut down.
func (c *Client) DaemonStop() (api.Envelope, error) {
	return c.call("DaemonStop", DaemonStopRequest{})
}
