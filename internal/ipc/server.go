package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"mechanicflow/internal/api"
	"mechanicflow/internal/daemon"
	"mechanicflow/internal/logging"
)

// Server exposes the command surface via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. shutdown is
// invoked when a client requests daemon termination; it may be nil.
func NewServer(ctx context.Context, path string, svc *api.Service, d *daemon.Daemon, shutdown func(), logger *slog.Logger) (*Server, error) {
	if svc == nil || d == nil {
		return nil, errors.New("ipc server requires service and daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	handler := &service{api: svc, daemon: d, shutdown: shutdown, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("MechanicFlow", handler); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"))
	}
}

type service struct {
	api      *api.Service
	daemon   *daemon.Daemon
	shutdown func()
	logger   *slog.Logger
	ctx      context.Context
}

func (s *service) ClientCreate(req ClientCreateRequest, resp *api.Envelope) error {
	*resp = s.api.ClientCreate(req.Name)
	return nil
}

func (s *service) ClientList(_ ClientListRequest, resp *api.Envelope) error {
	*resp = s.api.ClientList()
	return nil
}

func (s *service) ClientDetails(req ClientDetailsRequest, resp *api.Envelope) error {
	*resp = s.api.ClientDetails(req.ID)
	return nil
}

func (s *service) ClientPath(req ClientPathRequest, resp *api.Envelope) error {
	*resp = s.api.ClientPath(req.ID)
	return nil
}

func (s *service) ClientAddFile(req ClientAddFileRequest, resp *api.Envelope) error {
	*resp = s.api.ClientAddFile(req.ClientID, req.File)
	return nil
}

func (s *service) ClientRename(req ClientRenameRequest, resp *api.Envelope) error {
	*resp = s.api.ClientRename(req.ID, req.NewName)
	return nil
}

func (s *service) ClientDuplicate(req ClientDuplicateRequest, resp *api.Envelope) error {
	*resp = s.api.ClientDuplicate(req.ID, req.NewName)
	return nil
}

func (s *service) ClientDelete(req ClientDeleteRequest, resp *api.Envelope) error {
	*resp = s.api.ClientDelete(req.ID)
	return nil
}

func (s *service) StatusUpdate(req StatusUpdateRequest, resp *api.Envelope) error {
	*resp = s.api.StatusUpdate(req.ID, req.Patch)
	return nil
}

func (s *service) TaskAdd(req TaskAddRequest, resp *api.Envelope) error {
	*resp = s.api.TaskAdd(req.ClientID, req.Fields)
	return nil
}

func (s *service) TaskUpdate(req TaskUpdateRequest, resp *api.Envelope) error {
	*resp = s.api.TaskUpdate(req.ClientID, req.TaskID, req.Patch)
	return nil
}

func (s *service) TaskDelete(req TaskDeleteRequest, resp *api.Envelope) error {
	*resp = s.api.TaskDelete(req.ClientID, req.TaskID)
	return nil
}

func (s *service) Compress(req CompressRequest, resp *api.Envelope) error {
	*resp = s.api.CompressEnqueue(s.ctx, req.ClientID, req.InputPath, req.Profile)
	return nil
}

func (s *service) JobList(req JobListRequest, resp *api.Envelope) error {
	*resp = s.api.JobList(s.ctx, req.Statuses)
	return nil
}

func (s *service) JobDescribe(req JobDescribeRequest, resp *api.Envelope) error {
	*resp = s.api.JobDescribe(s.ctx, req.ID)
	return nil
}

func (s *service) JobsClear(_ JobsClearRequest, resp *api.Envelope) error {
	*resp = s.api.JobsClear(s.ctx)
	return nil
}

func (s *service) Report(req ReportRequest, resp *api.Envelope) error {
	*resp = s.api.ReportGenerate(s.ctx, req.ClientID)
	return nil
}

func (s *service) DepsCheck(_ DepsCheckRequest, resp *api.Envelope) error {
	*resp = s.api.DepsCheck()
	return nil
}

func (s *service) DaemonStatus(_ DaemonStatusRequest, resp *api.Envelope) error {
	status, err := s.daemon.Status(s.ctx)
	if err != nil {
		*resp = api.Fail(err)
		return nil
	}
	*resp = api.OK(status)
	return nil
}

func (s *service) DaemonStop(_ DaemonStopRequest, resp *api.Envelope) error {
	s.logger.Info("daemon stop requested via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	*resp = api.OK(map[string]bool{"stopping": true})
	if s.shutdown != nil {
		go s.shutdown()
	}
	return nil
}
