package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"chaptercut/internal/controller"
	"chaptercut/internal/logging"
)

// Server exposes run control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, ctrl *controller.Controller, logger *slog.Logger) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("ipc server requires controller")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{controller: ctrl, logger: logger}
	if err := rpcServer.RegisterName("Chaptercut", srv); err != nil {
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
				s.logger.Warn("accept failed", logging.Error(err))
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
		s.logger.Warn("failed to remove socket", logging.Args(
			logging.String("socket", s.path),
			logging.Error(err),
		)...)
	}
}

type service struct {
	controller *controller.Controller
	logger     *slog.Logger
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(s.logger, "ipc")
}

func (s *service) Pause(_ PauseRequest, resp *PauseResponse) error {
	s.log().Debug("pause requested")
	if err := s.controller.Pause(); err != nil {
		resp.Paused = false
		resp.Message = err.Error()
		return nil
	}
	resp.Paused = true
	resp.Message = "run paused"
	s.log().Info("run paused via IPC")
	return nil
}

func (s *service) Resume(_ ResumeRequest, resp *ResumeResponse) error {
	s.log().Debug("resume requested")
	if err := s.controller.Resume(); err != nil {
		resp.Resumed = false
		resp.Message = err.Error()
		return nil
	}
	resp.Resumed = true
	resp.Message = "run resumed"
	s.log().Info("run resumed via IPC")
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("stop requested")
	if err := s.controller.Stop(); err != nil {
		resp.Stopped = false
		resp.Message = err.Error()
		return nil
	}
	resp.Stopped = true
	resp.Message = "run stopping"
	s.log().Info("run stopped via IPC")
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	snap := s.controller.Status()
	resp.State = snap.State
	resp.RunID = snap.RunID
	resp.CurrentChapter = snap.CurrentChapter
	resp.Done = snap.Done
	resp.Failed = snap.Failed
	resp.Total = snap.Total
	if !snap.StartedAt.IsZero() {
		resp.StartedAt = snap.StartedAt.UTC().Format(time.RFC3339)
	}
	return nil
}
