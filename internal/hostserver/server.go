// Package hostserver runs the TCP command server inside the host process.
//
// Network goroutines here only parse bytes and post work; every handler
// runs on the host main loop. That is the invariant that keeps the host
// object model safe from concurrent access.
package hostserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scenelink/scenelink/internal/protocol"
)

const (
	acceptPollInterval = 500 * time.Millisecond
	readBufferSize     = 8192
	stopJoinTimeout    = 2 * time.Second
)

// Dispatcher resolves and executes one command, always returning a
// well-formed response.
type Dispatcher interface {
	Dispatch(cmd *protocol.Command) *protocol.Response
}

// Scheduler posts a task onto the host main loop.
type Scheduler interface {
	Post(fn func())
}

// Server accepts client connections and turns inbound byte streams into
// dispatched commands, one response per command.
type Server struct {
	addr   string
	disp   Dispatcher
	sched  Scheduler
	logger *slog.Logger

	mu       sync.Mutex
	running  bool
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// New creates a server that will listen on addr once started.
func New(addr string, disp Dispatcher, sched Scheduler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:   addr,
		disp:   disp,
		sched:  sched,
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Start binds the listener and spawns the accept loop. Calling it while
// already running is a no-op.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("command server already running", "addr", s.addr)
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ln)
	}()

	s.logger.Info("command server started", "addr", ln.Addr().String())
	return nil
}

// Stop closes the listener and all open connections, then waits a
// bounded time for the network goroutines to exit. Safe to call when
// never started, and safe to call twice.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
		s.logger.Warn("timed out waiting for connection goroutines")
	}
	s.logger.Info("command server stopped")
}

// Addr returns the bound listener address, or empty when stopped.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// acceptLoop accepts connections until the server stops. The deadline
// keeps Accept from blocking forever so Stop is observed promptly, and
// transient accept failures are logged rather than fatal.
func (s *Server) acceptLoop(ln net.Listener) {
	tcpLn, _ := ln.(*net.TCPListener)
	for {
		if tcpLn != nil {
			tcpLn.SetDeadline(time.Now().Add(acceptPollInterval))
		}

		conn, err := ln.Accept()
		if err != nil {
			if !s.isRunning() {
				return
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			s.logger.Warn("accept failed", "error", err)
			time.Sleep(acceptPollInterval)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn reads one connection: accumulate bytes, attempt a full JSON
// parse after every read, and post each decoded command to the main
// loop. Incomplete JSON just keeps buffering; peer close or any read
// error ends the reader.
func (s *Server) handleConn(conn net.Conn) {
	id := uuid.NewString()[:8]
	s.logger.Info("client connected", "conn", id, "remote", conn.RemoteAddr().String())
	defer func() {
		s.untrack(conn)
		conn.Close()
		s.logger.Info("client handler stopped", "conn", id)
	}()

	var buffer []byte
	chunk := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(chunk)
		if err != nil {
			if s.isRunning() {
				s.logger.Info("client disconnected", "conn", id, "error", err)
			}
			return
		}

		buffer = append(buffer, chunk[:n]...)
		cmd, ok := protocol.DecodeCommand(buffer)
		if !ok {
			continue // incomplete document, wait for more bytes
		}
		buffer = buffer[:0]
		s.sched.Post(func() {
			s.execute(conn, id, cmd)
		})
	}
}

// execute runs on the main loop: dispatch the command and write the
// response back on the originating connection. A failed write means the
// peer is gone; log and drop, never retry.
func (s *Server) execute(conn net.Conn, id string, cmd *protocol.Command) {
	resp := s.disp.Dispatch(cmd)

	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(protocol.Error("marshaling response: " + err.Error()))
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to send response, dropping", "conn", id, "type", cmd.Type, "error", err)
	}
}

func (s *Server) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// track registers a live connection, refusing it if the server has
// already stopped.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}
