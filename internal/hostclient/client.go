// Package hostclient maintains the outbound connection to the host's
// command server and runs one command/response round trip at a time.
package hostclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/scenelink/scenelink/internal/protocol"
)

// DefaultTimeout bounds each individual receive while waiting for a
// response. Host-side handlers can be slow (asset downloads, heavy scene
// edits), so this is generous.
const DefaultTimeout = 180 * time.Second

const receiveBufferSize = 8192

// Failure sentinels. All of them leave the connection invalidated so the
// next call dials a fresh socket instead of reusing a suspect one.
var (
	// ErrNotConnected means the initial connect failed.
	ErrNotConnected = errors.New("not connected to host")
	// ErrTimeout means no response bytes arrived within the receive timeout.
	ErrTimeout = errors.New("timed out waiting for host response")
	// ErrClosed means the host closed the connection before responding.
	ErrClosed = errors.New("connection closed before receiving any data")
	// ErrInvalidResponse means the receive ended with bytes that never
	// formed a complete JSON document.
	ErrInvalidResponse = errors.New("incomplete response from host")
)

// HostError is the error branch of a host response: the command reached
// the host and its handler failed. The connection stays valid.
type HostError struct {
	Message string
}

func (e *HostError) Error() string { return e.Message }

// Connection is the persistent client socket to the host. At most one
// command is in flight at a time; calls from multiple goroutines are
// serialized. A failed connection is never reused.
type Connection struct {
	addr    string
	timeout time.Duration
	logger  *slog.Logger

	// dial is swapped out by tests to substitute a fake transport.
	dial func(ctx context.Context, addr string) (net.Conn, error)

	mu   sync.Mutex
	conn net.Conn
}

// New creates a connection manager for the host at addr. The socket is
// opened lazily on first use. A timeout of zero means DefaultTimeout.
func New(addr string, timeout time.Duration, logger *slog.Logger) *Connection {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Connection{
		addr:    addr,
		timeout: timeout,
		logger:  logger,
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", addr)
		},
	}
}

// Connect opens the socket if it is not already open. It returns true
// when connected and false on failure; failures are logged, not raised.
func (c *Connection) Connect(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Connection) connectLocked(ctx context.Context) bool {
	if c.conn != nil {
		return true
	}
	conn, err := c.dial(ctx, c.addr)
	if err != nil {
		c.logger.Error("failed to connect to host", "addr", c.addr, "error", err)
		return false
	}
	c.conn = conn
	c.logger.Info("connected to host", "addr", c.addr)
	return true
}

// Disconnect closes the socket if present. Close-time errors are
// swallowed; the state is always disconnected afterwards.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

func (c *Connection) invalidateLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// SendCommand executes one round trip: serialize the command, send it,
// reassemble the response from chunks, and unwrap it. Transport and
// timeout failures invalidate the connection and surface as typed
// errors; an error-status response surfaces as *HostError. No automatic
// retry is performed; the caller decides whether re-sending is safe.
func (c *Connection) SendCommand(ctx context.Context, cmdType string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connectLocked(ctx) {
		return nil, fmt.Errorf("sending %s: %w", cmdType, ErrNotConnected)
	}

	cmd := protocol.Command{Type: cmdType}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s params: %w", cmdType, err)
		}
		cmd.Params = data
	}
	payload, err := json.Marshal(&cmd)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s command: %w", cmdType, err)
	}

	c.logger.Info("sending command", "type", cmdType)
	if _, err := c.conn.Write(payload); err != nil {
		c.invalidateLocked()
		return nil, fmt.Errorf("sending %s: %w", cmdType, err)
	}

	resp, err := c.receiveResponse(ctx)
	if err != nil {
		return nil, fmt.Errorf("awaiting %s response: %w", cmdType, err)
	}

	if resp.IsError() {
		return nil, &HostError{Message: resp.Message}
	}
	return resp.Result, nil
}

// receiveResponse reads chunks until the accumulated bytes parse as one
// complete JSON document. A timeout after at least one chunk falls back
// to parsing what has accumulated rather than failing immediately; a
// timeout with nothing buffered invalidates the connection.
func (c *Connection) receiveResponse(ctx context.Context) (*protocol.Response, error) {
	var buffer []byte
	chunk := make([]byte, receiveBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			c.invalidateLocked()
			return nil, err
		}

		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		n, err := c.conn.Read(chunk)
		buffer = append(buffer, chunk[:n]...)

		if err != nil {
			var ne net.Error
			switch {
			case errors.As(err, &ne) && ne.Timeout():
				if len(buffer) == 0 {
					c.invalidateLocked()
					return nil, ErrTimeout
				}
				c.logger.Warn("receive timed out, trying accumulated data", "bytes", len(buffer))
				return c.finishPartial(buffer)
			case errors.Is(err, io.EOF):
				if len(buffer) == 0 {
					c.invalidateLocked()
					return nil, ErrClosed
				}
				return c.finishPartial(buffer)
			default:
				c.invalidateLocked()
				return nil, err
			}
		}

		if resp, ok := protocol.DecodeResponse(buffer); ok {
			c.logger.Info("received complete response", "bytes", len(buffer))
			return resp, nil
		}
		// Incomplete JSON, keep receiving.
	}
}

// finishPartial is the last attempt at a buffer the stream stopped
// feeding: parse it or report it incomplete.
func (c *Connection) finishPartial(buffer []byte) (*protocol.Response, error) {
	if resp, ok := protocol.DecodeResponse(buffer); ok {
		return resp, nil
	}
	c.invalidateLocked()
	return nil, ErrInvalidResponse
}
