package hostserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/scenelink/scenelink/internal/dispatch"
	"github.com/scenelink/scenelink/internal/mainloop"
	"github.com/scenelink/scenelink/internal/protocol"
)

// postNow runs posted tasks inline, standing in for the main loop where a
// test does not care about scheduling.
type postNow struct{}

func (postNow) Post(fn func()) { fn() }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoRegistry(t *testing.T) *dispatch.Registry {
	t.Helper()
	r := dispatch.NewRegistry(nil)
	r.Register("echo_test", func(params json.RawMessage) (any, error) {
		var p struct {
			N int `json:"n"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return map[string]int{"n": p.N * 2}, nil
	})
	return r
}

func startServer(t *testing.T, disp Dispatcher, sched Scheduler) *Server {
	t.Helper()
	s := New("127.0.0.1:0", disp, sched, testLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func dialServer(t *testing.T, s *Server) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatalf("dialing server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readResponse accumulates bytes until they parse as one response, the
// same framing the client side uses.
func readResponse(t *testing.T, conn net.Conn) *protocol.Response {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var buffer []byte
	chunk := make([]byte, 512)
	for {
		n, err := conn.Read(chunk)
		if err != nil {
			t.Fatalf("reading response: %v (buffered %q)", err, buffer)
		}
		buffer = append(buffer, chunk[:n]...)
		if resp, ok := protocol.DecodeResponse(buffer); ok {
			return resp
		}
	}
}

func sendCommand(t *testing.T, conn net.Conn, cmdType string, params any) {
	t.Helper()
	cmd := map[string]any{"type": cmdType}
	if params != nil {
		cmd["params"] = params
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshaling command: %v", err)
	}
	if _, err := conn.Write(data); err != nil {
		t.Fatalf("writing command: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	s := startServer(t, echoRegistry(t), postNow{})
	conn := dialServer(t, s)

	sendCommand(t, conn, "echo_test", map[string]int{"n": 3})
	resp := readResponse(t, conn)
	if resp.IsError() {
		t.Fatalf("response error = %q", resp.Message)
	}
	if got := string(resp.Result); got != `{"n":6}` {
		t.Fatalf("Result = %s, want {\"n\":6}", got)
	}
}

func TestChunkedCommandProducesSingleResponse(t *testing.T) {
	s := startServer(t, echoRegistry(t), postNow{})
	conn := dialServer(t, s)

	data, _ := json.Marshal(map[string]any{"type": "echo_test", "params": map[string]int{"n": 5}})
	for _, b := range data {
		if _, err := conn.Write([]byte{b}); err != nil {
			t.Fatalf("writing byte: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	resp := readResponse(t, conn)
	if resp.IsError() {
		t.Fatalf("response error = %q", resp.Message)
	}
	if got := string(resp.Result); got != `{"n":10}` {
		t.Fatalf("Result = %s, want {\"n\":10}", got)
	}
}

func TestUnknownCommandKeepsConnectionUsable(t *testing.T) {
	s := startServer(t, echoRegistry(t), postNow{})
	conn := dialServer(t, s)

	sendCommand(t, conn, "nope", nil)
	resp := readResponse(t, conn)
	if !resp.IsError() {
		t.Fatal("unknown command did not produce error response")
	}
	if want := "Unknown command type: nope"; resp.Message != want {
		t.Fatalf("Message = %q, want %q", resp.Message, want)
	}

	// The error is an application response, not a transport failure: the
	// same connection serves the next command.
	sendCommand(t, conn, "echo_test", map[string]int{"n": 1})
	resp = readResponse(t, conn)
	if resp.IsError() {
		t.Fatalf("follow-up command failed: %s", resp.Message)
	}
}

func TestSequentialCommandsOnOneConnection(t *testing.T) {
	s := startServer(t, echoRegistry(t), postNow{})
	conn := dialServer(t, s)

	for i := 1; i <= 3; i++ {
		sendCommand(t, conn, "echo_test", map[string]int{"n": i})
		resp := readResponse(t, conn)
		if resp.IsError() {
			t.Fatalf("command %d failed: %s", i, resp.Message)
		}
		var result struct {
			N int `json:"n"`
		}
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			t.Fatalf("unmarshaling result: %v", err)
		}
		if result.N != i*2 {
			t.Fatalf("result = %d, want %d", result.N, i*2)
		}
	}
}

func TestHandlersRunOnTheLoop(t *testing.T) {
	loopDone := make(chan string, 1)
	r := dispatch.NewRegistry(nil)
	r.Register("probe", func(json.RawMessage) (any, error) {
		select {
		case loopDone <- "handler":
		default:
		}
		return map[string]bool{"ok": true}, nil
	})

	loop := mainloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	s := startServer(t, r, loop)
	conn := dialServer(t, s)

	sendCommand(t, conn, "probe", nil)
	resp := readResponse(t, conn)
	if resp.IsError() {
		t.Fatalf("probe failed: %s", resp.Message)
	}
	select {
	case <-loopDone:
	case <-time.After(time.Second):
		t.Fatal("handler never ran on the loop")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	s := startServer(t, echoRegistry(t), postNow{})
	addr := s.Addr()

	if err := s.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if got := s.Addr(); got != addr {
		t.Fatalf("Addr changed after redundant Start: %q != %q", got, addr)
	}
}

func TestStopIsIdempotentAndSafeUnstarted(t *testing.T) {
	s := New("127.0.0.1:0", echoRegistry(t), postNow{}, testLogger())

	// Stop before Start is a no-op.
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
	s.Stop()

	if got := s.Addr(); got != "" {
		t.Fatalf("Addr after Stop = %q, want empty", got)
	}
}

func TestStopClosesClientConnections(t *testing.T) {
	s := startServer(t, echoRegistry(t), postNow{})
	conn := dialServer(t, s)

	s.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err == nil {
		t.Fatal("connection still open after Stop")
	}
}

func TestRestartAfterStop(t *testing.T) {
	s := New("127.0.0.1:0", echoRegistry(t), postNow{}, testLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	defer s.Stop()

	conn := dialServer(t, s)
	sendCommand(t, conn, "echo_test", map[string]int{"n": 2})
	if resp := readResponse(t, conn); resp.IsError() {
		t.Fatalf("command after restart failed: %s", resp.Message)
	}
}
