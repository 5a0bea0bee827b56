// Package facade exposes the host's capabilities as MCP tools.
//
// Each tool wraps exactly one command round trip. Failures of any kind
// (validation, transport, timeout, or a host-side handler error) come
// back to the agent as a descriptive tool error result, never as a
// raised error that aborts the agent's turn.
package facade

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scenelink/scenelink/internal/scene"
)

// Version reported in the MCP handshake.
const Version = "0.1.0"

// Caller executes one command round trip against the host. It is
// injected so tests can substitute a fake transport.
type Caller interface {
	SendCommand(ctx context.Context, cmdType string, params any) (json.RawMessage, error)
}

// Server is the MCP tool façade over one host connection.
type Server struct {
	caller Caller
	logger *slog.Logger
	mcp    *server.MCPServer
}

// NewServer builds the façade with its full tool set registered.
func NewServer(caller Caller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		caller: caller,
		logger: logger,
		mcp:    server.NewMCPServer("scenelink", Version),
	}
	s.registerTools()
	return s
}

// ServeStdio runs the MCP server over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer exposes the underlying server for in-process test clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// call runs one round trip and formats the result for the agent. Every
// error becomes a tool error result.
func (s *Server) call(ctx context.Context, what, cmdType string, params any) *mcp.CallToolResult {
	result, err := s.caller.SendCommand(ctx, cmdType, params)
	if err != nil {
		s.logger.Error("command failed", "type", cmdType, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error %s: %v", what, err))
	}
	return mcp.NewToolResultText(prettyJSON(result))
}

func prettyJSON(raw json.RawMessage) string {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}

// vec3Arg extracts an optional [x, y, z] array argument.
func vec3Arg(args map[string]any, key string) (*scene.Vec3, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok || len(list) != 3 {
		return nil, fmt.Errorf("%s must be an array of 3 numbers", key)
	}
	var v scene.Vec3
	for i, item := range list {
		num, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a number", key, i)
		}
		v[i] = num
	}
	return &v, nil
}

func numberArraySchema(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "number"},
		"minItems":    3,
		"maxItems":    3,
		"description": description,
	}
}

func stringSchema(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enumSchema(description string, values []string) map[string]any {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return map[string]any{"type": "string", "description": description, "enum": enum}
}

func numberSchema(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func integerSchema(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}
