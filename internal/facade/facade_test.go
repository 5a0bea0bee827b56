package facade

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenelink/scenelink/internal/hostclient"
)

// fakeCaller records the last command and plays back a canned reply.
type fakeCaller struct {
	lastType   string
	lastParams any
	result     json.RawMessage
	err        error
	calls      int
}

func (f *fakeCaller) SendCommand(ctx context.Context, cmdType string, params any) (json.RawMessage, error) {
	f.calls++
	f.lastType = cmdType
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testServer(caller *fakeCaller) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(caller, logger)
}

func request(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("content type = %T, want text", result.Content[0])
		return ""
	}
}

func TestGetSceneInfoRelaysAndFormats(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"name":"Scene","object_count":2}`)}
	s := testServer(caller)

	result, err := s.getSceneInfo(context.Background(), request("get_scene_info", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "get_scene_info", caller.lastType)
	assert.Nil(t, caller.lastParams)

	text := textOf(t, result)
	assert.Contains(t, text, `"object_count": 2`)
}

func TestCreateObjectRelaysParams(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"name":"Ball"}`)}
	s := testServer(caller)

	result, err := s.createObject(context.Background(), request("create_object", map[string]any{
		"primitive": "sphere",
		"name":      "Ball",
		"location":  []any{0.0, 0.0, 2.0},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	params := caller.lastParams.(map[string]any)
	assert.Equal(t, "sphere", params["primitive"])
	assert.Equal(t, "Ball", params["name"])
}

func TestCreateObjectValidatesLocally(t *testing.T) {
	caller := &fakeCaller{}
	s := testServer(caller)

	result, err := s.createObject(context.Background(), request("create_object", map[string]any{
		"primitive": "blob",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "primitive must be one of")
	assert.Zero(t, caller.calls, "invalid input must not reach the host")

	result, err = s.createObject(context.Background(), request("create_object", map[string]any{
		"primitive": "cube",
		"location":  []any{1.0, 2.0},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "array of 3 numbers")
	assert.Zero(t, caller.calls)
}

func TestSetObjectTransformRequiresSomeChannel(t *testing.T) {
	caller := &fakeCaller{}
	s := testServer(caller)

	result, err := s.setObjectTransform(context.Background(), request("set_object_transform", map[string]any{
		"object_name": "Box",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "at least one of")
	assert.Zero(t, caller.calls)
}

func TestTransportErrorBecomesToolError(t *testing.T) {
	caller := &fakeCaller{err: hostclient.ErrTimeout}
	s := testServer(caller)

	result, err := s.getSceneInfo(context.Background(), request("get_scene_info", nil))
	require.NoError(t, err, "transport failures must not abort the agent turn")
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Error getting scene info")
	assert.Contains(t, textOf(t, result), "timed out")
}

func TestHostErrorBecomesToolError(t *testing.T) {
	caller := &fakeCaller{err: &hostclient.HostError{Message: "Object not found: Ghost"}}
	s := testServer(caller)

	result, err := s.deleteObject(context.Background(), request("delete_object", map[string]any{
		"object_name": "Ghost",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Object not found: Ghost")
}

func TestSetFrameRangeValidatesOrder(t *testing.T) {
	caller := &fakeCaller{}
	s := testServer(caller)

	result, err := s.setFrameRange(context.Background(), request("set_frame_range", map[string]any{
		"start_frame": float64(100),
		"end_frame":   float64(10),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "start_frame must be before end_frame")
	assert.Zero(t, caller.calls)
}

func TestInsertKeyframeValidation(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"frame":12}`)}
	s := testServer(caller)

	result, err := s.insertKeyframe(context.Background(), request("insert_keyframe", map[string]any{
		"object_name": "Box",
		"channel":     "opacity",
		"frame":       float64(12),
		"value":       []any{0.0, 0.0, 1.0},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "channel must be one of")

	result, err = s.insertKeyframe(context.Background(), request("insert_keyframe", map[string]any{
		"object_name": "Box",
		"channel":     "location",
		"frame":       float64(12),
		"value":       []any{0.0, 0.0, 1.0},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	params := caller.lastParams.(map[string]any)
	assert.Equal(t, "BEZIER", params["interpolation"])
	assert.Equal(t, 12, params["frame"])
}

func TestDownloadAssetValidation(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"asset_id":"x"}`)}
	s := testServer(caller)

	result, err := s.downloadPolyHavenAsset(context.Background(), request("download_polyhaven_asset", map[string]any{
		"asset_id":   "x",
		"asset_type": "all",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "asset_type must be one of")
	assert.Zero(t, caller.calls)
}

func TestToolsAreRegistered(t *testing.T) {
	s := testServer(&fakeCaller{})
	require.NotNil(t, s.MCPServer())
}

func TestPrettyJSONFallsBackOnNonObject(t *testing.T) {
	assert.Equal(t, `"just a string"`, prettyJSON(json.RawMessage(`"just a string"`)))
	assert.Equal(t, "not json", prettyJSON(json.RawMessage("not json")))
}

var errSentinel = errors.New("boom")

func TestApplySceneTemplateRelaysTarget(t *testing.T) {
	caller := &fakeCaller{result: json.RawMessage(`{"template":"product_studio_pro"}`)}
	s := testServer(caller)

	result, err := s.applySceneTemplate(context.Background(), request("apply_scene_template", map[string]any{
		"template_key":  "product_studio_pro",
		"target_object": "Chair",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	params := caller.lastParams.(map[string]any)
	assert.Equal(t, "Chair", params["target_object"])

	caller.err = errSentinel
	result, err = s.applySceneTemplate(context.Background(), request("apply_scene_template", map[string]any{
		"template_key": "nonexistent_template",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "template_key must be one of")
}
