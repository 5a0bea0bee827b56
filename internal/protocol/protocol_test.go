package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeCommandIncompleteThenComplete(t *testing.T) {
	full := []byte(`{"type": "create_object", "params": {"primitive": "cube"}}`)

	for i := 1; i < len(full); i++ {
		if _, ok := DecodeCommand(full[:i]); ok {
			t.Fatalf("DecodeCommand accepted truncated buffer of %d bytes", i)
		}
	}

	cmd, ok := DecodeCommand(full)
	if !ok {
		t.Fatal("DecodeCommand rejected complete document")
	}
	if cmd.Type != "create_object" {
		t.Fatalf("Type = %q, want %q", cmd.Type, "create_object")
	}
	var params map[string]string
	if err := json.Unmarshal(cmd.Params, &params); err != nil {
		t.Fatalf("unmarshaling params: %v", err)
	}
	if params["primitive"] != "cube" {
		t.Fatalf("params = %v, want primitive=cube", params)
	}
}

func TestDecodeCommandWithoutParams(t *testing.T) {
	cmd, ok := DecodeCommand([]byte(`{"type": "get_scene_info"}`))
	if !ok {
		t.Fatal("DecodeCommand rejected command without params")
	}
	if cmd.Type != "get_scene_info" {
		t.Fatalf("Type = %q, want %q", cmd.Type, "get_scene_info")
	}
	if cmd.Params != nil {
		t.Fatalf("Params = %s, want nil", cmd.Params)
	}
}

func TestDecodeCommandMalformed(t *testing.T) {
	if _, ok := DecodeCommand([]byte(`{"type": }`)); ok {
		t.Fatal("DecodeCommand accepted malformed JSON")
	}
}

func TestSuccessRoundTrip(t *testing.T) {
	resp := Success(map[string]int{"n": 6})
	if resp.IsError() {
		t.Fatalf("Success produced error response: %s", resp.Message)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshaling response: %v", err)
	}

	decoded, ok := DecodeResponse(data)
	if !ok {
		t.Fatal("DecodeResponse rejected marshaled response")
	}
	if decoded.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", decoded.Status, StatusSuccess)
	}
	if got := string(decoded.Result); got != `{"n":6}` {
		t.Fatalf("Result = %s, want {\"n\":6}", got)
	}
}

func TestSuccessWithUnmarshalableResult(t *testing.T) {
	resp := Success(func() {})
	if !resp.IsError() {
		t.Fatal("Success with unmarshalable result did not degrade to error")
	}
	if resp.Message == "" {
		t.Fatal("degraded response carries no message")
	}
}

func TestErrorResponseShape(t *testing.T) {
	data, err := json.Marshal(Error("Unknown command type: nope"))
	if err != nil {
		t.Fatalf("marshaling response: %v", err)
	}
	want := `{"status":"error","message":"Unknown command type: nope"}`
	if string(data) != want {
		t.Fatalf("wire form = %s, want %s", data, want)
	}
}
