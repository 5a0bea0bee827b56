// Package protocol defines the JSON envelopes exchanged between the
// tool façade and the host-side command server.
//
// The wire format carries no length prefix: a message is complete exactly
// when the accumulated bytes parse as one JSON document. Both sides
// therefore read in chunks and re-attempt a full parse after every read.
package protocol

import "encoding/json"

// Command is sent from the client to the host over the TCP socket.
type Command struct {
	Type   string          `json:"type"`             // dispatch table key
	Params json.RawMessage `json:"params,omitempty"` // handler arguments
}

// Response is sent from the host back to the client. Exactly one of
// Result/Message is meaningful, selected by Status.
type Response struct {
	Status  string          `json:"status"`            // "success" or "error"
	Result  json.RawMessage `json:"result,omitempty"`  // present on success
	Message string          `json:"message,omitempty"` // present on error
}

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// IsError reports whether the response carries the error branch.
func (r *Response) IsError() bool {
	return r.Status == StatusError
}

// Success builds a success response from a handler result. A result that
// cannot be marshaled is reported as an error response instead, so a
// handler bug never produces a half-valid envelope.
func Success(result any) *Response {
	data, err := json.Marshal(result)
	if err != nil {
		return Error("marshaling handler result: " + err.Error())
	}
	return &Response{Status: StatusSuccess, Result: data}
}

// Error builds an error response with the given message.
func Error(message string) *Response {
	return &Response{Status: StatusError, Message: message}
}

// DecodeCommand attempts to parse buf as one complete Command document.
// It returns ok=false while the buffer is incomplete (or otherwise not
// yet a single valid JSON document); callers keep buffering in that case.
func DecodeCommand(buf []byte) (*Command, bool) {
	var cmd Command
	if err := json.Unmarshal(buf, &cmd); err != nil {
		return nil, false
	}
	return &cmd, true
}

// DecodeResponse attempts to parse buf as one complete Response document.
func DecodeResponse(buf []byte) (*Response, bool) {
	var resp Response
	if err := json.Unmarshal(buf, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
