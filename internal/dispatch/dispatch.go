// Package dispatch routes decoded commands to registered handlers.
package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/scenelink/scenelink/internal/protocol"
)

// Handler executes one command type. Params is the raw JSON params
// object; handlers decode it themselves, so a missing required parameter
// surfaces as a handler error and becomes an error response.
type Handler func(params json.RawMessage) (any, error)

// FlagProvider reports whether a named feature is currently enabled.
// It is consulted on every dispatch, never cached, so toggling a flag
// takes effect on the very next command without a restart.
type FlagProvider interface {
	Enabled(flag string) bool
}

// Registry holds the always-on base handler table plus optional tables
// keyed by the feature flag that gates them.
type Registry struct {
	flags FlagProvider
	base  map[string]Handler
	gated map[string]map[string]Handler
}

// NewRegistry creates an empty registry reading flags from the provider.
func NewRegistry(flags FlagProvider) *Registry {
	return &Registry{
		flags: flags,
		base:  make(map[string]Handler),
		gated: make(map[string]map[string]Handler),
	}
}

// Register adds a handler to the base table.
func (r *Registry) Register(cmdType string, h Handler) {
	r.base[cmdType] = h
}

// RegisterGated adds a handler that is only reachable while the named
// flag is enabled.
func (r *Registry) RegisterGated(flag, cmdType string, h Handler) {
	table, ok := r.gated[flag]
	if !ok {
		table = make(map[string]Handler)
		r.gated[flag] = table
	}
	table[cmdType] = h
}

// Dispatch resolves and runs the handler for cmd, returning a well-formed
// response in every case. Handler errors and panics are converted into
// error responses; a command whose type is absent from the effective
// table gets an unknown-command error. A type that exists only behind a
// disabled flag is reported identically to one that never existed.
func (r *Registry) Dispatch(cmd *protocol.Command) *protocol.Response {
	h, ok := r.lookup(cmd.Type)
	if !ok {
		return protocol.Error(fmt.Sprintf("Unknown command type: %s", cmd.Type))
	}

	result, err := invoke(h, cmd.Params)
	if err != nil {
		return protocol.Error(err.Error())
	}
	return protocol.Success(result)
}

// lookup builds the effective table for this single command: the base
// table merged with every gated table whose flag is true right now.
func (r *Registry) lookup(cmdType string) (Handler, bool) {
	if h, ok := r.base[cmdType]; ok {
		return h, true
	}
	for flag, table := range r.gated {
		if r.flags == nil || !r.flags.Enabled(flag) {
			continue
		}
		if h, ok := table[cmdType]; ok {
			return h, true
		}
	}
	return nil, false
}

// invoke runs a handler, recovering panics so a handler bug can never
// take down the main loop.
func invoke(h Handler, params json.RawMessage) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return h(params)
}
