package config

import "sync"

// FlagStore holds the live integration flags. The dispatcher reads it on
// every command, so a Set takes effect on the next command without a
// restart, the equivalent of toggling an integration checkbox in the
// host UI.
type FlagStore struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagStore creates a store seeded from the config's integrations
// section.
func NewFlagStore(initial map[string]bool) *FlagStore {
	flags := make(map[string]bool, len(initial))
	for name, on := range initial {
		flags[name] = on
	}
	return &FlagStore{flags: flags}
}

// Enabled reports whether the named flag is currently on.
func (s *FlagStore) Enabled(flag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[flag]
}

// Set turns a flag on or off, effective immediately.
func (s *FlagStore) Set(flag string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[flag] = on
}
