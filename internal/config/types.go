package config

// Config is the top-level scenelink configuration.
type Config struct {
	Host         HostConfig      `toml:"host"`
	Client       ClientConfig    `toml:"client"`
	Integrations map[string]bool `toml:"integrations"`
}

// HostConfig describes where the host-side command server listens and
// where the client connects.
type HostConfig struct {
	Address string `toml:"address"`
	Port    int    `toml:"port"`
}

// ClientConfig holds client-side transport settings.
type ClientConfig struct {
	// ReceiveTimeout bounds each individual socket receive while waiting
	// for a response, as a Go duration string (e.g. "180s").
	ReceiveTimeout string `toml:"receive_timeout"`
}

// Default listen/connect endpoint, matching the original host add-on.
const (
	DefaultAddress = "localhost"
	DefaultPort    = 9876
)
