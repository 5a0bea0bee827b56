package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/scenelink/scenelink/internal/paths"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the config file and returns the parsed Config.
// If the config file does not exist, it returns defaults (no error).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file at the given path.
func LoadFrom(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(cfg)
	expandConfigEnvVars(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Host: HostConfig{
			Address: DefaultAddress,
			Port:    DefaultPort,
		},
		Integrations: make(map[string]bool),
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Host.Address == "" {
		cfg.Host.Address = DefaultAddress
	}
	if cfg.Host.Port == 0 {
		cfg.Host.Port = DefaultPort
	}
	if cfg.Integrations == nil {
		cfg.Integrations = make(map[string]bool)
	}
}

// Validate checks the parsed configuration for values that cannot work.
func Validate(cfg *Config) error {
	if cfg.Host.Port < 1 || cfg.Host.Port > 65535 {
		return fmt.Errorf("host port %d out of range", cfg.Host.Port)
	}
	if cfg.Client.ReceiveTimeout != "" {
		if _, err := time.ParseDuration(cfg.Client.ReceiveTimeout); err != nil {
			return fmt.Errorf("invalid receive_timeout %q: %w", cfg.Client.ReceiveTimeout, err)
		}
	}
	return nil
}

// HostAddr returns the host:port endpoint string.
func (c *Config) HostAddr() string {
	return net.JoinHostPort(c.Host.Address, strconv.Itoa(c.Host.Port))
}

// ReceiveTimeout returns the parsed client receive timeout, or zero when
// unset (callers fall back to their own default).
func (c *Config) ReceiveTimeout() time.Duration {
	if c.Client.ReceiveTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Client.ReceiveTimeout)
	if err != nil {
		return 0
	}
	return d
}

func expandConfigEnvVars(cfg *Config) {
	cfg.Host.Address = expandEnvVars(cfg.Host.Address)
	cfg.Client.ReceiveTimeout = expandEnvVars(cfg.Client.ReceiveTimeout)
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
