// Package launcher resolves the backend server binary, builds its
// invocation and supervises it as a child process.
package launcher

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// BinaryName is the backend executable we look for.
	BinaryName = "pocketbase"

	defaultHost = "0.0.0.0"
	defaultPort = 8090
)

// Mode selects the default arguments for the backend.
type Mode string

const (
	ModeDev   Mode = "dev"
	ModeStart Mode = "start"
)

// ParseMode validates a mode string, defaulting to dev when empty.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "":
		return ModeDev, nil
	case "dev":
		return ModeDev, nil
	case "start":
		return ModeStart, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want dev or start)", s)
	}
}

// Config is the environment-derived launcher configuration.
type Config struct {
	// Binary overrides executable resolution when non-empty.
	Binary string
	// Host is the bind address for start mode.
	Host string
	// Port is the bind port for start mode.
	Port int
}

// ConfigFromEnv reads POCKETBASE_BINARY, HOST and PORT with defaults.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Binary: os.Getenv("POCKETBASE_BINARY"),
		Host:   defaultHost,
		Port:   defaultPort,
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	return cfg, nil
}
