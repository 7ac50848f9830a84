package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns the starter file for kind. Only "server" exists today.
func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "server":
		return serverTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serverTemplate = `name = "devkit"
addr = "127.0.0.1:8080"
cors_origins = ["http://localhost:3000"]

# tool or category ids; empty enables every builtin
tools = []

max_input_bytes = 1048576
shutdown_timeout = "10s"

[rate_limit]
requests_per_second = 20.0
burst = 40
`
