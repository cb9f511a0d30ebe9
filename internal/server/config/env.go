package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by the server.
const EnvPrefix = "STOCKKEEPER_"

// dotEnvFile is loaded when present. It never overrides variables that are
// already set in the process environment.
var dotEnvFile = ".env"

// parseEnv overlays values from a local .env file and the process
// environment. Unset variables leave the current value untouched.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix})
}
