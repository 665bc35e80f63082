package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Load parses the process environment into cfg, which must be a pointer to a
// struct using `env` tags. Variable names match case-insensitively; when both
// DATABASE_URL and database_url are set the upper-case one wins. Variables
// without a matching tag are ignored.
//
// Example:
//
//	type Config struct {
//	    DatabaseURL string `env:"DATABASE_URL,required"`
//	    LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	return LoadFrom(cfg, env.ToMap(os.Environ()))
}

// LoadFrom is like Load but reads from the given variables instead of the
// process environment.
func LoadFrom(cfg any, vars map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: foldKeys(vars)}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// foldKeys upper-cases every key. Keys already in upper case take precedence
// over other spellings of the same name.
func foldKeys(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		up := strings.ToUpper(k)
		if k != up {
			if _, exact := vars[up]; exact {
				continue
			}
		}
		out[up] = v
	}
	return out
}
