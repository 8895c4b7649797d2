package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned when the API key variable is unset or blank.
var ErrMissingCredential = errors.New("API key not found, check your .env file")

// LookupFunc reads an environment variable; os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadEnvFile populates the process environment from a dotenv file.
// Variables already set win. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Credential returns the value of the named variable, failing if it is
// unset or blank.
func Credential(lookup LookupFunc, name string) (string, error) {
	v, ok := lookup(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w (%s)", ErrMissingCredential, name)
	}
	return strings.TrimSpace(v), nil
}
