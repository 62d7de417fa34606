package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// dotEnvFiles are tried in order; the first one that exists and parses wins.
var dotEnvFiles = []string{".env", ".env.local"}

// readDotEnv parses the first .env file found in dir without touching the process
// environment. It returns the file used, or "" when none exists.
func readDotEnv(dir string) (map[string]string, string, error) {
	for _, name := range dotEnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, path, err
		}
		return values, path, nil
	}
	return nil, "", nil
}

// layered returns a lookup where non-empty process values win over .env values.
func layered(process LookupFunc, dotenv map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := process(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
}
