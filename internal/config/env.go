package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvFiles are loaded, in order, by LoadEnvFiles.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads KEY=VALUE pairs from the files in EnvFiles that exist.
// Variables already present in the process environment are never
// overwritten, so the first file to define a key wins over later ones.
func LoadEnvFiles() error {
	for _, path := range EnvFiles {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}
