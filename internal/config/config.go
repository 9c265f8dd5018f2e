// Package config loads process configuration from the environment, with
// an optional .env file for development.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the resolved process configuration. CLI flags override these
// values where both exist.
type Config struct {
	DBPath   string // location of the store file
	DataDir  string // base directory for logs and assets
	Debug    bool
	InMemory bool // volatile store, nothing persisted
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() Config {
	_ = godotenv.Load()

	dataDir := os.Getenv("STAMPCARD_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".config", "stampcard")
	}

	dbPath := os.Getenv("STAMPCARD_DB")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "stampcard.db")
	}

	return Config{
		DBPath:   dbPath,
		DataDir:  dataDir,
		Debug:    os.Getenv("STAMPCARD_DEBUG") == "1" || os.Getenv("STAMPCARD_DEBUG") == "true",
		InMemory: os.Getenv("STAMPCARD_MEMORY") == "1" || os.Getenv("STAMPCARD_MEMORY") == "true",
	}
}
