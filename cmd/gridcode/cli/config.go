// Copyright 2026 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables providing flag defaults.
const (
	EnvDB       = "GRIDCODE_DB"
	EnvLogLevel = "GRIDCODE_LOG_LEVEL"
	EnvRange    = "GRIDCODE_RANGE"
)

// Config holds the defaults of the persistent flags.
type Config struct {
	DB       string
	LogLevel string
	Range    string
}

// LoadConfig reads an optional .env file from the working directory and
// returns the flag defaults found in the environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("unable to load .env", "error", err)
	}

	return Config{
		DB:       getenv(EnvDB, defaultDB()),
		LogLevel: getenv(EnvLogLevel, "warn"),
		Range:    getenv(EnvRange, "reject"),
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return def
}

func defaultDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gridcode.db"
	}

	return filepath.Join(home, ".gridcode", "notes.db")
}
