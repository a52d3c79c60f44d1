// Config loading for the locker CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lockerhq/locker/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyHost       = "host"
	cfgKeyPort       = "port"
	cfgKeyPublicURL  = "public_url"
	cfgKeyTokenTTL   = "token_ttl"
	cfgKeyLoginRate  = "login_rate"
	cfgKeyLoginBurst = "login_burst"
	cfgKeyLogLevel   = "log_level"
	cfgKeyServer     = "server"

	// Base URL the client commands use when nothing else is configured.
	defaultServerURL = "http://127.0.0.1:8000"
)

// defaultConfigYAML is written to config.yaml on first run. All keys except
// the backend stay commented out so the environment keeps working until a
// value is pinned here.
const defaultConfigYAML = `# Locker configuration
#
# Every key may also come from the matching LOCKER_* environment variable
# (LOCKER_PORT, LOCKER_DATA_DIR, ...). Values set in this file win over
# the environment.

# Storage backend
backend: sqlite

# HTTP listen address for "locker serve"
# host: 0.0.0.0
# port: 8000

# Base URL used in confirmation links (default: http://<host>:<port>)
# public_url: https://locker.example.com

# Auth token lifetime in seconds
# token_ttl: 86400

# Login throttle per client address; login_rate <= 0 disables it
# login_rate: 5
# login_burst: 10

# log_level: info

# Data directory (overridable by --data-dir)
# data_dir:

# Server address used by the client commands
# server: http://127.0.0.1:8000
`

// loadConfig reads config.yaml from the config directory using Viper. It
// creates the directory and a default config.yaml on first run. Environment
// values are installed as Viper defaults, so the effective precedence is
// flags > config.yaml > LOCKER_* environment > built-in defaults.
func loadConfig(configDir string) (*viper.Viper, error) {
	// A .env beside the process may supply LOCKER_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, envString("LOCKER_BACKEND", types.BackendSQLite))
	v.SetDefault(cfgKeyHost, envString("LOCKER_HOST", types.DefaultHost))
	v.SetDefault(cfgKeyPort, envInt("LOCKER_PORT", types.DefaultPort))
	v.SetDefault(cfgKeyPublicURL, envString("LOCKER_PUBLIC_URL", ""))
	v.SetDefault(cfgKeyTokenTTL, envInt("LOCKER_TOKEN_TTL", types.DefaultTokenTTL))
	v.SetDefault(cfgKeyLoginRate, envFloat("LOCKER_LOGIN_RATE", types.DefaultLoginRate))
	v.SetDefault(cfgKeyLoginBurst, envInt("LOCKER_LOGIN_BURST", types.DefaultLoginBurst))
	v.SetDefault(cfgKeyLogLevel, envString("LOCKER_LOG_LEVEL", types.DefaultLogLevel))
	v.SetDefault(cfgKeyServer, envString("LOCKER_SERVER", defaultServerURL))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config.yaml is not an error.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
