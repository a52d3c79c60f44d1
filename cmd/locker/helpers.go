// Shared helpers for locker CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/lockerhq/locker/internal/sqlite"
	"github.com/lockerhq/locker/pkg/client"
	"github.com/lockerhq/locker/pkg/types"
)

// storeConfig maps the loaded configuration onto types.Config.
func storeConfig() (types.Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	return types.Config{
		Backend:    cfg.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		Host:       cfg.GetString(cfgKeyHost),
		Port:       cfg.GetInt(cfgKeyPort),
		PublicURL:  cfg.GetString(cfgKeyPublicURL),
		TokenTTL:   cfg.GetInt(cfgKeyTokenTTL),
		LoginRate:  cfg.GetFloat64(cfgKeyLoginRate),
		LoginBurst: cfg.GetInt(cfgKeyLoginBurst),
		LogLevel:   cfg.GetString(cfgKeyLogLevel),
	}, nil
}

// attachBackend builds the store Config and attaches a SQLite backend. The
// caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	storeCfg, err := storeConfig()
	if err != nil {
		return nil, err
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(storeCfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// serverURL returns the base URL the client commands talk to:
// --server flag > config "server" (which already folds in LOCKER_SERVER).
func serverURL() string {
	if flagServer != "" {
		return flagServer
	}
	return cfg.GetString(cfgKeyServer)
}

// newAPIClient builds the SDK client with the retrying transport.
func newAPIClient() *client.Client {
	return client.New(serverURL(), client.WithRetry(client.DefaultRetryPolicy()))
}

// newLogger builds a slog text logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// parseItemID parses a numeric item id argument.
func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
