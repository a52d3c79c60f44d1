package types

import "errors"

// Config holds backend selection and server parameters for Store.Attach and
// the HTTP layer.
type Config struct {
	Backend    string  `json:"backend" yaml:"backend"`
	DataDir    string  `json:"data_dir" yaml:"data_dir"`
	Host       string  `json:"host" yaml:"host"`
	Port       int     `json:"port" yaml:"port"`
	PublicURL  string  `json:"public_url" yaml:"public_url"`     // Base for confirmation URLs; derived from Host:Port when empty.
	TokenTTL   int     `json:"token_ttl" yaml:"token_ttl"`       // Auth token lifetime in seconds.
	LoginRate  float64 `json:"login_rate" yaml:"login_rate"`     // Login attempts per second per client; <= 0 disables limiting.
	LoginBurst int     `json:"login_burst" yaml:"login_burst"`   // Login burst size per client.
	LogLevel   string  `json:"log_level" yaml:"log_level"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied by the CLI and by Validate-time normalization.
const (
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 8000
	DefaultTokenTTL   = 86400
	DefaultLoginRate  = 5.0
	DefaultLoginBurst = 10
	DefaultLogLevel   = "info"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrPortInvalid     = errors.New("port must be between 1 and 65535")
	ErrTokenTTLInvalid = errors.New("token ttl must be positive")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// knownLogLevels lists the log levels that Validate accepts.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrPortInvalid
	}
	if c.TokenTTL <= 0 {
		return ErrTokenTTLInvalid
	}
	if c.LogLevel != "" && !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
