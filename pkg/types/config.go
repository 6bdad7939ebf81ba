package types

import "errors"

// Config selects the backend and the session scope for a Store.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Database  string `json:"database" yaml:"database"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	// BackendMemory runs the SQLite backend on a private in-memory database.
	BackendMemory = "memory"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultNamespace = "thingstore"
	DefaultDatabase  = "main"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrInvalidScope   = errors.New("namespace and database must be valid names")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// WithDefaults returns c with an empty namespace and database replaced by
// the defaults.
func (c Config) WithDefaults() Config {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	return c
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Namespace != "" && !ValidTableName(c.Namespace) {
		return ErrInvalidScope
	}
	if c.Database != "" && !ValidTableName(c.Database) {
		return ErrInvalidScope
	}
	return nil
}
