package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "THINGSTORE"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyNamespace = "namespace"
	cfgKeyDatabase  = "database"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
)

// envKeys are the settings THINGSTORE_* variables override. data_dir is
// resolved by internal/paths, where the config file outranks the
// environment.
var envKeys = []string{cfgKeyBackend, cfgKeyNamespace, cfgKeyDatabase, cfgKeyLogLevel, cfgKeyLogFormat}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# thingstore configuration

# Backend: sqlite (file in data_dir) or memory (discarded on exit)
backend: sqlite

# Data directory (optional; overridable by --data-dir)
# data_dir:

# Session scope
namespace: thingstore
database: main

# Logging: debug, info, warn, error; text or json
log_level: warn
log_format: text
`

// settings is the resolved CLI configuration.
type settings struct {
	ConfigDir string
	Backend   string
	DataDir   string
	Namespace string
	Database  string
	LogLevel  string
	LogFormat string
}

func (s settings) storeConfig() types.Config {
	return types.Config{
		Backend:   s.Backend,
		DataDir:   s.DataDir,
		Namespace: s.Namespace,
		Database:  s.Database,
	}
}

// loadSettings loads .env files, then reads config.yaml from configDir with
// THINGSTORE_* overrides. It creates configDir and a default config.yaml on
// first run.
func loadSettings(configDir string) (settings, error) {
	if err := loadEnvFiles(envFileName, filepath.Join(configDir, envFileName)); err != nil {
		return settings{}, err
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return settings{}, types.NewIOError(fmt.Errorf("ensure default config: %w", err))
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyNamespace, types.DefaultNamespace)
	v.SetDefault(cfgKeyDatabase, types.DefaultDatabase)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, types.NewSerdeError(fmt.Errorf("read config: %w", err))
		}
	}

	return settings{
		ConfigDir: configDir,
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   v.GetString(cfgKeyDataDir),
		Namespace: v.GetString(cfgKeyNamespace),
		Database:  v.GetString(cfgKeyDatabase),
		LogLevel:  v.GetString(cfgKeyLogLevel),
		LogFormat: v.GetString(cfgKeyLogFormat),
	}, nil
}

// loadEnvFiles loads the files that exist. Variables already set in the
// environment win.
func loadEnvFiles(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return types.NewSerdeError(fmt.Errorf("load env: %w", err))
	}
	return nil
}

// ensureDefaultConfigFile creates configDir and a default config.yaml if
// the file does not exist.
func ensureDefaultConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
