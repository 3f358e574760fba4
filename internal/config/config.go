package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/json-persistence/internal/logger"
)

// Config holds the settings of the persistence service and its clients.
type Config struct {
	// RootDir is an explicit directory for item files; it wins over UserData.
	RootDir string `yaml:"root_dir"`
	// UserData is the base user data directory; item files live in <UserData>/persistence/json.
	// When empty, the SMARTHOME_USERDATA environment variable is consulted.
	UserData string `yaml:"user_data"`
	// ServerAddress is the gRPC server address clients connect to; the server binds its port.
	ServerAddress string `yaml:"server_addr"`
	// MetricsAddress is the HTTP listen address for Prometheus metrics; empty disables it.
	MetricsAddress string `yaml:"metrics_addr"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
	// WriteMode selects how item files are replaced: "atomic" or "truncate".
	WriteMode string `yaml:"write_mode"`
	// NamePolicy selects how item names are checked: "strict" or "raw".
	NamePolicy string `yaml:"name_policy"`
}

const (
	// DefaultConfigFilename is the conventional filename for service settings.
	DefaultConfigFilename = "json-persistence.yaml"

	// DefaultEnvFilename is the dotenv file consulted when no other is given.
	DefaultEnvFilename = ".env"

	// EnvUserData names the environment variable holding the user data directory.
	EnvUserData = "SMARTHOME_USERDATA"

	// DefaultServerAddress is the default gRPC address.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// FallbackRootDir is used when neither a root nor a user data directory is configured.
	FallbackRootDir = "etc/json"

	// DefaultFilePermissions is the default file permission for config and item files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is the permission of directories created for item files.
	DefaultDirPermissions = 0o755
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for unparseable log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings with every field at its default value.
func Default() *Config {
	return &Config{
		ServerAddress: DefaultServerAddress,
		Timeout:       DefaultTimeout,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()

		return cfg, Validate(cfg)
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		settings.ServerAddress = DefaultServerAddress
	}

	if _, _, err := net.SplitHostPort(settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if settings.MetricsAddress != "" {
		if _, _, err := net.SplitHostPort(settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	// Set default timeout if not specified
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	return nil
}

// ResolveRootDir returns the directory holding the item files:
// RootDir if set, else <user data>/persistence/json, else FallbackRootDir.
func ResolveRootDir(settings *Config) string {
	if settings != nil && settings.RootDir != "" {
		return filepath.Clean(settings.RootDir)
	}

	var userData string
	if settings != nil {
		userData = settings.UserData
	}

	if userData == "" {
		userData = os.Getenv(EnvUserData)
	}

	if userData == "" {
		return filepath.FromSlash(FallbackRootDir)
	}

	return filepath.Join(userData, "persistence", "json")
}

// LoadEnv loads variables from a dotenv file without overriding ones already set.
// An empty path reads DefaultEnvFilename and tolerates its absence.
func LoadEnv(path string) error {
	optional := path == ""
	if optional {
		path = DefaultEnvFilename
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if optional && errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load env file: %w", err)
}
