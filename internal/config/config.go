package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const (
	dirName   = ".opset"
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "OPSET"
)

// Configuration keys.
const (
	KeyTargetOpset = "target_opset"
	KeyStrict      = "strict"
	KeyManifests   = "manifests"
	KeyWorkers     = "workers"
)

// Keys lists every configuration key.
var Keys = []string{KeyTargetOpset, KeyStrict, KeyManifests, KeyWorkers}

// Config holds the resolved settings.
type Config struct {
	// TargetOpset selects the backend attributes written to IR documents.
	// Empty means each node's own version.
	TargetOpset string `mapstructure:"target_opset"`

	// Strict makes the ONNX frontend fail on unregistered operators.
	Strict bool `mapstructure:"strict"`

	// Manifests are extension manifests applied before the registry is sealed.
	Manifests []string `mapstructure:"manifests"`

	// Workers bounds the number of models processed concurrently.
	Workers int `mapstructure:"workers"`
}

// Dir returns the path to the config directory (~/.opset/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", dirName)
	}
	return filepath.Join(home, dirName)
}

// FilePath returns the full path to the default config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyTargetOpset, "")
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyManifests, []string{})
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	return v
}

// Load reads path, or the default config file when path is empty, into v and
// decodes the result. A missing default file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := Read(v, path); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, got %d", KeyWorkers, cfg.Workers)
	}
	return cfg, nil
}

// Read points v at path, or the default config file when path is empty, and
// reads it if it exists.
func Read(v *viper.Viper, path string) error {
	if path == "" {
		path = FilePath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Set writes a key-value pair into the config file at path, creating the file
// and its directory when needed.
func Set(v *viper.Viper, path, key string, value any) error {
	if path == "" {
		path = FilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
