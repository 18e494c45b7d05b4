package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// FileName is the name of the project configuration file.
	FileName = ".envlint.yaml"
	// EnvPrefix prefixes environment variable overrides (ENVLINT_CWD, ...).
	EnvPrefix = "ENVLINT"
)

// Config represents the envlint configuration file
type Config struct {
	Cwd       string        `mapstructure:"cwd" yaml:"cwd"`
	AllowList []string      `mapstructure:"allowlist" yaml:"allowList"`
	Ignores   IgnoresConfig `mapstructure:"ignores" yaml:"ignores"`
}

// IgnoresConfig contains ignore rules for environment variables
type IgnoresConfig struct {
	Missing []string `mapstructure:"missing" yaml:"missing"` // Keys never reported as undeclared
	Folders []string `mapstructure:"folders" yaml:"folders"` // Folders whose findings are counted but not reported
}

// Default returns an empty configuration.
func Default() *Config {
	return &Config{
		AllowList: []string{},
		Ignores: IgnoresConfig{
			Missing: []string{},
			Folders: []string{},
		},
	}
}

// Load reads .envlint.yaml from rootPath. A missing file yields the defaults;
// ENVLINT_* environment variables override either.
func Load(rootPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("cwd", defaults.Cwd)
	v.SetDefault("allowlist", defaults.AllowList)
	v.SetDefault("ignores.missing", defaults.Ignores.Missing)
	v.SetDefault("ignores.folders", defaults.Ignores.Folders)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := filepath.Join(rootPath, FileName)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ShouldIgnoreMissing checks if a key should never be reported as undeclared
func (c *Config) ShouldIgnoreMissing(key string) bool {
	for _, ignored := range c.Ignores.Missing {
		if ignored == key {
			return true
		}
	}
	return false
}

// Template is written by `envlint init-config`.
const Template = `# envlint configuration
#
# cwd: directory used to resolve the root turbo.json (defaults to the scan path)
# cwd: .

# Regular expressions (ECMAScript syntax) for keys that never need declaring
allowList:
  - "^NODE_ENV$"

ignores:
  # Keys never reported as undeclared
  missing: []
  # Folders whose findings are counted but not reported (e.g. "scripts", "tools/dev")
  folders: []
`

// WriteTemplate creates .envlint.yaml in dir. It refuses to overwrite an
// existing file.
func WriteTemplate(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(Template), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
