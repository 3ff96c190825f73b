package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvPrefix is the prefix of environment variables bound by Load.
const DefaultEnvPrefix = "ORCHID_"

// nestingSeparator separates nested keys inside an environment variable name.
const nestingSeparator = "__"

// FileSystem abstracts the file operations of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Defaulter is implemented by configuration structs that fill their own defaults.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by configuration structs that validate themselves.
type Validator interface {
	Validate() error
}

// Resolver finds the config and env files for a name.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when given, otherwise searches for them.
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(
			fmt.Sprintf("./%s.yml", name),
			fmt.Sprintf("./%s.yaml", name),
			fmt.Sprintf("./config/%s.yml", name),
			"./config.yml",
		)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(
			fmt.Sprintf("./.env.%s", name),
			"./.env",
		)
	}
	return resolved
}

func (r *Resolver) first(paths ...string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
	// Key nests the loaded section, e.g. "http" reads http.* from the file.
	Key string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides DefaultEnvPrefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithKey unmarshals only the sub-tree under key.
func WithKey(key string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Key = key }
}

// Load reads configuration for name into target. When target implements
// Defaulter and Validator, defaults are applied and the result validated.
func Load(name string, target any, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}
	bindEnvVars(v, lc.EnvPrefix, lc.Key)

	var err error
	if lc.Key != "" {
		err = v.UnmarshalKey(lc.Key, target)
	} else {
		err = v.Unmarshal(target)
	}
	if err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", name, err)
	}

	if d, ok := target.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if val, ok := target.(Validator); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// bindEnvVars sets every prefixed environment variable on v under its
// derived key, nested below key when one is given.
func bindEnvVars(v *viper.Viper, prefix, key string) {
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		k, ok := EnvKey(name, prefix)
		if !ok {
			continue
		}
		if key != "" {
			k = key + "." + k
		}
		v.Set(k, value)
	}
}

// EnvKey converts an environment variable name into a config key, reporting
// false when the variable does not carry prefix.
//
//	ORCHID_DEFAULTS__TIMEOUT -> defaults.timeout
//	ORCHID_MAX_REDIRECTS     -> max_redirects
func EnvKey(name, prefix string) (string, bool) {
	if prefix != "" {
		if !strings.HasPrefix(name, prefix) {
			return "", false
		}
		name = strings.TrimPrefix(name, prefix)
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(strings.ReplaceAll(name, nestingSeparator, ".")), true
}
