// Package config loads the settings a shell run bootstraps the host application with.
//
// Values are layered: built-in defaults, then an optional file under
// <root>/app/etc (shell.yaml, shell.yml or shell.toml, first match wins), then
// SHELL_* variables from the environment the process was started with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dir is where config files live, relative to the application root.
const Dir = "app/etc"

// candidate file names, in lookup order.
var fileNames = []string{"shell.yaml", "shell.yml", "shell.toml"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the shell settings for one application root.
type Config struct {
	// Root is the application root every relative path is resolved against.
	Root string `yaml:"-" toml:"-"`

	// File is the config file that was loaded, empty when none was found.
	File string `yaml:"-" toml:"-"`

	// Env names the deployment, e.g. production or developer.
	Env string `yaml:"env" toml:"env"`

	// AreaCode is the application area scripts run in unless they choose one.
	AreaCode string `yaml:"area_code" toml:"area_code"`

	Log     LogConfig     `yaml:"log" toml:"log"`
	Store   StoreConfig   `yaml:"store" toml:"store"`
	Console ConsoleConfig `yaml:"console" toml:"console"`
}

// LogConfig places the per-script log files.
type LogConfig struct {
	// Dir is relative to Root unless absolute.
	Dir string `yaml:"dir" toml:"dir"`

	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
}

// StoreConfig locates the host database.
type StoreConfig struct {
	// Path is relative to Root unless absolute.
	Path string `yaml:"path" toml:"path"`

	// TimeoutMs bounds the wait for the database file lock.
	TimeoutMs int `yaml:"timeout_ms" toml:"timeout_ms"`
}

// ConsoleConfig controls console output.
type ConsoleConfig struct {
	// Verbosity is one of quiet, normal, verbose, very_verbose, debug.
	Verbosity string `yaml:"verbosity" toml:"verbosity"`

	// Color is one of auto, always, never.
	Color string `yaml:"color" toml:"color"`
}

// Default returns the settings used when nothing overrides them.
func Default(root string) Config {
	return Config{
		Root:     root,
		Env:      "production",
		AreaCode: "global",
		Log:      LogConfig{Dir: "var/log/shell", Level: "debug"},
		Store:    StoreConfig{Path: "var/shell.db", TimeoutMs: 1000},
		Console:  ConsoleConfig{Verbosity: "normal", Color: "auto"},
	}
}

// Load builds the Config for root.
func Load(root string, env map[string]string) (Config, error) {
	if strings.TrimSpace(root) == "" {
		return Config{}, fmt.Errorf("%w: empty root", ErrInvalid)
	}
	cfg := Default(root)

	if err := cfg.loadFile(); err != nil {
		return Config{}, err
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile() error {
	for _, name := range fileNames {
		path := filepath.Join(c.Root, Dir, name)
		raw, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}

		if filepath.Ext(name) == ".toml" {
			err = toml.Unmarshal(raw, c)
		} else {
			err = yaml.Unmarshal(raw, c)
		}
		if err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		c.File = path
		return nil
	}
	return nil
}

func (c *Config) applyEnv(env map[string]string) {
	c.Env = getenv(env, "SHELL_ENV", c.Env)
	c.AreaCode = getenv(env, "SHELL_AREA_CODE", c.AreaCode)
	c.Log.Dir = getenv(env, "SHELL_LOG_DIR", c.Log.Dir)
	c.Log.Level = getenv(env, "SHELL_LOG_LEVEL", c.Log.Level)
	c.Store.Path = getenv(env, "SHELL_STORE_PATH", c.Store.Path)
	c.Store.TimeoutMs = getenvInt(env, "SHELL_STORE_TIMEOUT_MS", c.Store.TimeoutMs)
	c.Console.Verbosity = getenv(env, "SHELL_VERBOSITY", c.Console.Verbosity)
	c.Console.Color = getenv(env, "SHELL_COLOR", c.Console.Color)
}

// Validate checks every enumerated and numeric setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AreaCode) == "" {
		return fmt.Errorf("%w: area_code must not be empty", ErrInvalid)
	}
	if c.Store.TimeoutMs <= 0 {
		return fmt.Errorf("%w: store.timeout_ms must be > 0", ErrInvalid)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("%w: store.path must not be empty", ErrInvalid)
	}
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if !oneOf(c.Console.Verbosity, "quiet", "normal", "verbose", "very_verbose", "debug") {
		return fmt.Errorf("%w: console.verbosity %q", ErrInvalid, c.Console.Verbosity)
	}
	if !oneOf(c.Console.Color, "auto", "always", "never") {
		return fmt.Errorf("%w: console.color %q", ErrInvalid, c.Console.Color)
	}
	return nil
}

// Path resolves p against Root unless it is already absolute.
func (c Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// LogDir is the absolute directory script logs are written to.
func (c Config) LogDir() string { return c.Path(c.Log.Dir) }

// StorePath is the absolute path of the database file.
func (c Config) StorePath() string { return c.Path(c.Store.Path) }

// StoreTimeout is how long opening the database may wait for its file lock.
func (c Config) StoreTimeout() time.Duration {
	return time.Duration(c.Store.TimeoutMs) * time.Millisecond
}

// RootFromEnv returns SHELL_ROOT when set, otherwise fallback.
func RootFromEnv(env map[string]string, fallback string) string {
	return getenv(env, "SHELL_ROOT", fallback)
}

// EnvMap turns os.Environ style pairs into a map. Later duplicates win.
func EnvMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func getenv(env map[string]string, k, def string) string {
	if v := strings.TrimSpace(env[k]); v != "" {
		return v
	}
	return def
}

func getenvInt(env map[string]string, k string, def int) int {
	v := strings.TrimSpace(env[k])
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
