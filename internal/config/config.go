package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	kiterrors "github.com/vango-dev/groupkit/internal/errors"
	"github.com/vango-dev/groupkit/pkg/group"
	"github.com/vango-dev/groupkit/pkg/persist"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "groupkit.toml"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "GROUPKIT"

	// DefaultAddr is the default server listen address.
	DefaultAddr = ":8080"
)

// Config represents the complete groupkit.toml configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" toml:"server"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" toml:"tracing"`
	Store   StoreConfig   `mapstructure:"store" toml:"store"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
	Groups  []GroupConfig `mapstructure:"groups" toml:"groups"`

	// configPath is the file the config was loaded from.
	configPath string
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" toml:"addr"`

	// Advertise announces the server over mDNS.
	Advertise bool `mapstructure:"advertise" toml:"advertise"`

	// ReadTimeout is a Go duration string.
	ReadTimeout string `mapstructure:"read_timeout" toml:"read_timeout"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" toml:"enabled"`
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled" toml:"enabled"`
	TracerName string `mapstructure:"tracer_name" toml:"tracer_name"`
}

// StoreConfig selects the snapshot store.
type StoreConfig struct {
	// Driver is memory, sqlite, postgres or s3.
	Driver   string `mapstructure:"driver" toml:"driver"`
	Path     string `mapstructure:"path" toml:"path,omitempty"`
	DSN      string `mapstructure:"dsn" toml:"dsn,omitempty"`
	Bucket   string `mapstructure:"bucket" toml:"bucket,omitempty"`
	Prefix   string `mapstructure:"prefix" toml:"prefix,omitempty"`
	Region   string `mapstructure:"region" toml:"region,omitempty"`
	Endpoint string `mapstructure:"endpoint" toml:"endpoint,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" toml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" toml:"format"`
}

// GroupConfig declares one group served by the host.
type GroupConfig struct {
	Name      string   `mapstructure:"name" toml:"name"`
	Multiple  bool     `mapstructure:"multiple" toml:"multiple"`
	Mandatory bool     `mapstructure:"mandatory" toml:"mandatory"`
	Max       *int     `mapstructure:"max" toml:"max,omitempty"`
	Items     []string `mapstructure:"items" toml:"items"`
	Model     []string `mapstructure:"model" toml:"model,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			ReadTimeout: "10s",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "groupkit",
		},
		Tracing: TracingConfig{
			TracerName: "groupkit",
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   "groupkit.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Groups: []GroupConfig{
			{
				Name:      "tabs",
				Mandatory: true,
				Items:     []string{"home", "search", "settings"},
			},
		},
	}
}

// Load reads configuration from path. With an empty path it uses
// GROUPKIT_CONFIG, then groupkit.toml in the working directory or
// ~/.config/groupkit, and falls back to defaults when no file exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, New())

	v.SetConfigType("toml")

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "groupkit"))
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".toml"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, kiterrors.New("G011").
				WithDetail(err.Error()).
				WithSuggestion("Run 'groupctl init' to write a starter " + ConfigFileName)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, kiterrors.New("G011").Wrap(err)
	}
	if !v.IsSet("groups") {
		cfg.Groups = New().Groups
	}
	cfg.configPath = v.ConfigFileUsed()
	return cfg, nil
}

// setDefaults registers every scalar key so env overrides apply to it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.advertise", d.Server.Advertise)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.tracer_name", d.Tracing.TracerName)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("store.bucket", d.Store.Bucket)
	v.SetDefault("store.prefix", d.Store.Prefix)
	v.SetDefault("store.region", d.Store.Region)
	v.SetDefault("store.endpoint", d.Store.Endpoint)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// SaveTo writes the configuration as TOML to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return kiterrors.New("G011").Wrap(err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return kiterrors.New("G011").Wrap(err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return kiterrors.New("G011").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks the configuration and reports every problem in one G010 error.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Server.Addr == "" {
		add("server.addr is empty")
	}
	if c.Server.ReadTimeout != "" {
		if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
			add("server.read_timeout %q is not a duration", c.Server.ReadTimeout)
		}
	}

	switch c.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.DSN == "" {
			add("store.dsn is required for the postgres driver")
		}
	case "s3":
		if c.Store.Bucket == "" {
			add("store.bucket is required for the s3 driver")
		}
	default:
		add("unknown store driver %q", c.Store.Driver)
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		add("%v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		add("log.format %q must be text or json", c.Log.Format)
	}

	seen := make(map[string]bool)
	for i, g := range c.Groups {
		if g.Name == "" {
			add("groups[%d] has no name", i)
			continue
		}
		if seen[g.Name] {
			add("duplicate group name %q", g.Name)
		}
		seen[g.Name] = true

		if g.Max != nil && *g.Max < 0 {
			add("group %q: max must not be negative", g.Name)
		}
		if !g.Multiple && len(g.Model) > 1 {
			add("group %q: a single-select group takes at most one model value", g.Name)
		}
		values := make(map[string]bool)
		for _, item := range g.Items {
			if values[item] {
				add("group %q: duplicate item %q", g.Name, item)
			}
			values[item] = true
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return kiterrors.New("G010").WithDetail(strings.Join(problems, "; "))
}

// ReadTimeoutDuration returns the parsed read timeout, or zero.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(s.ReadTimeout)
	return d
}

// Group returns the group named name.
func (c *Config) Group(name string) (GroupConfig, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupConfig{}, false
}

// Rules converts the declaration to group rules.
func (g GroupConfig) Rules() group.Config {
	return group.Config{
		Multiple:  g.Multiple,
		Mandatory: g.Mandatory,
		Max:       limit(g.Max),
	}
}

func limit(n *int) *int {
	if n == nil {
		return nil
	}
	return group.Limit(*n)
}

// ModelValues returns the initial model as group values.
func (g GroupConfig) ModelValues() []any {
	values := make([]any, len(g.Model))
	for i, v := range g.Model {
		values[i] = v
	}
	return values
}

// StoreOptions converts the store section for persist.Open.
func (c *Config) StoreOptions() persist.Options {
	return persist.Options{
		Driver:   c.Store.Driver,
		Path:     c.Store.Path,
		DSN:      c.Store.DSN,
		Bucket:   c.Store.Bucket,
		Prefix:   c.Store.Prefix,
		Region:   c.Store.Region,
		Endpoint: c.Store.Endpoint,
	}
}

// NewLogger builds a slog logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if l.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", s)
	}
	return level, nil
}
