package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "config.yaml"

// EnvPrefix prefixes every environment override, e.g. CODECOMPANION_SERVER_PORT.
const EnvPrefix = "CODECOMPANION"

// DefaultAllowedOrigins are the local development origins of the web and Expo clients.
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"http://localhost:8081",
	"http://127.0.0.1:8081",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// ServerConfig defines the server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MarshalYAML renders durations as strings so the output can be fed back as a config file.
func (s ServerConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
		MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	}{
		Host:            s.Host,
		Port:            s.Port,
		ReadTimeout:     s.ReadTimeout.String(),
		WriteTimeout:    s.WriteTimeout.String(),
		ShutdownTimeout: s.ShutdownTimeout.String(),
		MaxBodyBytes:    s.MaxBodyBytes,
	}, nil
}

// CORSConfig defines the cross-origin policy.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
}

// AnalysisConfig defines the analysis parameters.
type AnalysisConfig struct {
	// Strict rejects snippets that are empty after trimming whitespace.
	Strict         bool `mapstructure:"strict" yaml:"strict"`
	CapitalizeMode bool `mapstructure:"capitalize_mode" yaml:"capitalize_mode"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Config is the top-level configuration struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	CORS     CORSConfig     `mapstructure:"cors" yaml:"cors"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", int64(1<<20))

	v.SetDefault("cors.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("cors.allow_credentials", true)

	v.SetDefault("analysis.strict", true)
	v.SetDefault("analysis.capitalize_mode", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}

// Load reads the configuration from path, layering environment overrides on top.
// An empty path falls back to DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("could not read config file at %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file or environment override is present.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: built-in defaults do not decode: %v", err))
	}
	return cfg
}

// Validate checks the values that would otherwise fail late or silently.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}

	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			if c.CORS.AllowCredentials {
				errs = append(errs, errors.New("cors.allowed_origins: \"*\" cannot be combined with allow_credentials"))
			}
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("cors.allowed_origins: %q is not an absolute http(s) origin", origin))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
