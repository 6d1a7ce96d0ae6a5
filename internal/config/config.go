// Package config loads roll's optional project configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/roll/internal/foundation"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

// DefaultPath is looked up in the current directory, which is the root of the
// consuming repository.
const DefaultPath = ".roll.yaml"

// FetcherKind selects the Source Fetcher implementation.
type FetcherKind string

const (
	FetcherGoGit FetcherKind = "go-git"
	FetcherExec  FetcherKind = "exec"
)

var fetcherNormalizer = foundation.NewNormalizer(map[string]FetcherKind{
	"go-git": FetcherGoGit,
	"gogit":  FetcherGoGit,
	"exec":   FetcherExec,
	"git":    FetcherExec,
}, FetcherGoGit)

// Config represents the project configuration. Every field has a default, so
// running without a file is the common case.
type Config struct {
	VendorRoot      string            `yaml:"vendor_root"`
	NestedVendorDir string            `yaml:"nested_vendor_dir"`
	ManifestName    string            `yaml:"manifest_name"`
	Fetcher         FetcherKind       `yaml:"fetcher"`
	GitBinary       string            `yaml:"git_binary"`
	FetchTimeout    time.Duration     `yaml:"fetch_timeout,omitempty"`
	LogFormat       LogFormat         `yaml:"log_format"`
	Env             map[string]string `yaml:"env,omitempty"`
	Auth            *AuthConfig       `yaml:"auth,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.VendorRoot == "" {
		cfg.VendorRoot = "vendor"
	}
	if cfg.NestedVendorDir == "" {
		cfg.NestedVendorDir = "vendor"
	}
	if cfg.ManifestName == "" {
		cfg.ManifestName = ".version"
	}
	if cfg.GitBinary == "" {
		cfg.GitBinary = "git"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}
}

// Load reads configPath if it exists. A missing file yields the defaults.
// Variables from .env and .env.local next to the file are made available
// for ${VAR} expansion and merged into Env (explicit Env entries win); the
// process environment itself is left untouched.
func Load(configPath string) (*Config, error) {
	dotenv, err := loadEnvFiles(envFileDir(configPath))
	if err != nil {
		return nil, rollerrors.ConfigError("failed to load env file").WithCause(err).Build()
	}

	cfg := &Config{}
	data, err := os.ReadFile(configPath) // #nosec G304 -- operator supplied config path
	switch {
	case err == nil:
		expanded := os.Expand(string(data), lookupWith(dotenv))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, rollerrors.ConfigError("failed to unmarshal config").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
	case os.IsNotExist(err):
	default:
		return nil, rollerrors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	applyDefaults(cfg)
	for k, v := range dotenv {
		if _, set := cfg.Env[k]; !set {
			cfg.Env[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func lookupWith(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
}

// Validate normalizes enum fields and rejects values that cannot work.
func (c *Config) Validate() error {
	kind, err := fetcherNormalizer.NormalizeWithError(string(c.Fetcher))
	if err != nil {
		return rollerrors.ConfigError("invalid fetcher").WithCause(err).Build()
	}
	c.Fetcher = kind
	c.LogFormat = NormalizeLogFormat(string(c.LogFormat))

	if c.FetchTimeout < 0 {
		return rollerrors.ConfigError(fmt.Sprintf("fetch_timeout must not be negative, got %s", c.FetchTimeout)).Build()
	}
	if c.NestedVendorDir == ".git" || c.ManifestName == ".git" {
		return rollerrors.ConfigError("nested_vendor_dir and manifest_name must not be .git").Build()
	}
	if c.Auth != nil {
		switch c.Auth.Type {
		case "", AuthTypeNone, AuthTypeSSH:
		case AuthTypeToken:
			if c.Auth.Token == "" {
				return rollerrors.ConfigError("token authentication requires a token").Build()
			}
		case AuthTypeBasic:
			if c.Auth.Username == "" {
				return rollerrors.ConfigError("basic authentication requires a username").Build()
			}
		default:
			return rollerrors.ConfigError(fmt.Sprintf("unsupported auth type %q", c.Auth.Type)).Build()
		}
	}
	return nil
}

// ParseFetcher converts a CLI flag value into a FetcherKind.
func ParseFetcher(raw string) (FetcherKind, error) {
	return fetcherNormalizer.NormalizeWithError(raw)
}
