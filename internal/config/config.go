// Package config loads the arnet configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/arnet/config.toml by
// default. Every key is optional; [Default] documents the fallbacks:
//
//	[layout]
//	strategy = "force"
//	seed = 0
//	relayout_on_edge_change = false
//	cache = "file"
//
//	[cache]
//	dir = "~/.cache/arnet"
//	redis_addr = "localhost:6379"
//	prefix = "arnet"
//	ttl = "24h"
//	compress = true
//
//	[dispatch]
//	drain_interval = "100ms"
//
//	[server]
//	addr = ":9464"
//
//	[feed]
//	locations = ["Default"]
//	strict = false
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/arnet/pkg/errors"
)

const appName = "arnet"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full configuration.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Cache    Cache    `toml:"cache"`
	Dispatch Dispatch `toml:"dispatch"`
	Server   Server   `toml:"server"`
	Feed     Feed     `toml:"feed"`
}

// Layout selects and parameterizes the layout strategy.
type Layout struct {
	Strategy             string `toml:"strategy" validate:"oneof=force spring diagonal"`
	Seed                 uint64 `toml:"seed"`
	RelayoutOnEdgeChange bool   `toml:"relayout_on_edge_change"`
	Cache                string `toml:"cache" validate:"oneof=none file redis"`
}

// Cache configures the layout cache backends.
type Cache struct {
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr" validate:"omitempty,hostname_port"`
	Prefix    string        `toml:"prefix" validate:"max=64"`
	TTL       time.Duration `toml:"ttl" validate:"min=0"`
	Compress  bool          `toml:"compress"`
}

// Dispatch configures change delivery.
type Dispatch struct {
	DrainInterval time.Duration `toml:"drain_interval" validate:"min=1ms"`
}

// Server configures the HTTP endpoint.
type Server struct {
	Addr string `toml:"addr" validate:"hostname_port"`
}

// Feed configures feed ingestion.
type Feed struct {
	Locations []string      `toml:"locations" validate:"dive,required"`
	Strict    bool          `toml:"strict"`
	Interval  time.Duration `toml:"interval" validate:"min=0"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout: Layout{
			Strategy: "force",
			Cache:    CacheFile,
		},
		Cache: Cache{
			Dir:       DefaultCacheDir(),
			RedisAddr: "localhost:6379",
			Prefix:    appName,
			TTL:       24 * time.Hour,
			Compress:  true,
		},
		Dispatch: Dispatch{DrainInterval: 100 * time.Millisecond},
		Server:   Server{Addr: ":9464"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/arnet/config.toml, falling back to
// the platform config directory.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/arnet, falling back to
// ~/.cache/arnet.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath], which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field rule.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, formatValidationError(err), "invalid config")
	}
	switch c.Layout.Cache {
	case CacheFile:
		if err := errors.ValidatePath(c.Cache.Dir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.dir")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr: required for the redis cache")
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// formatValidationError reports the first failed rule by its TOML key.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	key := tomlKey(e.Namespace())
	switch e.Tag() {
	case "oneof":
		return fmt.Errorf("%s: must be one of %s, got %q", key, strings.ReplaceAll(e.Param(), " ", ", "), e.Value())
	case "required":
		return fmt.Errorf("%s: field is required", key)
	case "min":
		return fmt.Errorf("%s: must be at least %s", key, e.Param())
	case "max":
		return fmt.Errorf("%s: must not exceed %s", key, e.Param())
	case "hostname_port":
		return fmt.Errorf("%s: must be host:port, got %q", key, e.Value())
	}
	return fmt.Errorf("%s: failed %s validation", key, e.Tag())
}

// tomlKey turns a validator namespace such as Config.Dispatch.DrainInterval
// into the TOML key dispatch.drain_interval.
func tomlKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
