package player

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"github.com/terrycain/station-tv-server/pkg/coordinator"
)

// Config is the kiosk configuration, read from YAML with STATIONTV_ environment overrides,
// e.g. STATIONTV_CACHE_BACKEND=memory.
type Config struct {
	Origin               string        `mapstructure:"origin"`
	TVID                 int64         `mapstructure:"tv_id"`
	Listen               string        `mapstructure:"listen"`
	MetricsListen        string        `mapstructure:"metrics_listen"`
	Precache             string        `mapstructure:"precache"`
	TransitionFallbackMs int           `mapstructure:"transition_fallback_ms"`
	Cache                CacheConfig   `mapstructure:"cache"`
	Player               PlayerConfig  `mapstructure:"player"`
	Logging              LoggingConfig `mapstructure:"logging"`
}

type CacheConfig struct {
	Backend  string `mapstructure:"backend"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
	Version  string `mapstructure:"version"`
}

type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Socket  string   `mapstructure:"socket"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

var defaults = map[string]interface{}{
	"origin":                 "http://localhost:8080",
	"tv_id":                  0,
	"listen":                 "127.0.0.1:8090",
	"metrics_listen":         "",
	"precache":               string(coordinator.PrecacheImages),
	"transition_fallback_ms": 5000,
	"cache.backend":          "bolt",
	"cache.path":             "/var/lib/station-tv/cache.db",
	"cache.redis_url":        "",
	"cache.version":          "v1",
	"player.command":         "mpv",
	"player.args":            []string{"--fullscreen", "--no-osc", "--no-input-default-bindings"},
	"player.socket":          "/tmp/station-tv-mpv.sock",
	"logging.level":          "info",
	"logging.console":        false,
}

// LoadConfig reads path when given, otherwise player.yaml from /etc/station-tv or the working
// directory. A missing default file is fine, defaults and the environment still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("player")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/station-tv")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STATIONTV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TVID < 1 {
		return errors.New("tv_id must be set to a positive integer")
	}
	u, err := url.Parse(c.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("origin %q is not an absolute url", c.Origin)
	}
	if _, err = coordinator.ParsePrecachePolicy(c.Precache); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "memory":
	case "bolt":
		if c.Cache.Path == "" {
			return errors.New("cache.path is required for the bolt cache")
		}
	case "redis":
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

func (c *Config) OriginURL() *url.URL {
	u, _ := url.Parse(c.Origin)
	return u
}
