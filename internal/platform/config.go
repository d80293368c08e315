package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace configuration path relative to its root.
var ConfigFile = filepath.Join(SystemDir, "config.yaml")

// FileConfig mirrors .notekeep/config.yaml. Unset fields keep the defaults.
type FileConfig struct {
	Adapter    string      `yaml:"adapter,omitempty"`
	Path       string      `yaml:"path,omitempty"`
	DSN        string      `yaml:"dsn,omitempty"`
	Table      string      `yaml:"table,omitempty"`
	Versioning *bool       `yaml:"versioning,omitempty"`
	ReadOnly   *bool       `yaml:"read_only,omitempty"`
	Redis      RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig is the redis section of FileConfig.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// LoadConfig reads the configuration of the workspace at root.
// A missing file yields an empty configuration.
func LoadConfig(root string) (FileConfig, error) {
	var cfg FileConfig

	path := filepath.Join(root, ConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Path != "" && !filepath.IsAbs(cfg.Path) {
		cfg.Path = filepath.Join(root, cfg.Path)
	}
	return cfg, nil
}

// Save writes the configuration under root.
func (c FileConfig) Save(root string) error {
	buf, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(root, ConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, buf, 0644)
}

// URI returns the adapter-specific location: the directory for fs, the DSN
// for SQL adapters and the address for redis.
func (c FileConfig) URI() string {
	switch c.Adapter {
	case "sqlite", "postgres":
		return c.DSN
	case "redis":
		return c.Redis.Addr
	default:
		return c.Path
	}
}

// Options translates the file into functional options.
func (c FileConfig) Options() []Option {
	var opts []Option
	if c.Adapter != "" {
		opts = append(opts, WithAdapter(c.Adapter))
	}
	if c.Table != "" {
		opts = append(opts, WithTable(c.Table))
	}
	if c.Versioning != nil {
		opts = append(opts, WithVersioning(*c.Versioning))
	}
	if c.ReadOnly != nil {
		opts = append(opts, WithReadOnly(*c.ReadOnly))
	}
	if c.Redis.Prefix != "" {
		opts = append(opts, WithRedisPrefix(c.Redis.Prefix))
	}
	if c.Redis.Password != "" || c.Redis.DB != 0 {
		opts = append(opts, WithRedisAuth(c.Redis.Password, c.Redis.DB))
	}
	return opts
}
