// Package config loads and validates tessera.yml.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/tessera/internal/storage"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
	"github.com/dyluth/tessera/pkg/registry"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "tessera.yml"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

const (
	defaultDashboard    = "default"
	defaultDebounce     = 750 * time.Millisecond
	defaultMaxBackups   = 3
	defaultWriteTimeout = 2 * time.Second
	defaultRedisAddr    = "localhost:6379"
	defaultSQLitePath   = ".tessera/dashboards.db"
)

// Config represents the top-level tessera.yml configuration
type Config struct {
	Version        string              `yaml:"version"`
	Dashboard      string              `yaml:"dashboard,omitempty"` // Default dashboard id for CLI commands
	Grid           *layout.Grid        `yaml:"grid,omitempty"`
	Breakpoints    []layout.Breakpoint `yaml:"breakpoints,omitempty"`
	Persistence    *PersistenceConfig  `yaml:"persistence,omitempty"`
	Storage        StorageConfig       `yaml:"storage"`
	DefaultWidgets []string            `yaml:"default_widgets,omitempty"` // Widget types of a fresh dashboard

	// dir is the directory of the loaded file; relative paths resolve against it.
	dir string
}

// PersistenceConfig tunes the save policy.
type PersistenceConfig struct {
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	MaxBackups   *int          `yaml:"max_backups,omitempty"` // 0 disables backups, default = 3
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend string        `yaml:"backend"` // "memory", "redis" or "sqlite"
	Redis   *RedisConfig  `yaml:"redis,omitempty"`
	SQLite  *SQLiteConfig `yaml:"sqlite,omitempty"`
	Memory  *MemoryConfig `yaml:"memory,omitempty"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path     string `yaml:"path"`
	MaxPages int    `yaml:"max_pages,omitempty"` // 0 = unlimited
}

// MemoryConfig configures the in-process backend.
type MemoryConfig struct {
	QuotaBytes int `yaml:"quota_bytes,omitempty"`
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	c := &Config{Version: "1.0", Storage: StorageConfig{Backend: BackendSQLite}}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config: default configuration is invalid: %v", err))
	}
	return c
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted sections.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Dashboard == "" {
		c.Dashboard = defaultDashboard
	}
	if err := dashboard.ValidateID(c.Dashboard); err != nil {
		return err
	}

	if len(c.Breakpoints) == 0 {
		c.Breakpoints = layout.DefaultBreakpoints()
	}
	if err := layout.ValidateBreakpoints(c.Breakpoints); err != nil {
		return err
	}
	c.Breakpoints = layout.SortBreakpoints(c.Breakpoints)

	if err := c.validateGrid(); err != nil {
		return err
	}

	if err := c.validatePersistence(); err != nil {
		return err
	}

	if err := c.Storage.validate(); err != nil {
		return err
	}

	catalog := registry.NewFleet()
	for _, widgetType := range c.DefaultWidgets {
		if _, ok := catalog.Lookup(widgetType); !ok {
			return fmt.Errorf("default_widgets: unknown widget type '%s'", widgetType)
		}
	}

	return nil
}

func (c *Config) validateGrid() error {
	canonical, _ := layout.Canonical(c.Breakpoints)

	if c.Grid == nil {
		c.Grid = &layout.Grid{}
	}
	defaults := layout.DefaultGrid()
	if c.Grid.Columns == 0 {
		c.Grid.Columns = canonical.Columns
	}
	if c.Grid.RowHeightPx == 0 {
		c.Grid.RowHeightPx = defaults.RowHeightPx
	}
	if c.Grid.MarginPx == 0 {
		c.Grid.MarginPx = defaults.MarginPx
	}
	if c.Grid.MaxWidgetHeight == 0 {
		c.Grid.MaxWidgetHeight = defaults.MaxWidgetHeight
	}
	if c.Grid.MinWidgetSize == 0 {
		c.Grid.MinWidgetSize = defaults.MinWidgetSize
	}

	if c.Grid.Columns != canonical.Columns {
		return fmt.Errorf("grid.columns (%d) must match the widest breakpoint '%s' (%d columns)",
			c.Grid.Columns, canonical.Name, canonical.Columns)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	return nil
}

func (c *Config) validatePersistence() error {
	if c.Persistence == nil {
		c.Persistence = &PersistenceConfig{}
	}
	p := c.Persistence

	if p.Debounce == 0 {
		p.Debounce = defaultDebounce
	}
	if p.WriteTimeout == 0 {
		p.WriteTimeout = defaultWriteTimeout
	}
	if p.MaxBackups == nil {
		n := defaultMaxBackups
		p.MaxBackups = &n
	}

	if p.Debounce < 0 {
		return fmt.Errorf("persistence.debounce must be > 0, got %s", p.Debounce)
	}
	if p.WriteTimeout < 0 {
		return fmt.Errorf("persistence.write_timeout must be > 0, got %s", p.WriteTimeout)
	}
	if *p.MaxBackups < 0 {
		return fmt.Errorf("persistence.max_backups must be >= 0 (0 = disabled), got %d", *p.MaxBackups)
	}
	return nil
}

func (s *StorageConfig) validate() error {
	if s.Backend == "" {
		s.Backend = BackendSQLite
	}

	switch s.Backend {
	case BackendMemory:
		if s.Memory == nil {
			s.Memory = &MemoryConfig{}
		}
		if s.Memory.QuotaBytes == 0 {
			s.Memory.QuotaBytes = storage.DefaultMemoryQuota
		}
		if s.Memory.QuotaBytes < 0 {
			return fmt.Errorf("storage.memory.quota_bytes must be > 0, got %d", s.Memory.QuotaBytes)
		}
	case BackendRedis:
		if s.Redis == nil {
			s.Redis = &RedisConfig{}
		}
		if s.Redis.Addr == "" {
			s.Redis.Addr = defaultRedisAddr
		}
		if s.Redis.DB < 0 {
			return fmt.Errorf("storage.redis.db must be >= 0, got %d", s.Redis.DB)
		}
	case BackendSQLite:
		if s.SQLite == nil {
			s.SQLite = &SQLiteConfig{}
		}
		if s.SQLite.Path == "" {
			s.SQLite.Path = defaultSQLitePath
		}
		if s.SQLite.MaxPages < 0 {
			return fmt.Errorf("storage.sqlite.max_pages must be >= 0 (0 = unlimited), got %d", s.SQLite.MaxPages)
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'memory', 'redis', or 'sqlite')", s.Backend)
	}
	return nil
}

// SQLitePath returns the database path, resolved against the directory of
// the loaded configuration file when relative.
func (c *Config) SQLitePath() string {
	if c.Storage.SQLite == nil {
		return ""
	}
	p := c.Storage.SQLite.Path
	if p == ":memory:" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// OpenStorage opens the configured backend. Redis connectivity is verified
// with a ping.
func (c *Config) OpenStorage(ctx context.Context) (storage.KV, error) {
	switch c.Storage.Backend {
	case BackendMemory:
		return storage.NewMemoryKV(c.Storage.Memory.QuotaBytes), nil

	case BackendRedis:
		kv, err := storage.NewRedisKV(&redis.Options{
			Addr:     c.Storage.Redis.Addr,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		if err := kv.Ping(ctx); err != nil {
			kv.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", c.Storage.Redis.Addr, err)
		}
		return kv, nil

	case BackendSQLite:
		path := c.SQLitePath()
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
		return storage.NewSQLiteKV(path, c.Storage.SQLite.MaxPages)

	default:
		return nil, fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}
}

// Load reads and validates a tessera.yml file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		config.dir = abs
	}

	return &config, nil
}
