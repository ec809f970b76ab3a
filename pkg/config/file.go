package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dagviewer/pkg/errors"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// File is the on-disk configuration. Every section is optional.
type File struct {
	Layout Options      `toml:"layout" yaml:"layout"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Store  StoreConfig  `toml:"store" yaml:"store"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr      string  `toml:"addr" yaml:"addr"`
	RateLimit float64 `toml:"rate_limit" yaml:"rate_limit"` // requests per second
	Burst     int     `toml:"burst" yaml:"burst"`
}

// CacheConfig selects the render cache.
type CacheConfig struct {
	Backend  string   `toml:"backend" yaml:"backend"`
	Dir      string   `toml:"dir" yaml:"dir"`
	RedisURL string   `toml:"redis_url" yaml:"redis_url"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`
}

// StoreConfig selects where viewer state lives.
type StoreConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Path     string `toml:"path" yaml:"path"`
	MongoURI string `toml:"mongo_uri" yaml:"mongo_uri"`
	Database string `toml:"database" yaml:"database"`
}

// Duration is a time.Duration that decodes from strings such as "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler (used by toml).
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// DefaultFile returns the configuration used when no file is given.
func DefaultFile() File {
	return File{
		Layout: Defaults(),
		Server: ServerConfig{Addr: ":8080", RateLimit: 20, Burst: 40},
		Cache:  CacheConfig{Backend: CacheFile, TTL: Duration{24 * time.Hour}},
		Store:  StoreConfig{Backend: StoreMemory, Database: "dagviewer"},
	}
}

// Load reads a TOML or YAML file (by extension) on top of [DefaultFile].
// An empty path returns the defaults.
func Load(path string) (File, error) {
	f := DefaultFile()
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return f, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return f, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
		}
	default:
		return f, errors.New(errors.ErrCodeUnsupported, "unsupported config format: %s", path)
	}

	if err := f.Layout.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// ApplyEnv overlays DAGVIEWER_* environment variables onto f.
func (f *File) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set("DAGVIEWER_ADDR", &f.Server.Addr)
	set("DAGVIEWER_CACHE", &f.Cache.Backend)
	set("DAGVIEWER_CACHE_DIR", &f.Cache.Dir)
	set("DAGVIEWER_REDIS_URL", &f.Cache.RedisURL)
	set("DAGVIEWER_STORE", &f.Store.Backend)
	set("DAGVIEWER_STORE_PATH", &f.Store.Path)
	set("DAGVIEWER_MONGO_URI", &f.Store.MongoURI)
	set("DAGVIEWER_MONGO_DB", &f.Store.Database)
	set("DAGVIEWER_RANKDIR", &f.Layout.RankDir)

	if v := getenv("DAGVIEWER_RATE_LIMIT"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			f.Server.RateLimit = r
		}
	}
}
