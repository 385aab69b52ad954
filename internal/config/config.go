// Package config loads the perfdata configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Site      SiteConfig      `json:"site" yaml:"site"`
	Database  DatabaseConfig  `json:"database" yaml:"database"`
	Snapshot  string          `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Worker    WorkerConfig    `json:"worker" yaml:"worker"`
	Users     UsersConfig     `json:"users" yaml:"users"`
	Artifacts ArtifactsConfig `json:"artifacts" yaml:"artifacts"`
	Log       LogConfig       `json:"log" yaml:"log"`
	// Template overrides the embedded test plan template.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
}

// SiteConfig describes the site under test.
type SiteConfig struct {
	WWWRoot   string `json:"wwwroot" yaml:"wwwroot"`
	Version   string `json:"version" yaml:"version"`
	DirRoot   string `json:"dirroot,omitempty" yaml:"dirroot,omitempty"`
	DataRoot  string `json:"dataroot,omitempty" yaml:"dataroot,omitempty"`
	PluginDir string `json:"pluginDir,omitempty" yaml:"pluginDir,omitempty"`
}

// DatabaseConfig selects the LMS database.
type DatabaseConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// WorkerConfig names the course generator program.
type WorkerConfig struct {
	Binary string `json:"binary" yaml:"binary"`
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
}

// UsersConfig controls the generated users file.
type UsersConfig struct {
	Password        string `json:"password" yaml:"password"`
	UpdatePasswords bool   `json:"updatePasswords,omitempty" yaml:"updatePasswords,omitempty"`
}

// Artifact backends.
const (
	BackendFile  = "file"
	BackendS3    = "s3"
	BackendRedis = "redis"
)

// ArtifactsConfig selects where generated files are stored.
type ArtifactsConfig struct {
	Backend string      `json:"backend" yaml:"backend"`
	Dir     string      `json:"dir,omitempty" yaml:"dir,omitempty"`
	S3      S3Config    `json:"s3,omitempty" yaml:"s3,omitempty"`
	Redis   RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

type S3Config struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"accessKey" yaml:"accessKey"`
	SecretKey string `json:"secretKey" yaml:"secretKey"`
	Bucket    string `json:"bucket" yaml:"bucket"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	UseSSL    bool   `json:"useSSL,omitempty" yaml:"useSSL,omitempty"`
}

// RedisConfig locates the redis artifact store. TTL is a pointer so an
// explicit 0 (keep forever) can be told apart from an unset value.
type RedisConfig struct {
	Addr      string    `json:"addr" yaml:"addr"`
	KeyPrefix string    `json:"keyPrefix,omitempty" yaml:"keyPrefix,omitempty"`
	TTL       *Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// Expiry returns the artifact TTL, or 0 when artifacts never expire.
func (r RedisConfig) Expiry() time.Duration {
	if r.TTL == nil {
		return 0
	}
	return r.TTL.Std()
}

// LogConfig controls logging. Format is "auto", "console" or "json".
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration data. The format is chosen by the extension of
// path; anything other than .json is read as YAML.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Prefix == "" {
		cfg.Database.Prefix = "mdl_"
	}

	if cfg.Site.PluginDir == "" && cfg.Site.DirRoot != "" {
		cfg.Site.PluginDir = filepath.Join(cfg.Site.DirRoot, "local", "performancetool")
	}

	if cfg.Worker.Binary == "" {
		cfg.Worker.Binary = "php"
	}
	if cfg.Worker.Script == "" && cfg.Site.DirRoot != "" {
		cfg.Worker.Script = filepath.Join(cfg.Site.DirRoot, "admin", "tool", "generator", "cli", "maketestcourse.php")
	}

	if cfg.Users.Password == "" {
		cfg.Users.Password = "moodle"
	}

	if cfg.Artifacts.Backend == "" {
		cfg.Artifacts.Backend = BackendFile
	}
	if cfg.Artifacts.Redis.KeyPrefix == "" {
		cfg.Artifacts.Redis.KeyPrefix = "perfdata:"
	}
	if cfg.Artifacts.Redis.TTL == nil {
		ttl := Duration(7 * 24 * time.Hour)
		cfg.Artifacts.Redis.TTL = &ttl
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "auto"
	}
}
