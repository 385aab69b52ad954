package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError is a single invalid field.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = "  - " + e.Error()
	}
	return fmt.Sprintf("%d validation errors:\n%s", len(ve), strings.Join(msgs, "\n"))
}

func (ve *ValidationErrors) add(path, format string, args ...interface{}) {
	*ve = append(*ve, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg after defaults have been applied. It returns
// ValidationErrors when anything is wrong.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Site.WWWRoot == "" {
		errs.add("site.wwwroot", "wwwroot is required")
	} else if u, err := url.Parse(cfg.Site.WWWRoot); err != nil || u.Host == "" {
		errs.add("site.wwwroot", "invalid URL: %s", cfg.Site.WWWRoot)
	}
	if cfg.Site.Version == "" {
		errs.add("site.version", "version is required")
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs.add("database.driver", "unsupported driver: %s", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" && cfg.Snapshot == "" {
		errs.add("database.dsn", "dsn is required when no snapshot is configured")
	}

	if cfg.Worker.Binary == "" {
		errs.add("worker.binary", "binary is required")
	}

	switch cfg.Artifacts.Backend {
	case BackendFile:
	case BackendS3:
		if cfg.Artifacts.S3.Endpoint == "" {
			errs.add("artifacts.s3.endpoint", "endpoint is required for the s3 backend")
		}
		if cfg.Artifacts.S3.Bucket == "" {
			errs.add("artifacts.s3.bucket", "bucket is required for the s3 backend")
		}
	case BackendRedis:
		if cfg.Artifacts.Redis.Addr == "" {
			errs.add("artifacts.redis.addr", "addr is required for the redis backend")
		}
		if cfg.Artifacts.Redis.Expiry() < 0 {
			errs.add("artifacts.redis.ttl", "ttl cannot be negative")
		}
	default:
		errs.add("artifacts.backend", "unknown backend: %s (expected file, s3 or redis)", cfg.Artifacts.Backend)
	}

	switch cfg.Log.Format {
	case "auto", "console", "json":
	default:
		errs.add("log.format", "unknown format: %s", cfg.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
