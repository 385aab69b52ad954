package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfdata/internal/artifact"
	"github.com/wesleyorama2/perfdata/internal/config"
	"github.com/wesleyorama2/perfdata/internal/db"
	"github.com/wesleyorama2/perfdata/internal/generator"
	"github.com/wesleyorama2/perfdata/internal/lms"
	"github.com/wesleyorama2/perfdata/internal/logging"
	"github.com/wesleyorama2/perfdata/internal/output"
	"github.com/wesleyorama2/perfdata/internal/plandir"
	"github.com/wesleyorama2/perfdata/internal/render"
	"github.com/wesleyorama2/perfdata/internal/sizes"
)

// app holds everything a command needs, built from the configuration file.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	printer *output.Printer
	table   *sizes.Table
	labels  sizes.Labels

	courses    lms.Courses
	enrolments lms.Enrolments
	info       lms.CourseInfo
	// sql is nil when course data comes from a snapshot.
	sql *lms.SQLStore

	closers []func() error
}

func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	levelOverride, _ := cmd.Flags().GetString("log-level")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	level := cfg.Log.Level
	if levelOverride != "" {
		level = levelOverride
	}
	logger, err := logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		printer: output.NewPrinter(cmd.OutOrStdout(), noColor),
		table:   sizes.DefaultTable(),
		labels:  sizes.EnglishLabels{},
	}

	if cfg.Snapshot != "" {
		snap, err := lms.LoadSnapshot(cfg.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("error loading snapshot: %w", err)
		}
		a.courses, a.enrolments, a.info = snap, snap, snap
		logger.Debug().Str("snapshot", cfg.Snapshot).Msg("using course snapshot")
		return a, nil
	}

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn.Close)
	a.sql = lms.NewSQLStore(conn, cfg.Database.Driver, cfg.Database.Prefix)
	a.courses, a.enrolments, a.info = a.sql, a.sql, a.sql
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
}

// store builds the configured artifact backend. For the file backend the
// directory is resolved from planfilesPath, then artifacts.dir, then the
// site fallbacks.
func (a *app) store(ctx context.Context, planfilesPath string) (artifact.Store, error) {
	switch a.cfg.Artifacts.Backend {
	case config.BackendS3:
		s3 := a.cfg.Artifacts.S3
		return artifact.NewS3Store(artifact.S3Config{
			Endpoint:  s3.Endpoint,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			Prefix:    s3.Prefix,
			UseSSL:    s3.UseSSL,
		})
	case config.BackendRedis:
		rc := a.cfg.Artifacts.Redis
		client := redis.NewClient(&redis.Options{Addr: rc.Addr})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
		}
		return artifact.NewRedisStore(client, rc.KeyPrefix, rc.Expiry()), nil
	default:
		preferred := planfilesPath
		if preferred == "" {
			preferred = a.cfg.Artifacts.Dir
		}
		resolver := &plandir.Resolver{
			PluginDir: a.cfg.Site.PluginDir,
			DataRoot:  a.cfg.Site.DataRoot,
			Logger:    a.logger,
		}
		dir, err := resolver.Resolve(preferred)
		if err != nil {
			return nil, err
		}
		a.logger.Debug().Str("dir", dir).Msg("writing plan files")
		return artifact.NewFileStore(dir), nil
	}
}

func (a *app) generator(store artifact.Store) (*generator.Generator, error) {
	site, err := render.SiteInfoFromURL(a.cfg.Site.Version, a.cfg.Site.WWWRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid site wwwroot: %w", err)
	}
	tmpl, err := render.LoadTemplate(a.cfg.Template)
	if err != nil {
		return nil, err
	}

	g := &generator.Generator{
		Table:         a.table,
		Labels:        a.labels,
		Site:          site,
		Template:      tmpl,
		Courses:       a.courses,
		Enrolments:    a.enrolments,
		CourseInfo:    a.info,
		UsersPassword: a.cfg.Users.Password,
		Store:         store,
		Logger:        a.logger,
	}
	if a.sql != nil {
		g.Passwords = &lms.LocalAuth{Store: a.sql}
	}
	return g, nil
}

// requireDatabase fails commands that write to the site in snapshot mode.
func (a *app) requireDatabase(what string) error {
	if a.sql == nil {
		return fmt.Errorf("%s needs a database connection, not a snapshot", what)
	}
	return nil
}

// parseTier accepts a size label such as "M" or a tier number.
func parseTier(table *sizes.Table, labels sizes.Labels, s string) (sizes.Tier, error) {
	s = strings.TrimSpace(s)
	if tier, ok := table.TierForDisplayName(labels, strings.ToUpper(s)); ok {
		return tier, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown size %q", s)
	}
	tier := sizes.Tier(n)
	if !tier.Valid() {
		return 0, &sizes.OutOfRangeError{Tier: tier}
	}
	return tier, nil
}
