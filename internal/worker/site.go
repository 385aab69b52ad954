package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/perfdata/internal/lms"
	"github.com/wesleyorama2/perfdata/internal/metrics"
	"github.com/wesleyorama2/perfdata/internal/sequence"
	"github.com/wesleyorama2/perfdata/internal/sizes"
)

// SiteOptions are the flags passed to every worker of a site build.
type SiteOptions struct {
	BypassCheck   bool
	FixedDataset  bool
	FileSizeLimit int
	// Progress lets workers print their own progress; when false they
	// run with --quiet.
	Progress bool
}

// SiteResult describes what a site build created.
type SiteResult struct {
	// Shortnames lists the courses whose worker exited successfully.
	Shortnames []string
	// LastShortname is the shortname of the highest allocated id.
	LastShortname string
	// LastCourseID is the id of LastShortname, or 0 if it does not exist.
	LastCourseID int64
	Timings      metrics.Summary
}

// SiteBuilder creates a multi-course test site one worker at a time.
type SiteBuilder struct {
	Table   *sizes.Table
	Labels  sizes.Labels
	Courses lms.Courses
	Runner  Runner
	Command Command
	// Dir is the working directory of every worker, normally the LMS
	// root directory. The builder never changes its own working directory.
	Dir     string
	Logger  zerolog.Logger
	Timings *metrics.Timings
}

// MakeSite creates every course the tier requires. Courses are named
// testcourse_N, continuing after the highest existing N.
//
// The first worker failure stops the build and is returned; the partial
// result lists the courses created before it.
func (b *SiteBuilder) MakeSite(ctx context.Context, tier sizes.Tier, opts SiteOptions) (*SiteResult, error) {
	scale, err := b.Table.ScaleFor(tier)
	if err != nil {
		return nil, err
	}
	// Resolve before dispatch: a missing binary or script should fail the
	// build before any course is attempted, and the workers run in b.Dir.
	command, err := b.Command.Resolve()
	if err != nil {
		return nil, err
	}

	existing, err := b.Courses.CourseShortnames(ctx, sequence.TestCoursePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing test courses: %w", err)
	}
	alloc := sequence.NewAllocator(sequence.LastID(existing, sequence.TestCoursePrefix))

	timings := b.Timings
	if timings == nil {
		timings = metrics.NewTimings()
	}

	result := &SiteResult{}
	total := scale.TotalCourses()
	b.Logger.Info().
		Str("size", b.Labels.ShortSize(tier)).
		Int("courses", total).
		Int("firstid", alloc.Last()+1).
		Msg("building test site")

	for _, category := range b.Table.Categories() {
		count := scale.CoursesPerCategory[category]
		for i := 1; i <= count; i++ {
			unit := WorkUnit{
				Shortname:     sequence.Name(sequence.TestCoursePrefix, alloc.Next()),
				CourseSize:    category,
				Quiet:         !opts.Progress,
				FileSizeLimit: opts.FileSizeLimit,
				FixedDataset:  opts.FixedDataset,
				BypassCheck:   opts.BypassCheck,
			}

			label := b.Labels.ShortSize(category)
			start := time.Now()
			res, err := b.Runner.Run(ctx, command, unit.Args(b.Labels), b.Dir)
			elapsed := res.Duration
			if elapsed == 0 {
				elapsed = time.Since(start)
			}
			timings.Record(label, elapsed, err == nil)

			if err != nil {
				result.Timings = timings.Summary()
				b.Logger.Error().Err(err).Str("shortname", unit.Shortname).Msg("worker failed, stopping site build")
				return result, fmt.Errorf("creating course %s: %w", unit.Shortname, err)
			}

			result.Shortnames = append(result.Shortnames, unit.Shortname)
			b.Logger.Info().
				Str("shortname", unit.Shortname).
				Str("size", label).
				Int("done", len(result.Shortnames)).
				Int("total", total).
				Dur("elapsed", elapsed).
				Msg("course created")
		}
	}

	result.LastShortname = sequence.Name(sequence.TestCoursePrefix, alloc.Last())
	id, err := b.Courses.CourseIDByShortname(ctx, result.LastShortname)
	switch {
	case err == nil:
		result.LastCourseID = id
	case errors.Is(err, lms.ErrNotFound):
		b.Logger.Warn().Str("shortname", result.LastShortname).Msg("last test course not found")
	default:
		return result, fmt.Errorf("failed to look up course %s: %w", result.LastShortname, err)
	}

	result.Timings = timings.Summary()
	return result, nil
}
