// Package generator wires the size tables, renderers, LMS collaborators and
// artifact store into the operations exposed by the command line.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/perfdata/internal/artifact"
	"github.com/wesleyorama2/perfdata/internal/lms"
	"github.com/wesleyorama2/perfdata/internal/render"
	"github.com/wesleyorama2/perfdata/internal/sizes"
)

// Generator produces test plan and users artifacts for a course.
type Generator struct {
	Table    *sizes.Table
	Labels   sizes.Labels
	Site     render.SiteInfo
	Template string

	Courses    lms.Courses
	Enrolments lms.Enrolments
	CourseInfo lms.CourseInfo
	// Passwords may be nil when the deployment cannot change passwords.
	Passwords lms.PasswordUpdater
	// UsersPassword is written to the users file for every user.
	UsersPassword string

	Store  artifact.Store
	Logger zerolog.Logger
}

// TestPlan renders the test plan for courseID at tier.
func (g *Generator) TestPlan(ctx context.Context, courseID int64, tier sizes.Tier) ([]byte, error) {
	scale, err := g.Table.ScaleFor(tier)
	if err != nil {
		return nil, err
	}

	facts, err := g.CourseInfo.CourseFacts(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to read course %d activities: %w", courseID, err)
	}

	params := render.TestPlanParams{
		CourseID:          courseID,
		Tier:              tier,
		PageActivityID:    facts.PageCMID,
		ForumActivityID:   facts.ForumCMID,
		ForumDiscussionID: facts.ForumDiscussionID,
		ForumReplyID:      facts.ForumReplyID,
	}
	return render.TestPlan(g.Template, params, scale, g.Site, g.Labels.ShortSize(tier)), nil
}

// CreateTestPlanFile renders and stores the test plan.
func (g *Generator) CreateTestPlanFile(ctx context.Context, courseID int64, tier sizes.Tier) (artifact.Handle, error) {
	plan, err := g.TestPlan(ctx, courseID, tier)
	if err != nil {
		return artifact.Handle{}, err
	}
	h, err := g.Store.Store(ctx, artifact.AreaTestPlan, "jmx", plan)
	if err != nil {
		return artifact.Handle{}, err
	}
	g.Logger.Info().Int64("course", courseID).Str("size", g.Labels.ShortSize(tier)).Str("location", h.Location).Msg("test plan created")
	return h, nil
}

// UsersOptions controls the users file.
type UsersOptions struct {
	// UpdatePasswords sets every listed user's password to UsersPassword.
	UpdatePasswords bool
	// LimitToTier lists at most as many users as Tier simulates.
	LimitToTier bool
	Tier        sizes.Tier
}

// UsersFile renders the users CSV for courseID.
func (g *Generator) UsersFile(ctx context.Context, courseID int64, opts UsersOptions) ([]byte, error) {
	limit := 0
	if opts.LimitToTier {
		n, err := g.Table.UsersFor(opts.Tier)
		if err != nil {
			return nil, err
		}
		limit = n
	}

	users, err := g.Enrolments.EnrolledUsers(ctx, courseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled users: %w", err)
	}

	var updater lms.PasswordUpdater
	if opts.UpdatePasswords {
		if g.Passwords == nil {
			return nil, errors.New("password updates are not available for this site")
		}
		updater = g.Passwords
	}
	return render.UsersCSV(ctx, users, g.UsersPassword, updater)
}

// CreateUsersFile renders and stores the users CSV.
func (g *Generator) CreateUsersFile(ctx context.Context, courseID int64, opts UsersOptions) (artifact.Handle, error) {
	csv, err := g.UsersFile(ctx, courseID, opts)
	if err != nil {
		return artifact.Handle{}, err
	}
	h, err := g.Store.Store(ctx, artifact.AreaUsers, "csv", csv)
	if err != nil {
		return artifact.Handle{}, err
	}
	g.Logger.Info().Int64("course", courseID).Str("location", h.Location).Msg("users file created")
	return h, nil
}

// ResolveCourse accepts a numeric course id or a course shortname.
func (g *Generator) ResolveCourse(ctx context.Context, course string) (int64, error) {
	if id, err := strconv.ParseInt(course, 10, 64); err == nil {
		ok, err := g.Courses.CourseExists(ctx, id)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrNonExistingCourse
		}
		return id, nil
	}

	id, err := g.Courses.CourseIDByShortname(ctx, course)
	if errors.Is(err, lms.ErrNotFound) {
		return 0, ErrNonExistingCourse
	}
	return id, err
}

// CheckCourse reports whether course can be targeted at tier. Problems with
// the course are returned as *CourseProblems; any other error means the
// check itself failed.
func (g *Generator) CheckCourse(ctx context.Context, course string, tier sizes.Tier) (int64, error) {
	required, err := g.Table.UsersFor(tier)
	if err != nil {
		return 0, err
	}

	problems := &CourseProblems{}
	id, err := g.ResolveCourse(ctx, course)
	if errors.Is(err, ErrNonExistingCourse) {
		problems.add(FieldCourse, err)
		return 0, problems
	}
	if err != nil {
		return 0, err
	}

	users, err := g.Enrolments.EnrolledUsers(ctx, id, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list enrolled users: %w", err)
	}
	if len(users) == 0 {
		problems.add(FieldCourse, render.ErrNoUsers)
	}
	if len(users) < required {
		problems.add(FieldSize, &NotEnoughUsersError{Enrolled: len(users), Required: required})
	}

	if len(problems.Fields) > 0 {
		return id, problems
	}
	return id, nil
}
