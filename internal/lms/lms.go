// Package lms defines the learning-management collaborators the generator
// talks to, and ships adapters for them: a SQL store over the Moodle schema,
// a JSON course snapshot, and a bcrypt password updater for manual accounts.
package lms

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

var (
	ErrNoPageInstances    = errors.New("course has no page activities")
	ErrNoForumInstances   = errors.New("course has no forum activities")
	ErrNoForumDiscussions = errors.New("forum has no discussions")
)

// User is the subset of a user record the generator needs.
type User struct {
	ID       int64
	Username string
	Auth     string
}

// CourseFacts are the activity ids a test plan targets.
type CourseFacts struct {
	// PageCMID is the course module id of the first page activity.
	PageCMID int64
	// ForumCMID is the course module id of the first forum activity.
	ForumCMID int64
	// ForumDiscussionID is the oldest discussion of that forum.
	ForumDiscussionID int64
	// ForumReplyID is the first post of that discussion.
	ForumReplyID int64
}

// Courses looks up course records.
type Courses interface {
	// CourseShortnames returns the shortnames that start with prefix, in no
	// particular order.
	CourseShortnames(ctx context.Context, prefix string) ([]string, error)
	// CourseIDByShortname returns ErrNotFound when no course matches.
	CourseIDByShortname(ctx context.Context, shortname string) (int64, error)
	CourseExists(ctx context.Context, id int64) (bool, error)
}

// Enrolments lists users enrolled in a course.
type Enrolments interface {
	// EnrolledUsers returns active enrolled users ordered by username
	// ascending. A limit of 0 returns every user.
	EnrolledUsers(ctx context.Context, courseID int64, limit int) ([]User, error)
}

// CourseInfo introspects course modules.
type CourseInfo interface {
	CourseFacts(ctx context.Context, courseID int64) (CourseFacts, error)
}

// PasswordUpdater changes a user's password through their auth plugin.
type PasswordUpdater interface {
	UpdatePassword(ctx context.Context, user User, password string) error
}

// AdminProfile holds the fields written to the admin account.
type AdminProfile struct {
	Email     string
	FirstName string
	LastName  string
	City      string
	Country   string
}

// SiteSettings writes admin settings and site-wide switches.
type SiteSettings interface {
	SetConfig(ctx context.Context, name, value string) error
	// UpdateAdminProfile returns ErrNotFound when there is no admin user.
	UpdateAdminProfile(ctx context.Context, username string, profile AdminProfile) error
	SetMessageProcessorEnabled(ctx context.Context, name string, enabled bool) error
}

// Frontpage course list values.
const (
	FrontpageEnrolledCourseList = 5
	FrontpageAllCourseList      = 6
)

// FrontpageWriter stores the front page course list settings. Deployments
// without this capability leave it nil.
type FrontpageWriter interface {
	WriteFrontpage(ctx context.Context, loggedIn bool, items []int) error
}
