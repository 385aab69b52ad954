package lms

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/perfdata/pkg/jsonschema"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

var snapshotSchema = jsonschema.MustCompile("snapshot.schema.json", snapshotSchemaJSON)

// Snapshot answers course, enrolment and module queries from a JSON export
// of the site, so plans can be generated without database access.
//
//	{"courses": [{"id": 2, "shortname": "testcourse_1",
//	  "pages": [31],
//	  "forums": [{"cmid": 32, "discussions": [{"id": 5, "firstpost": 9, "timemodified": 1700000000}]}],
//	  "users": [{"id": 3, "username": "s1", "auth": "manual"}]}]}
type Snapshot struct {
	doc string
}

// LoadSnapshot reads and validates a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot validates data against the snapshot schema.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	if err := snapshotSchema.Validate(data); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return &Snapshot{doc: string(data)}, nil
}

func (s *Snapshot) course(id int64) (gjson.Result, bool) {
	c := gjson.Get(s.doc, fmt.Sprintf("courses.#(id==%d)", id))
	return c, c.Exists()
}

// CourseShortnames implements Courses.
func (s *Snapshot) CourseShortnames(_ context.Context, prefix string) ([]string, error) {
	var names []string
	for _, name := range gjson.Get(s.doc, "courses.#.shortname").Array() {
		if strings.HasPrefix(name.String(), prefix) {
			names = append(names, name.String())
		}
	}
	return names, nil
}

// CourseIDByShortname implements Courses.
func (s *Snapshot) CourseIDByShortname(_ context.Context, shortname string) (int64, error) {
	for _, c := range gjson.Get(s.doc, "courses").Array() {
		if c.Get("shortname").String() == shortname {
			return c.Get("id").Int(), nil
		}
	}
	return 0, ErrNotFound
}

// CourseExists implements Courses.
func (s *Snapshot) CourseExists(_ context.Context, id int64) (bool, error) {
	_, ok := s.course(id)
	return ok, nil
}

// EnrolledUsers implements Enrolments.
func (s *Snapshot) EnrolledUsers(_ context.Context, courseID int64, limit int) ([]User, error) {
	c, ok := s.course(courseID)
	if !ok {
		return nil, nil
	}

	var users []User
	for _, u := range c.Get("users").Array() {
		auth := u.Get("auth").String()
		if auth == "" {
			auth = "manual"
		}
		users = append(users, User{ID: u.Get("id").Int(), Username: u.Get("username").String(), Auth: auth})
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// CourseFacts implements CourseInfo.
func (s *Snapshot) CourseFacts(_ context.Context, courseID int64) (CourseFacts, error) {
	var facts CourseFacts
	c, ok := s.course(courseID)
	if !ok {
		return facts, ErrNotFound
	}

	page := c.Get("pages.0")
	if !page.Exists() {
		return facts, ErrNoPageInstances
	}
	forum := c.Get("forums.0")
	if !forum.Exists() {
		return facts, ErrNoForumInstances
	}

	var oldest gjson.Result
	for _, d := range forum.Get("discussions").Array() {
		if !oldest.Exists() || olderDiscussion(d, oldest) {
			oldest = d
		}
	}
	if !oldest.Exists() {
		return facts, ErrNoForumDiscussions
	}

	facts.PageCMID = page.Int()
	facts.ForumCMID = forum.Get("cmid").Int()
	facts.ForumDiscussionID = oldest.Get("id").Int()
	facts.ForumReplyID = oldest.Get("firstpost").Int()
	return facts, nil
}

func olderDiscussion(a, b gjson.Result) bool {
	at, bt := a.Get("timemodified").Int(), b.Get("timemodified").Int()
	if at != bt {
		return at < bt
	}
	return a.Get("id").Int() < b.Get("id").Int()
}
