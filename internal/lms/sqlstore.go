package lms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wesleyorama2/perfdata/internal/db"
)

// DefaultTablePrefix is the Moodle table prefix.
const DefaultTablePrefix = "mdl_"

// SQLStore reads and writes the Moodle database directly.
type SQLStore struct {
	db     *sql.DB
	driver string
	prefix string
}

// NewSQLStore wraps an open database. An empty prefix means DefaultTablePrefix.
func NewSQLStore(conn *sql.DB, driver, prefix string) *SQLStore {
	if prefix == "" {
		prefix = DefaultTablePrefix
	}
	return &SQLStore{db: conn, driver: driver, prefix: prefix}
}

var tableRef = regexp.MustCompile(`\{(\w+)\}`)

// q expands {table} references and rebinds placeholders.
func (s *SQLStore) q(query string) string {
	query = tableRef.ReplaceAllString(query, s.prefix+"$1")
	return db.Rebind(s.driver, query)
}

// likeEscape escapes LIKE wildcards using backslash.
func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `_`, `\_`, `%`, `\%`)
	return r.Replace(s)
}

// CourseShortnames implements Courses.
func (s *SQLStore) CourseShortnames(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT shortname FROM {course} WHERE shortname LIKE ? ESCAPE '\'`),
		likeEscape(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("query course shortnames: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan course shortname: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CourseIDByShortname implements Courses.
func (s *SQLStore) CourseIDByShortname(ctx context.Context, shortname string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.q(`SELECT id FROM {course} WHERE shortname = ?`), shortname).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query course %q: %w", shortname, err)
	}
	return id, nil
}

// CourseExists implements Courses.
func (s *SQLStore) CourseExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(1) FROM {course} WHERE id = ?`), id).Scan(&n); err != nil {
		return false, fmt.Errorf("query course %d: %w", id, err)
	}
	return n > 0, nil
}

// EnrolledUsers implements Enrolments.
func (s *SQLStore) EnrolledUsers(ctx context.Context, courseID int64, limit int) ([]User, error) {
	query := `SELECT DISTINCT u.id, u.username, u.auth
		FROM {user} u
		JOIN {user_enrolments} ue ON ue.userid = u.id
		JOIN {enrol} e ON e.id = ue.enrolid
		WHERE e.courseid = ? AND e.status = 0 AND ue.status = 0 AND u.deleted = 0
		ORDER BY u.username ASC`
	args := []any{courseID}
	if limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(limit)
	}

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query enrolled users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Auth); err != nil {
			return nil, fmt.Errorf("scan enrolled user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// firstModule returns the first course module of a module type.
func (s *SQLStore) firstModule(ctx context.Context, courseID int64, module string) (cmid, instance int64, err error) {
	err = s.db.QueryRowContext(ctx, s.q(`SELECT cm.id, cm.instance
		FROM {course_modules} cm
		JOIN {modules} m ON m.id = cm.module
		WHERE cm.course = ? AND m.name = ? AND cm.deletioninprogress = 0
		ORDER BY cm.id ASC
		LIMIT 1`), courseID, module).Scan(&cmid, &instance)
	return cmid, instance, err
}

// CourseFacts implements CourseInfo.
func (s *SQLStore) CourseFacts(ctx context.Context, courseID int64) (CourseFacts, error) {
	var facts CourseFacts

	pageCMID, _, err := s.firstModule(ctx, courseID, "page")
	if errors.Is(err, sql.ErrNoRows) {
		return facts, ErrNoPageInstances
	}
	if err != nil {
		return facts, fmt.Errorf("query page activities: %w", err)
	}

	forumCMID, forumID, err := s.firstModule(ctx, courseID, "forum")
	if errors.Is(err, sql.ErrNoRows) {
		return facts, ErrNoForumInstances
	}
	if err != nil {
		return facts, fmt.Errorf("query forum activities: %w", err)
	}

	var discussionID, firstPost int64
	err = s.db.QueryRowContext(ctx, s.q(`SELECT id, firstpost
		FROM {forum_discussions}
		WHERE forum = ?
		ORDER BY timemodified ASC, id ASC
		LIMIT 1`), forumID).Scan(&discussionID, &firstPost)
	if errors.Is(err, sql.ErrNoRows) {
		return facts, ErrNoForumDiscussions
	}
	if err != nil {
		return facts, fmt.Errorf("query forum discussions: %w", err)
	}

	facts.PageCMID = pageCMID
	facts.ForumCMID = forumCMID
	facts.ForumDiscussionID = discussionID
	facts.ForumReplyID = firstPost
	return facts, nil
}

// SetConfig implements SiteSettings.
func (s *SQLStore) SetConfig(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO {config} (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value`), name, value)
	if err != nil {
		return fmt.Errorf("set config %s: %w", name, err)
	}
	return nil
}

// Config returns a config value, or ErrNotFound.
func (s *SQLStore) Config(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT value FROM {config} WHERE name = ?`), name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get config %s: %w", name, err)
	}
	return value, nil
}

// UpdateAdminProfile implements SiteSettings.
func (s *SQLStore) UpdateAdminProfile(ctx context.Context, username string, p AdminProfile) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE {user}
		SET email = ?, firstname = ?, lastname = ?, city = ?, country = ?
		WHERE username = ?`), p.Email, p.FirstName, p.LastName, p.City, p.Country, username)
	if err != nil {
		return fmt.Errorf("update user %s: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user %s: %w", username, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMessageProcessorEnabled implements SiteSettings.
func (s *SQLStore) SetMessageProcessorEnabled(ctx context.Context, name string, enabled bool) error {
	value := 0
	if enabled {
		value = 1
	}
	if _, err := s.db.ExecContext(ctx, s.q(`UPDATE {message_processors} SET enabled = ? WHERE name = ?`), value, name); err != nil {
		return fmt.Errorf("update message processor %s: %w", name, err)
	}
	return nil
}

// WriteFrontpage implements FrontpageWriter.
func (s *SQLStore) WriteFrontpage(ctx context.Context, loggedIn bool, items []int) error {
	name := "frontpage"
	if loggedIn {
		name = "frontpageloggedin"
	}
	values := make([]string, len(items))
	for i, item := range items {
		values[i] = strconv.Itoa(item)
	}
	return s.SetConfig(ctx, name, strings.Join(values, ","))
}

// SetPasswordHash stores a password hash for a user.
func (s *SQLStore) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE {user} SET password = ? WHERE id = ?`), hash, userID)
	if err != nil {
		return fmt.Errorf("update password for user %d: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
