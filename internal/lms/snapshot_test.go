package lms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
	"courses": [
		{
			"id": 2,
			"shortname": "testcourse_1",
			"pages": [31, 40],
			"forums": [
				{"cmid": 32, "discussions": [
					{"id": 7, "firstpost": 70, "timemodified": 500},
					{"id": 5, "firstpost": 50, "timemodified": 100},
					{"id": 4, "firstpost": 40, "timemodified": 100}
				]},
				{"cmid": 33, "discussions": []}
			],
			"users": [
				{"id": 11, "username": "s2"},
				{"id": 10, "username": "s1", "auth": "manual"},
				{"id": 12, "username": "a0", "auth": "ldap"}
			]
		},
		{"id": 3, "shortname": "testcourse_7"},
		{"id": 4, "shortname": "other", "pages": [1]},
		{"id": 5, "shortname": "nodiscussions", "pages": [1], "forums": [{"cmid": 2}]}
	]
}`

func loadTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0644))
	s, err := LoadSnapshot(path)
	require.NoError(t, err)
	return s
}

func TestSnapshot_Courses(t *testing.T) {
	s := loadTestSnapshot(t)
	ctx := context.Background()

	names, err := s.CourseShortnames(ctx, "testcourse_")
	require.NoError(t, err)
	assert.Equal(t, []string{"testcourse_1", "testcourse_7"}, names)

	id, err := s.CourseIDByShortname(ctx, "testcourse_7")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, err = s.CourseIDByShortname(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	ok, _ := s.CourseExists(ctx, 4)
	assert.True(t, ok)
	ok, _ = s.CourseExists(ctx, 40)
	assert.False(t, ok)
}

func TestSnapshot_EnrolledUsers(t *testing.T) {
	s := loadTestSnapshot(t)
	ctx := context.Background()

	users, err := s.EnrolledUsers(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: 12, Username: "a0", Auth: "ldap"},
		{ID: 10, Username: "s1", Auth: "manual"},
		{ID: 11, Username: "s2", Auth: "manual"},
	}, users)

	users, err = s.EnrolledUsers(ctx, 2, 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = s.EnrolledUsers(ctx, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSnapshot_CourseFacts(t *testing.T) {
	s := loadTestSnapshot(t)
	ctx := context.Background()

	facts, err := s.CourseFacts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, CourseFacts{PageCMID: 31, ForumCMID: 32, ForumDiscussionID: 4, ForumReplyID: 40}, facts)

	_, err = s.CourseFacts(ctx, 3)
	assert.True(t, errors.Is(err, ErrNoPageInstances))
	_, err = s.CourseFacts(ctx, 4)
	assert.True(t, errors.Is(err, ErrNoForumInstances))
	_, err = s.CourseFacts(ctx, 5)
	assert.True(t, errors.Is(err, ErrNoForumDiscussions))
	_, err = s.CourseFacts(ctx, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestParseSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"no courses", `{}`},
		{"course without id", `{"courses": [{"shortname": "x"}]}`},
		{"string page id", `{"courses": [{"id": 1, "shortname": "x", "pages": ["a"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.json))
			assert.ErrorContains(t, err, "invalid snapshot")
		})
	}

	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
