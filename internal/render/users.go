package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/wesleyorama2/perfdata/internal/lms"
)

// ErrNoUsers is returned when there are no users to write.
var ErrNoUsers = errors.New("course without users")

// PasswordUpdateError is returned when a user's password could not be changed.
type PasswordUpdateError struct {
	Username string
	Err      error
}

func (e *PasswordUpdateError) Error() string {
	return fmt.Sprintf("error updating password for user %q: %v", e.Username, e.Err)
}

func (e *PasswordUpdateError) Unwrap() error {
	return e.Err
}

// LineSeparator is the line ending used in generated CSV files.
var LineSeparator = lineSeparatorFor(runtime.GOOS)

func lineSeparatorFor(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// UsersCSV renders one "username,password" line per user, in input order.
//
// When updater is non-nil every password is changed to password before the
// user's line is written; the first failure aborts the render and no output
// is returned.
func UsersCSV(ctx context.Context, users []lms.User, password string, updater lms.PasswordUpdater) ([]byte, error) {
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	lines := make([]string, 0, len(users))
	for _, user := range users {
		if updater != nil {
			if err := updater.UpdatePassword(ctx, user, password); err != nil {
				return nil, &PasswordUpdateError{Username: user.Username, Err: err}
			}
		}
		lines = append(lines, user.Username+","+password)
	}

	return []byte(strings.Join(lines, LineSeparator)), nil
}
