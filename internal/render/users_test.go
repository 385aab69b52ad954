package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wesleyorama2/perfdata/internal/lms"
)

type recordingUpdater struct {
	updated []string
	failOn  string
}

func (r *recordingUpdater) UpdatePassword(_ context.Context, user lms.User, _ string) error {
	if user.Username == r.failOn {
		return errors.New("auth plugin refused")
	}
	r.updated = append(r.updated, user.Username)
	return nil
}

func TestUsersCSV_NoUsers(t *testing.T) {
	_, err := UsersCSV(context.Background(), nil, "x", nil)
	if !errors.Is(err, ErrNoUsers) {
		t.Fatalf("expected ErrNoUsers, got %v", err)
	}
}

func TestUsersCSV_InputOrder(t *testing.T) {
	users := []lms.User{{ID: 2, Username: "u2"}, {ID: 1, Username: "u1"}}

	out, err := UsersCSV(context.Background(), users, "x", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(string(out), LineSeparator)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "u2,x" || lines[1] != "u1,x" {
		t.Errorf("unexpected lines: %q", lines)
	}
}

func TestUsersCSV_UpdatesPasswordsFirst(t *testing.T) {
	updater := &recordingUpdater{}
	users := []lms.User{{Username: "a"}, {Username: "b"}, {Username: "c"}}

	out, err := UsersCSV(context.Background(), users, "secret", updater)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(updater.updated, ","); got != "a,b,c" {
		t.Errorf("updated = %s, want a,b,c", got)
	}
	if !strings.HasPrefix(string(out), "a,secret") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUsersCSV_PasswordFailureAborts(t *testing.T) {
	updater := &recordingUpdater{failOn: "b"}
	users := []lms.User{{Username: "a"}, {Username: "b"}, {Username: "c"}}

	out, err := UsersCSV(context.Background(), users, "secret", updater)

	var pwErr *PasswordUpdateError
	if !errors.As(err, &pwErr) {
		t.Fatalf("expected PasswordUpdateError, got %v", err)
	}
	if pwErr.Username != "b" {
		t.Errorf("Username = %q, want b", pwErr.Username)
	}
	if out != nil {
		t.Errorf("expected no output, got %q", out)
	}
	if len(updater.updated) != 1 {
		t.Errorf("expected updates to stop after failure, got %v", updater.updated)
	}
}

func TestLineSeparatorFor(t *testing.T) {
	if lineSeparatorFor("windows") != "\r\n" {
		t.Error("windows should use CRLF")
	}
	if lineSeparatorFor("linux") != "\n" {
		t.Error("linux should use LF")
	}
}
