package generator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNonExistingCourse is returned when the target course does not exist.
var ErrNonExistingCourse = errors.New("course does not exist")

// NotEnoughUsersError is returned when a course has fewer enrolled users than
// the size tier simulates.
type NotEnoughUsersError struct {
	Enrolled int
	Required int
}

func (e *NotEnoughUsersError) Error() string {
	return fmt.Sprintf("not enough users enrolled in the course: %d enrolled, %d required", e.Enrolled, e.Required)
}

// Field names reported by CheckCourse.
const (
	FieldCourse = "courseid"
	FieldSize   = "size"
)

// CourseProblems collects the reasons a course cannot be used, keyed by the
// offending input field.
type CourseProblems struct {
	Fields map[string]error
}

func (p *CourseProblems) add(field string, err error) {
	if p.Fields == nil {
		p.Fields = make(map[string]error)
	}
	p.Fields[field] = err
}

func (p *CourseProblems) Error() string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, p.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Unwrap returns the per-field errors so errors.Is/As see through them.
func (p *CourseProblems) Unwrap() []error {
	errs := make([]error, 0, len(p.Fields))
	for _, err := range p.Fields {
		errs = append(errs, err)
	}
	return errs
}
