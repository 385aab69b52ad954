// Package sequence derives numeric name suffixes such as the N in
// "testcourse_N".
package sequence

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// TestCoursePrefix is the shortname prefix of generated courses.
const TestCoursePrefix = "testcourse_"

var numericSuffix = regexp.MustCompile(`^[0-9]+$`)

// LastID returns the largest numeric suffix among names that start with
// prefix, or 0 when there is none. Suffixes are compared as numbers, so
// "testcourse_10" beats "testcourse_9" and "testcourse_007" counts as 7.
// Non-numeric suffixes and values that do not fit in an int are ignored.
//
// The result is the last id in use; callers increment before allocating.
func LastID(names []string, prefix string) int {
	last := 0
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		suffix := name[len(prefix):]
		if !numericSuffix.MatchString(suffix) {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > last {
			last = n
		}
	}
	return last
}

// Allocator hands out increasing ids starting after a base value. It is safe
// for concurrent use.
type Allocator struct {
	mu   sync.Mutex
	last int
}

// NewAllocator returns an Allocator whose first Next call returns last+1.
func NewAllocator(last int) *Allocator {
	return &Allocator{last: last}
}

// Next increments and returns the id.
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last++
	return a.last
}

// Last returns the most recently allocated id, or the base if none was.
func (a *Allocator) Last() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Name formats id with prefix.
func Name(prefix string, id int) string {
	return prefix + strconv.Itoa(id)
}
