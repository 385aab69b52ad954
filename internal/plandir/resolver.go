// Package plandir picks the directory generated plan files are written to.
package plandir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// NoWritableDirectoryError is returned when no candidate directory is usable.
type NoWritableDirectoryError struct {
	Candidates []string
}

func (e *NoWritableDirectoryError) Error() string {
	return fmt.Sprintf("failed to create or find a writable planfiles directory (tried %s); use --planfilespath to specify a writable path",
		strings.Join(e.Candidates, ", "))
}

// Resolver holds the fallback locations tried after an explicit path.
// Empty fields are skipped.
type Resolver struct {
	PluginDir string
	DataRoot  string
	// TempDir defaults to os.TempDir().
	TempDir string
	Logger  zerolog.Logger
}

// Candidates returns the ordered list of directories Resolve tries.
func (r *Resolver) Candidates(preferred string) []string {
	var candidates []string
	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	if r.PluginDir != "" {
		candidates = append(candidates, filepath.Join(r.PluginDir, "planfiles"))
	}
	if r.DataRoot != "" {
		candidates = append(candidates, filepath.Join(r.DataRoot, "local_performancetool", "planfiles"))
	}
	tmp := r.TempDir
	if tmp == "" {
		tmp = os.TempDir()
	}
	candidates = append(candidates, filepath.Join(trimSeparators(tmp), "performancetool_planfiles"))
	return candidates
}

// Resolve returns the first candidate that is, or can be made, a writable
// directory. Missing candidates are created and every candidate is made
// world-writable on a best-effort basis. The returned path is absolute and
// ends with a path separator.
func (r *Resolver) Resolve(preferred string) (string, error) {
	candidates := r.Candidates(preferred)
	for _, candidate := range candidates {
		dir := trimSeparators(candidate)
		if dir == "" {
			continue
		}

		if !isDir(dir) {
			if err := os.MkdirAll(dir, 0775); err != nil {
				r.Logger.Debug().Err(err).Str("dir", dir).Msg("cannot create planfiles candidate")
				continue
			}
		}
		_ = os.Chmod(dir, 0777)

		if isDir(dir) && isWritable(dir) {
			abs, err := filepath.Abs(dir)
			if err != nil {
				continue
			}
			return abs + string(filepath.Separator), nil
		}
		r.Logger.Debug().Str("dir", dir).Msg("planfiles candidate not writable")
	}
	return "", &NoWritableDirectoryError{Candidates: candidates}
}

func trimSeparators(p string) string {
	return strings.TrimRight(p, `/\`)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// isWritable checks the directory by creating and removing a file.
func isWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".perfdata-writecheck-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
