package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test. It is the worker program run by
// the tests below, driven by HELPER_* environment variables.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	if os.Getenv("HELPER_PRINT_CWD") == "1" {
		wd, _ := os.Getwd()
		fmt.Fprint(os.Stdout, wd)
		os.Exit(0)
	}

	if n, _ := strconv.Atoi(os.Getenv("HELPER_BIG")); n > 0 {
		chunk := strings.Repeat("x", 1024)
		for i := 0; i < n; i++ {
			fmt.Fprint(os.Stderr, chunk)
			fmt.Fprint(os.Stdout, chunk)
		}
	}

	fmt.Fprintf(os.Stdout, "args:%s", strings.Join(args, "|"))
	fmt.Fprint(os.Stderr, "progress")

	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT"))
	os.Exit(code)
}

func helperCommand(t *testing.T) (Command, []string) {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return Command{Binary: os.Args[0]}, []string{"-test.run=TestHelperProcess", "--"}
}

func TestExecRunner_Success(t *testing.T) {
	cmd, prefix := helperCommand(t)
	runner := NewExecRunner(zerolog.Nop())

	args := append(prefix, "--shortname=testcourse_1", "--size=it's \"quoted\" $HOME")
	res, err := runner.Run(context.Background(), cmd, args, t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "args:--shortname=testcourse_1|--size=it's \"quoted\" $HOME", string(res.Stdout))
	assert.Equal(t, "progress", string(res.Stderr))
	assert.Equal(t, "progress\nargs:--shortname=testcourse_1|--size=it's \"quoted\" $HOME", res.CombinedOutput())
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	cmd, prefix := helperCommand(t)
	t.Setenv("HELPER_EXIT", "3")
	runner := NewExecRunner(zerolog.Nop())

	res, err := runner.Run(context.Background(), cmd, prefix, t.TempDir())

	var failed *WorkerFailedError
	require.True(t, errors.As(err, &failed), "expected WorkerFailedError, got %v", err)
	assert.Equal(t, 3, failed.ExitCode)
	assert.Equal(t, "progress\nargs:", failed.Output)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "exit code 3")
}

func TestExecRunner_LargeOutputOnBothStreams(t *testing.T) {
	cmd, prefix := helperCommand(t)
	// Well past any pipe buffer on either stream.
	t.Setenv("HELPER_BIG", "512")
	runner := NewExecRunner(zerolog.Nop())

	res, err := runner.Run(context.Background(), cmd, prefix, t.TempDir())

	require.NoError(t, err)
	assert.Greater(t, len(res.Stdout), 512*1024)
	assert.Greater(t, len(res.Stderr), 512*1024)
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	cmd, prefix := helperCommand(t)
	t.Setenv("HELPER_PRINT_CWD", "1")
	runner := NewExecRunner(zerolog.Nop())

	dir := t.TempDir()
	before, err := os.Getwd()
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), cmd, prefix, dir)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(string(res.Stdout))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	runner := NewExecRunner(zerolog.Nop())

	_, err := runner.Run(context.Background(), Command{Binary: filepath.Join(t.TempDir(), "nope")}, nil, "")
	var missing *MissingWorkerBinaryError
	require.True(t, errors.As(err, &missing), "got %v", err)

	_, err = runner.Run(context.Background(), Command{Binary: os.Args[0], Script: filepath.Join(t.TempDir(), "maketestcourse.php")}, nil, "")
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Contains(t, missing.Path, "maketestcourse.php")

	_, err = runner.Run(context.Background(), Command{}, nil, "")
	require.True(t, errors.As(err, &missing), "got %v", err)

	_, err = runner.Run(context.Background(), Command{Binary: "php"}, nil, "")
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Contains(t, err.Error(), "no worker script configured")
}

func TestCommandResolve_InterpreterNeedsScript(t *testing.T) {
	for _, bin := range []string{"php", "php8.2", "/usr/bin/php-cli", "php.exe"} {
		t.Run(bin, func(t *testing.T) {
			_, err := Command{Binary: bin}.Resolve()
			var missing *MissingWorkerBinaryError
			require.True(t, errors.As(err, &missing), "got %v", err)
		})
	}
}

func TestCommandResolve_RelativePathsAreMadeAbsolute(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "moodle", "admin"), 0o755))
	script := filepath.Join(base, "moodle", "admin", "maketestcourse.php")
	require.NoError(t, os.WriteFile(script, []byte("<?php\n"), 0o644))
	t.Chdir(base)

	resolved, err := Command{Binary: os.Args[0], Script: filepath.Join("moodle", "admin", "maketestcourse.php")}.Resolve()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved.Binary))
	require.True(t, filepath.IsAbs(resolved.Script))

	got, err := filepath.EvalSymlinks(resolved.Script)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(script)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExecRunner_RelativeScriptWithDifferentWorkingDirectory(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "moodle"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "moodle", "maketestcourse.php"), []byte("<?php\n"), 0o644))
	t.Chdir(base)

	runner := NewExecRunner(zerolog.Nop())
	cwd := filepath.Join(base, "moodle")
	c, err := runner.command(context.Background(), Command{Binary: os.Args[0], Script: filepath.Join("moodle", "maketestcourse.php")}, []string{"--size=XS"}, cwd)
	require.NoError(t, err)

	assert.Equal(t, cwd, c.Dir)
	require.Len(t, c.Args, 3)
	assert.True(t, filepath.IsAbs(c.Path), "binary %q", c.Path)
	assert.True(t, filepath.IsAbs(c.Args[1]), "script %q", c.Args[1])
	assert.Equal(t, "--size=XS", c.Args[2])

	// The script must still be found from inside cwd, where the relative
	// form would have pointed at moodle/moodle/maketestcourse.php.
	_, err = os.Stat(c.Args[1])
	assert.NoError(t, err)
}

func TestWorkUnitArgs(t *testing.T) {
	tests := []struct {
		name string
		unit WorkUnit
		want []string
	}{
		{
			name: "minimal",
			unit: WorkUnit{Shortname: "testcourse_1", CourseSize: 0},
			want: []string{"--shortname=testcourse_1", "--size=XS"},
		},
		{
			name: "all flags",
			unit: WorkUnit{Shortname: "testcourse_9", CourseSize: 3, Quiet: true, FileSizeLimit: 1024, FixedDataset: true, BypassCheck: true},
			want: []string{"--shortname=testcourse_9", "--size=L", "--quiet", "--filesizelimit=1024", "--fixeddataset", "--bypasscheck"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.unit.Args(testLabels))
		})
	}
}
