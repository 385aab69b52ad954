package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Command identifies the worker program. Binary is resolved through PATH
// when it has no directory component. Script, when set, is passed as the
// first argument (e.g. a PHP binary plus the maketestcourse.php script).
type Command struct {
	Binary string
	Script string
}

// String returns the command line without unit arguments.
func (c Command) String() string {
	if c.Script == "" {
		return c.Binary
	}
	return c.Binary + " " + c.Script
}

// isInterpreter reports whether binary is a PHP interpreter (php, php8.2,
// php-cli, php.exe), which does nothing useful without a Script.
func isInterpreter(binary string) bool {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(binary), ".exe"))
	return strings.HasPrefix(base, "php")
}

// Resolve checks that the binary and script exist and returns the command
// with both made absolute, so it can be run from any working directory.
// Relative paths are taken against the caller's working directory.
func (c Command) Resolve() (Command, error) {
	if c.Binary == "" {
		return Command{}, &MissingWorkerBinaryError{Path: "", Err: errors.New("no worker binary configured")}
	}
	if c.Script == "" && isInterpreter(c.Binary) {
		return Command{}, &MissingWorkerBinaryError{Path: c.Binary, Err: errors.New("no worker script configured")}
	}

	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		return Command{}, &MissingWorkerBinaryError{Path: c.Binary, Err: err}
	}
	if bin, err = filepath.Abs(bin); err != nil {
		return Command{}, &MissingWorkerBinaryError{Path: c.Binary, Err: err}
	}

	resolved := Command{Binary: bin}
	if c.Script != "" {
		script, err := filepath.Abs(c.Script)
		if err != nil {
			return Command{}, &MissingWorkerBinaryError{Path: c.Script, Err: err}
		}
		if _, err := os.Stat(script); err != nil {
			return Command{}, &MissingWorkerBinaryError{Path: c.Script, Err: err}
		}
		resolved.Script = script
	}
	return resolved, nil
}

// Result is the outcome of one worker run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// CombinedOutput returns stderr followed by stdout, trimmed.
func (r Result) CombinedOutput() string {
	return strings.TrimSpace(string(r.Stderr) + "\n" + string(r.Stdout))
}

// Runner runs one worker process to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command, args []string, cwd string) (Result, error)
}

// ExecRunner runs workers as child processes.
type ExecRunner struct {
	Logger zerolog.Logger
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// command builds the child process for one run. Paths are resolved before
// the working directory is switched to cwd.
func (r *ExecRunner) command(ctx context.Context, cmd Command, args []string, cwd string) (*exec.Cmd, error) {
	resolved, err := cmd.Resolve()
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, len(args)+1)
	if resolved.Script != "" {
		argv = append(argv, resolved.Script)
	}
	argv = append(argv, args...)

	c := exec.CommandContext(ctx, resolved.Binary, argv...)
	c.Dir = cwd
	return c, nil
}

// Run starts the worker in cwd and blocks until it exits and both output
// streams are drained. A non-zero exit returns the Result together with a
// *WorkerFailedError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command, args []string, cwd string) (Result, error) {
	c, err := r.command(ctx, cmd, args, cwd)
	if err != nil {
		return Result{}, err
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open worker stdout: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open worker stderr: %w", err)
	}

	r.Logger.Debug().Str("command", cmd.String()).Strs("args", args).Str("cwd", cwd).Msg("starting worker")

	start := time.Now()
	if err := c.Start(); err != nil {
		return Result{}, fmt.Errorf("failed to start worker process: %w", err)
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	drainErr := g.Wait()
	waitErr := c.Wait()

	result := Result{
		Stdout:   outBuf.Bytes(),
		Stderr:   errBuf.Bytes(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil && waitErr != nil {
		return result, fmt.Errorf("worker cancelled: %w", ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, fmt.Errorf("failed to run worker process: %w", waitErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	if drainErr != nil {
		return result, fmt.Errorf("failed to read worker output: %w", drainErr)
	}

	if result.ExitCode != 0 {
		return result, &WorkerFailedError{ExitCode: result.ExitCode, Output: result.CombinedOutput()}
	}
	return result, nil
}
