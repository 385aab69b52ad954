package worker

import "fmt"

// WorkerFailedError is returned when a worker exits with a non-zero code.
type WorkerFailedError struct {
	ExitCode int
	// Output is stderr followed by stdout, trimmed.
	Output string
}

func (e *WorkerFailedError) Error() string {
	return fmt.Sprintf("maketestcourse failed with exit code %d. Output: %s", e.ExitCode, e.Output)
}

// MissingWorkerBinaryError is returned before spawning when the worker
// binary or script cannot be found.
type MissingWorkerBinaryError struct {
	Path string
	Err  error
}

func (e *MissingWorkerBinaryError) Error() string {
	return fmt.Sprintf("worker program not found: %s: %v", e.Path, e.Err)
}

func (e *MissingWorkerBinaryError) Unwrap() error {
	return e.Err
}
