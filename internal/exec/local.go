// Package exec runs local programs and captures their output.
package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/ktop/internal/errors"
)

const waitDelay = time.Second

// Command describes one program invocation. Args are passed straight to
// the program; nothing goes through a shell.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is added to the current environment.
	Env []string
}

// Result holds what a finished command wrote and how it exited.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ExitError reports a program that ran and exited non-zero.
type ExitError struct {
	Name     string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Name, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.ExitCode, e.Stderr)
}

// Capture runs c and waits for it to finish. A non-zero exit is reported in
// Result.ExitCode with a nil error; the error is set only when the program
// couldn't be started or ctx ended first.
func Capture(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	// Grandchildren that inherit the pipes would otherwise hold Run open
	// after ctx kills the program.
	cmd.WaitDelay = waitDelay
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if runErr == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	res.ExitCode = -1
	return res, errors.WrapWithCode(runErr, errors.ErrExec,
		"Couldn't run "+c.Name,
		"Make sure the program exists and is executable.")
}

// Output runs c and returns its stdout. A non-zero exit becomes an
// *ExitError carrying the trimmed stderr.
func Output(ctx context.Context, c Command) ([]byte, error) {
	res, err := Capture(ctx, c)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &ExitError{
			Name:     c.Name,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(string(res.Stderr)),
		}
	}
	return res.Stdout, nil
}
