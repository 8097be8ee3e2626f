// Package anarci is a thin wrapper around the external ANARCI antibody
// numbering program. It resolves the executable, runs it over a FASTA file
// and reports how it exited; the numbering itself is entirely ANARCI's.
package anarci

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultName is looked up on PATH when no explicit executable is given.
const DefaultName = "anarci"

// SchemeIMGT is the only numbering scheme the CDR table is defined for.
const SchemeIMGT = "imgt"

var (
	// ErrNotFound matches errors returned when the executable cannot be resolved.
	ErrNotFound = errors.New("anarci not found")
	// ErrFailed matches errors returned when the executable exits non-zero.
	ErrFailed = errors.New("anarci failed")
)

// NotFoundError reports the path that could not be resolved.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find ANARCI at %q: make sure it is installed and in your PATH, or specify the path using --anarci-path", e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitError carries the exit code of a failed run. Code is -1 when the
// process was terminated by a signal.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ANARCI failed (exit code: %d)", e.Code)
}

func (e *ExitError) Is(target error) bool { return target == ErrFailed }

// Runner numbers the sequences in input and writes the table to output.
// Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, input, output string) error
}

// Resolve locates name on PATH, or checks it directly when it contains a
// path separator.
func Resolve(name string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", &NotFoundError{Path: name, Err: err}
	}
	return p, nil
}

// Tool runs a resolved ANARCI executable. Stdout and Stderr receive the
// tool's own output as it is produced; nil means the parent's streams.
type Tool struct {
	Path   string
	Scheme string
	Stdout io.Writer
	Stderr io.Writer
}

// New resolves name and returns a Tool numbering with the IMGT scheme.
func New(name string) (*Tool, error) {
	p, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	return &Tool{Path: p, Scheme: SchemeIMGT}, nil
}

// Args returns the argument list passed to the executable.
func (t *Tool) Args(input, output string) []string {
	scheme := t.Scheme
	if scheme == "" {
		scheme = SchemeIMGT
	}
	return []string{"-i", input, "-o", output, "--scheme", scheme}
}

// CommandLine renders the full invocation for logging.
func (t *Tool) CommandLine(input, output string) string {
	return strings.Join(append([]string{t.Path}, t.Args(input, output)...), " ")
}

// Run blocks until the tool exits. There is no timeout; ctx only allows the
// caller to interrupt the child.
func (t *Tool) Run(ctx context.Context, input, output string) error {
	cmd := exec.CommandContext(ctx, t.Path, t.Args(input, output)...)
	cmd.Stdout = t.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = t.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("execute ANARCI at %s: %w", t.Path, err)
	}
	return nil
}
