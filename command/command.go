// Package command runs external tools (svn, msgfmt) with explicit argument
// vectors. Nothing is ever passed through a shell.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Output holds what a finished command wrote.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Combined returns stdout followed by stderr. msgfmt prints its statistics
// on stderr, svn prints on stdout; callers that only want the text use this.
func (o Output) Combined() string {
	return string(o.Stdout) + string(o.Stderr)
}

// Runner executes a program with arguments.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct {
	// Dir is the working directory of the child. Empty means inherit.
	Dir string
	// Env is appended to the current environment.
	Env []string
}

// Run starts the program, waits for it and returns its captured output.
// A non-zero exit is returned as an error together with the output.
func (e Exec) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return out, fmt.Errorf("%s failed: %w", name, err)
		}
		return out, fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return out, nil
}

// Available reports whether a program can be found on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Call records one invocation made through a Recorder.
type Call struct {
	Name string
	Args []string
}

// String renders the call the way it would be typed.
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Recorder is a Runner that never starts a process. Each call is recorded
// and answered by Handle, which defaults to empty success.
type Recorder struct {
	Calls  []Call
	Handle func(c Call) (Output, error)
}

// Run records the call and delegates to Handle.
func (r *Recorder) Run(ctx context.Context, name string, args ...string) (Output, error) {
	c := Call{Name: name, Args: append([]string(nil), args...)}
	r.Calls = append(r.Calls, c)
	if r.Handle == nil {
		return Output{}, nil
	}
	return r.Handle(c)
}
