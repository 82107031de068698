// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Command is one argv to run.
	Command struct {
		// Args is the program and its arguments. Each element is quoted, never expanded.
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env is the complete environment. Nil inherits the process environment.
		Env map[string]string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner runs commands. Interpreter is the production implementation.
	Runner interface {
		Run(ctx context.Context, cmd Command) error
	}

	// ExecMiddleware wraps the interpreter's external command execution.
	ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

	// Interpreter runs commands with mvdan/sh.
	Interpreter struct {
		middlewares []ExecMiddleware
	}

	// Option configures an Interpreter.
	Option func(*Interpreter)

	// ExitError reports a command that exited with a non-zero status.
	ExitError struct {
		Args []string
		Code int
	}
)

// WithExecMiddleware installs middleware around external command execution,
// outermost first.
func WithExecMiddleware(mw ...ExecMiddleware) Option {
	return func(i *Interpreter) {
		i.middlewares = append(i.middlewares, mw...)
	}
}

// NewInterpreter creates an Interpreter.
func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run executes cmd and waits for it. A non-zero exit yields *ExitError.
func (i *Interpreter) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return errors.New("empty command")
	}

	script, err := Script(cmd.Args)
	if err != nil {
		return err
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "command")
	if err != nil {
		return fmt.Errorf("failed to parse command: %w", err)
	}

	environ := os.Environ()
	if cmd.Env != nil {
		environ = envToSlice(cmd.Env)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(cmd.Stdin, orDiscard(cmd.Stdout), orDiscard(cmd.Stderr)),
	}
	if cmd.Dir != "" {
		opts = append(opts, interp.Dir(cmd.Dir))
	}
	if len(i.middlewares) > 0 {
		opts = append(opts, interp.ExecHandlers(i.middlewares...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Args: slices.Clone(cmd.Args), Code: int(status)}
		}
		return fmt.Errorf("%s failed: %w", cmd.Args[0], err)
	}
	return nil
}

// Script renders args as a single shell command line with every argument quoted.
func Script(args []string) (string, error) {
	quoted := make([]string, len(args))
	for i, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("cannot quote argument %q: %w", arg, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.Code)
}

func envToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
