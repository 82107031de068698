// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

type multiErr []error

func (m multiErr) Error() string   { return "several things failed" }
func (m multiErr) Unwrap() []error { return m }

func TestActionableErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "publish npm package", Resource: "packages/core"},
			want: "failed to publish npm package: packages/core",
		},
		{
			name: "with resource and cause",
			err: &ActionableError{
				Operation: "publish npm package",
				Resource:  "packages/core",
				Cause:     errors.New("exit status 1"),
			},
			want: "failed to publish npm package: packages/core: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	t.Run("requires operation", func(t *testing.T) {
		t.Parallel()
		if NewErrorContext().BuildError() != nil {
			t.Error("BuildError without operation should return nil")
		}
		if NewErrorContext().WithResource("packages/core").BuildError() != nil {
			t.Error("BuildError with only a resource should return nil")
		}
	})

	t.Run("keeps cause for errors.Is", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("registry unreachable")
		err := NewErrorContext().
			WithOperation("add npm dist-tag").
			WithResource(".").
			WithSuggestion("Check network access").
			WithSuggestion("Retry later").
			Wrap(cause).
			BuildError()
		if !errors.Is(err, cause) {
			t.Fatal("errors.Is should find the cause")
		}
		var ae *ActionableError
		if !errors.As(err, &ae) {
			t.Fatal("expected *ActionableError")
		}
		if len(ae.Suggestions) != 2 {
			t.Errorf("got %d suggestions, want 2", len(ae.Suggestions))
		}
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	cause := multiErr{errors.New("ENOPKG Missing `package.json` file."), errors.New("EINVALIDNPMTOKEN Invalid npm token.")}
	err := NewErrorContext().
		WithOperation("verify npm release").
		WithSuggestion("Fix the errors above").
		Wrap(cause).
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected *ActionableError")
	}
	short := ae.Format(false)
	if !strings.Contains(short, "• Fix the errors above") {
		t.Errorf("Format(false) missing suggestion:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", short)
	}

	verbose := ae.Format(true)
	for _, want := range []string{"Error chain:", "1. several things failed", "ENOPKG", "EINVALIDNPMTOKEN"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}
