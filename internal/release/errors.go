// SPDX-License-Identifier: MPL-2.0

package release

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes surfaced to the driver. They match the codes the npm plugin has
// always reported so existing documentation and CI scripts keep working.
const (
	CodeInvalidNpmPublish Code = "EINVALIDNPMPUBLISH"
	CodeInvalidTarballDir Code = "EINVALIDTARBALLDIR"
	CodeInvalidPkgRoot    Code = "EINVALIDPKGROOT"
	CodeNoPackage         Code = "ENOPKG"
	CodeInvalidPackage    Code = "EINVALIDPKG"
	CodeNoPackageName     Code = "ENOPKGNAME"
	CodeNoNpmToken        Code = "ENONPMTOKEN"
	CodeInvalidNpmToken   Code = "EINVALIDNPMTOKEN"
)

type (
	// Code identifies a class of release error.
	Code string

	// Error is a structured, user-facing release error.
	Error struct {
		Code    Code
		Message string
		// Details is Markdown explaining the cause and the fix.
		Details string
	}

	// Errors is a list of errors returned as one value by collaborators that can
	// fail for several reasons at once. The hooks flatten it into their collection.
	Errors []error

	// AggregateError is the single failure a hook returns after collecting
	// validation, manifest and authentication errors.
	AggregateError struct {
		Errors []error
	}
)

var messages = map[Code]string{
	CodeInvalidNpmPublish: "Invalid `npmPublish` option.",
	CodeInvalidTarballDir: "Invalid `tarballDir` option.",
	CodeInvalidPkgRoot:    "Invalid `pkgRoot` option.",
	CodeNoPackage:         "Missing `package.json` file.",
	CodeInvalidPackage:    "Invalid `package.json` file.",
	CodeNoPackageName:     "Missing `name` property in `package.json`.",
	CodeNoNpmToken:        "No npm token specified.",
	CodeInvalidNpmToken:   "Invalid npm token.",
}

// NewError creates an Error with the standard message for code.
func NewError(code Code, details string) *Error {
	msg, ok := messages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Details: details}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Error joins the messages of every error in the list.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes every error in the list to errors.Is/As.
func (e Errors) Unwrap() []error {
	return e
}

// Error lists every collected error, one per line.
func (e *AggregateError) Error() string {
	var sb strings.Builder
	if len(e.Errors) == 1 {
		sb.WriteString("1 error occurred:")
	} else {
		fmt.Fprintf(&sb, "%d errors occurred:", len(e.Errors))
	}
	for _, err := range e.Errors {
		sb.WriteString("\n  * ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes every collected error to errors.Is/As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// HasCode reports whether err, or any error it wraps, is an *Error with the given code.
func HasCode(err error, code Code) bool {
	for _, re := range Flatten(err) {
		var target *Error
		if errors.As(re, &target) && target.Code == code {
			return true
		}
	}
	return false
}

// Flatten expands Errors and AggregateError values into their members.
// Any other non-nil error becomes a one-element list; nil becomes an empty one.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	var list Errors
	if errors.As(err, &list) {
		return flattenAll(list)
	}
	var agg *AggregateError
	if errors.As(err, &agg) {
		return flattenAll(agg.Errors)
	}
	return []error{err}
}

func flattenAll(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, Flatten(err)...)
	}
	return out
}
