package main

import (
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // at least one case failed
	ExitCommandError = 2 // the run could not start: flags, config or suite files
)

// ExitError attaches a process exit status to a command error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// exitf formats an error like fmt.Errorf, %w included, and tags it with code.
func exitf(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// exitCode maps err to the status main exits with. Untagged errors come from
// cobra's flag and argument parsing.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitCommandError
}
