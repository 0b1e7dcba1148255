// Package main provides the CLI entry point for estatekit.
//
// estatekit fills the missing values of a listings dataset and searches
// the filled dataset by location, budget and bedroom count.
//
// Usage:
//
//	estatekit fill
//	estatekit search --city austin --max-budget 400000 --no-prompt
//
// See --help for all available options.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/estatekit/runtime/internal/errhandling"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

// exitError carries the process exit code chosen by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// withExit marks err with an explicit exit code.
func withExit(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps a command error to a process exit code: config problems
// exit 1, unreadable or malformed files exit 2, everything else exits 3.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch errhandling.GetErrorCategory(err) {
	case errhandling.CategoryConfig:
		return ExitValidationError
	case errhandling.CategoryIO, errhandling.CategoryParse:
		return ExitParseError
	default:
		return ExitRuntimeError
	}
}

// run executes the CLI with the given arguments and streams and returns
// the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		var ee *exitError
		// Commands that already reported their failure return a bare exitError.
		if !errors.As(err, &ee) || ee.err != nil {
			fmt.Fprintf(stderr, "✗ %v\n", err)
		}
	}
	return exitCode(err)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
