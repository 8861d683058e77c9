package main

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitGeneral   = 1
	exitConfig    = 2
	exitFilter    = 3
	exitDBConnect = 4
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	Code    int
	Message string
	Err     error
}

func (e *exitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *exitError) Unwrap() error {
	return e.Err
}

func configError(msg string, err error) *exitError {
	return &exitError{Code: exitConfig, Message: msg, Err: err}
}

func filterError(msg string, err error) *exitError {
	return &exitError{Code: exitFilter, Message: msg, Err: err}
}

func dbConnectError(msg string, err error) *exitError {
	return &exitError{Code: exitDBConnect, Message: msg, Err: err}
}

// reportError prints err to w and returns the exit code it maps to.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return exitSuccess
	}
	_, _ = fmt.Fprintln(w, "Error:", err)
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitGeneral
}
