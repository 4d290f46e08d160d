package session

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageValidate  Stage = "validate"
	StageIdentity  Stage = "identity"
	StageHandshake Stage = "handshake"
	StageClose     Stage = "close"
)

type Code string

const (
	CodeMissingConn     Code = "missing_conn"
	CodeRandomFailed    Code = "random_failed"
	CodeHandshakeFailed Code = "handshake_failed"
	CodeCloseFailed     Code = "close_failed"
)

var ErrMissingConn = errors.New("missing conn")

// Error is a structured, programmatically identifiable error for high-level
// session operations.
type Error struct {
	Stage Stage
	Code  Code
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Stage, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Stage, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(stage Stage, code Code, err error) error {
	return &Error{Stage: stage, Code: code, Err: err}
}
