// Package errors gives floodprep failures a machine-readable code.
//
// The CLI prints [Detail] and exits 2 for [IsInvalid] errors; the HTTP
// server maps codes to status values and returns the code in the body.
// Codes fall into four groups:
//   - INVALID_*: the caller's input is wrong (manifest, scenario, grid,
//     frame, path)
//   - *NOT_FOUND: a run, artifact or file does not exist
//   - STORAGE_ERROR, TIMEOUT: a backend failed
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Construct with [New] or [Wrap] and test with [Is]:
//
//	err := errors.Wrap(errors.ErrCodeInvalidGrid, cause, "synthesize %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidGrid) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidScenario Code = "INVALID_SCENARIO"
	ErrCodeInvalidGrid     Code = "INVALID_GRID"
	ErrCodeInvalidFrame    Code = "INVALID_FRAME"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeRunNotFound      Code = "RUN_NOT_FOUND"
	ErrCodeArtifactNotFound Code = "ARTIFACT_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var (
	invalidCodes  = codeSet(ErrCodeInvalidInput, ErrCodeInvalidScenario, ErrCodeInvalidGrid, ErrCodeInvalidFrame, ErrCodeInvalidManifest, ErrCodeInvalidPath)
	notFoundCodes = codeSet(ErrCodeNotFound, ErrCodeRunNotFound, ErrCodeArtifactNotFound, ErrCodeFileNotFound)
)

func codeSet(codes ...Code) map[Code]bool {
	m := make(map[Code]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// Error carries a Code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as returns the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the outermost code in err's chain, or "" if none.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error, or err.Error().
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// Detail is UserMessage plus the cause, without the code prefix.
func Detail(err error) string {
	if e, ok := as(err); ok && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return UserMessage(err)
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
func IsInvalid(err error) bool { return invalidCodes[GetCode(err)] }

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool { return notFoundCodes[GetCode(err)] }
