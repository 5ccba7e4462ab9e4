package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FromValidation converts a go-playground/validator error into an *Error
// with the given code. Each failed field contributes one "field: rule"
// clause to the message. Other errors are wrapped unchanged.
func FromValidation(code Code, err error, what string) *Error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(code, err, "invalid %s", what)
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fieldPath(fe.Namespace()), rule))
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("invalid %s: %s", what, strings.Join(parts, "; ")),
		Cause:   err,
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// artifactNameRegex matches the flat file names a scenario may emit.
var artifactNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateArtifactName validates an artifact file name for safety.
// It ensures the name is a simple basename without path components.
func ValidateArtifactName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "artifact name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "artifact name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "artifact name cannot contain path traversal sequences (..)")
	}
	if !artifactNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid artifact name: %q", name)
	}
	return nil
}

// runIDRegex matches canonical lowercase UUIDs.
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates a run identifier before it reaches a store.
func ValidateRunID(id string) error {
	if !runIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid run id: %q", id)
	}
	return nil
}

// ValidatePath validates a manifest-relative file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No backslashes (Windows-style paths)
//
// Parent references are allowed: manifests commonly point at shared data
// next to the scenario directory.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
