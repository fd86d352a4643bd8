// Package errors provides error wrapping utilities for context-aware error messages
// and the sentinel errors shared across packages.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is returned when a backup document carries a format
	// version this build cannot restore.
	ErrUnsupportedVersion = stderrors.New("unsupported backup version")

	// ErrPermissionDenied is returned when reminders are started without
	// notification permission.
	ErrPermissionDenied = stderrors.New("notification permission not granted")

	// ErrDevModeDisabled is returned by operations restricted to development builds.
	ErrDevModeDisabled = stderrors.New("dev mode disabled")
)

// Wrap wraps an error with additional context information.
// If err is nil, it returns nil without wrapping.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
