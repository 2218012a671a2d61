package settings

import (
	"errors"
	"fmt"
)

// Errors returned by the input-translating entry points (Apply, ApplyString).
// The mutation pipeline itself never returns errors.
var (
	// ErrNotFound indicates no setting is registered under the key.
	ErrNotFound = errors.New("setting not found")

	// ErrReadOnly indicates the setting cannot be written.
	ErrReadOnly = errors.New("setting is read-only")

	// ErrTypeMismatch indicates the supplied value cannot be stored in the setting.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ConfigError describes a build-time mismatch between the settings table and
// the code using it. It is always raised through panic: a table that trips one
// of these must never reach a device.
type ConfigError struct {
	// Op is the operation that detected the problem.
	Op string
	// Key is the setting involved, if any.
	Key string
	// Msg describes the violated invariant.
	Msg string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("settings: %s %q: %s", e.Op, e.Key, e.Msg)
	}
	return fmt.Sprintf("settings: %s: %s", e.Op, e.Msg)
}

func fail(op, key, format string, args ...any) {
	panic(&ConfigError{Op: op, Key: key, Msg: fmt.Sprintf(format, args...)})
}
