package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrInvalidConfigKey indicates an unrecognized config key was passed
	// to the config command.
	ErrInvalidConfigKey = errors.New("unknown config key")

	// ErrListFileEmpty indicates an update list file contained no URLs.
	ErrListFileEmpty = errors.New("list file contains no URLs")

	// ErrUpdateFailed indicates at least one URL in an update run failed.
	ErrUpdateFailed = errors.New("update completed with failures")
)
