package plugin

import "errors"

// Plugin system errors.
var (
	// ErrNotScript is returned when a path does not have the
	// recognized script extension.
	ErrNotScript = errors.New("not a command script")

	// ErrNoUserDir is returned when the user command directory cannot
	// be determined or created.
	ErrNoUserDir = errors.New("user command directory unavailable")
)
