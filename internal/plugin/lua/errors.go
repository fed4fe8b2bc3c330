package lua

import "errors"

// Errors for script inspection and execution.
var (
	// ErrNoDescribe is returned when a script does not define a
	// describe function.
	ErrNoDescribe = errors.New("script does not define describe()")

	// ErrNoProcess is returned when a script does not define a
	// process function.
	ErrNoProcess = errors.New("script does not define process()")

	// ErrBadMetadata is returned when describe() returns something
	// other than the expected table shape.
	ErrBadMetadata = errors.New("describe() returned invalid metadata")

	// ErrNoBindings is returned when describe() yields an empty or
	// missing bindings list.
	ErrNoBindings = errors.New("describe() returned no bindings")

	// ErrDuplicateBinding is returned when describe() lists the same
	// binding twice.
	ErrDuplicateBinding = errors.New("describe() returned duplicate bindings")

	// ErrNonStringResult is returned when process() returns a value
	// that is not a string.
	ErrNonStringResult = errors.New("process() did not return a string")
)
