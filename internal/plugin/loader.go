package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/burrowsh/burrow/internal/plugin/lua"
)

// ScriptExt is the recognized command script extension.
const ScriptExt = ".lua"

// Loader reads a single script file and turns it into a Descriptor.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a loader that reports skipped files to log.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadFile reads and validates one script. userRoot is the canonical
// user command directory, used to derive the origin tag: a file whose
// immediate parent is userRoot gets OriginUser, anything else carries
// the parent directory's name verbatim.
//
// The returned error describes why the file was rejected; callers scan
// directories and are expected to log it and continue with siblings.
func (l *Loader) LoadFile(path, userRoot string) (*Descriptor, error) {
	if filepath.Ext(path) != ScriptExt {
		return nil, fmt.Errorf("%w: %s", ErrNotScript, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	md, err := lua.Inspect(string(source))
	if err != nil {
		return nil, err
	}

	return &Descriptor{
		Bindings:    md.Bindings,
		Description: md.Description,
		Example:     md.Example,
		Origin:      originFor(path, userRoot),
		Source:      string(source),
	}, nil
}

// originFor maps a script path to its provenance tag.
func originFor(path, userRoot string) string {
	parent := filepath.Dir(path)
	if userRoot != "" && filepath.Clean(parent) == filepath.Clean(userRoot) {
		return OriginUser
	}
	return filepath.Base(parent)
}
