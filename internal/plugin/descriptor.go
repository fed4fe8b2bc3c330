package plugin

import (
	"context"

	"github.com/burrowsh/burrow/internal/plugin/lua"
)

// OriginUser is the provenance tag for scripts loaded from the user
// command directory. Scripts from vendor directories carry the name of
// their immediate parent directory instead.
const OriginUser = "user"

// Descriptor is the loaded form of one command script. It is immutable
// after load: a changed file produces a whole new Descriptor on the
// next scan, never an in-place edit.
type Descriptor struct {
	// Bindings are the tokens this script answers to. Never empty,
	// always unique; the first entry is the primary binding used for
	// deduplication and display.
	Bindings []string

	// Description and Example come from the script's describe().
	Description string
	Example     string

	// Origin records where the script came from: OriginUser or a
	// vendor directory name. Display only.
	Origin string

	// Source is the raw script text. It is opaque to everything
	// outside the sandbox.
	Source string
}

// Primary returns the script's primary binding.
func (d *Descriptor) Primary() string {
	return d.Bindings[0]
}

// Execute runs the script's process function against the full input
// line. Any script failure comes back as an error the caller should
// treat as a miss.
func (d *Descriptor) Execute(ctx context.Context, fullArgs string) (string, error) {
	return lua.Process(ctx, d.Source, fullArgs)
}

// Info projects the descriptor for listing. The source text is not
// included; CommandInfo is never used for dispatch.
func (d *Descriptor) Info() CommandInfo {
	bindings := make([]string, len(d.Bindings))
	copy(bindings, d.Bindings)
	return CommandInfo{
		Bindings:    bindings,
		Description: d.Description,
		Example:     d.Example,
		Origin:      d.Origin,
	}
}

// CommandInfo is the read-only external view of a loaded command.
type CommandInfo struct {
	Bindings    []string `json:"bindings"`
	Description string   `json:"description"`
	Example     string   `json:"example"`
	Origin      string   `json:"origin"`
}
