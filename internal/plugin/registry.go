package plugin

import (
	"io/fs"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/burrowsh/burrow/internal/observability"
)

// snapshot is one complete, immutable version of the binding map.
// Published snapshots are never mutated; a rebuild swaps in a
// replacement wholesale.
type snapshot struct {
	byBinding map[string]*Descriptor
}

// Registry owns the binding to descriptor map.
//
// Lookups are lock-free reads against the current snapshot. Rebuild
// constructs a new snapshot off to the side and publishes it with a
// single atomic swap, so concurrent readers observe either the fully
// old or fully new map, never a mix. Rebuilds themselves are
// serialized.
type Registry struct {
	paths  *Paths
	loader *Loader
	log    zerolog.Logger

	rebuildMu sync.Mutex
	snap      atomic.Pointer[snapshot]
}

// NewRegistry creates an empty registry. Call Rebuild to populate it.
func NewRegistry(paths *Paths, loader *Loader, log zerolog.Logger) *Registry {
	r := &Registry{
		paths:  paths,
		loader: loader,
		log:    log,
	}
	r.snap.Store(&snapshot{byBinding: make(map[string]*Descriptor)})
	return r
}

// Paths returns the path resolver the registry scans.
func (r *Registry) Paths() *Paths {
	return r.paths
}

// Rebuild scans every resolver directory recursively and replaces the
// published snapshot.
//
// Directories are processed in resolver order (vendor first, user
// last) and a descriptor is inserted under every one of its bindings
// with last-write-wins, so a user script deterministically overrides a
// vendor script claiming the same binding. A file that fails to load
// is logged and skipped; it never aborts the scan.
func (r *Registry) Rebuild() error {
	r.rebuildMu.Lock()
	defer r.rebuildMu.Unlock()

	dirs, err := r.paths.Dirs()
	if err != nil {
		return err
	}

	next := make(map[string]*Descriptor)
	loaded, skipped := 0, 0

	for _, dir := range dirs {
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || filepath.Ext(path) != ScriptExt {
				return nil
			}

			desc, err := r.loader.LoadFile(path, r.paths.UserDir())
			if err != nil {
				skipped++
				r.log.Warn().Err(err).Str("path", path).Msg("skipping command script")
				return nil
			}

			for _, binding := range desc.Bindings {
				if prev, ok := next[binding]; ok {
					r.log.Debug().
						Str("binding", binding).
						Str("kept", desc.Origin).
						Str("replaced", prev.Origin).
						Msg("binding conflict")
				}
				next[binding] = desc
			}
			loaded++
			return nil
		})
		if walkErr != nil {
			r.log.Warn().Err(walkErr).Str("dir", dir).Msg("scan error")
		}
	}

	r.snap.Store(&snapshot{byBinding: next})
	observability.RecordRegistryRebuild(loaded)

	r.log.Info().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Int("bindings", len(next)).
		Msg("command registry rebuilt")
	return nil
}

// Lookup returns the descriptor registered for a binding token, if
// any. It reads the current snapshot and never blocks.
func (r *Registry) Lookup(token string) (*Descriptor, bool) {
	d, ok := r.snap.Load().byBinding[token]
	return d, ok
}

// ListUnique returns each loaded descriptor exactly once, deduplicated
// by primary binding so a multi-alias script contributes a single
// entry. Ordering is unspecified; display ordering is the caller's
// concern.
func (r *Registry) ListUnique() []*Descriptor {
	snap := r.snap.Load()
	seen := make(map[string]bool, len(snap.byBinding))
	var out []*Descriptor
	for _, d := range snap.byBinding {
		if seen[d.Primary()] {
			continue
		}
		seen[d.Primary()] = true
		out = append(out, d)
	}
	return out
}

// Len returns the number of registered binding tokens.
func (r *Registry) Len() int {
	return len(r.snap.Load().byBinding)
}
