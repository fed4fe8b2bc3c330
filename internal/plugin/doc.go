// Package plugin loads command scripts and keeps them resolvable.
//
// A command script is a single .lua file that defines describe() and
// process() (see the lua subpackage for the execution contract).
// Scripts live under the user command directory or any vendor
// directory, discovered recursively.
//
//	paths := plugin.NewPaths(cfg.ExtraDirs)
//	reg := plugin.NewRegistry(paths, plugin.NewLoader(logger), logger)
//	if err := reg.Rebuild(); err != nil { ... }
//
//	if d, ok := reg.Lookup("gh"); ok {
//	    url, err := d.Execute(ctx, "gh facebook/react")
//	    ...
//	}
//
// The registry publishes one immutable snapshot of the binding map at
// a time. Rebuild constructs a replacement off to the side and swaps
// it atomically, so lookups are lock-free and never observe a
// half-built map. The Watcher subscribes to filesystem notifications
// on every command directory and triggers a rebuild whenever a .lua
// file changes; if watching cannot be established the registry simply
// stays static.
//
// A malformed script is never fatal. It is skipped with a log line and
// its siblings load normally.
package plugin
