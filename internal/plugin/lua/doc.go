// Package lua embeds the sandboxed interpreter that command scripts
// run in.
//
// Every invocation — whether reading a script's metadata or executing
// its process function — gets a fresh Lua state with no filesystem,
// network, process, or environment access. The only capabilities a
// script sees are a fixed set of pure string helpers (url_encode,
// get_args, split, and friends). Nothing persists between
// invocations.
//
// A command script must define two global functions:
//
//	function describe()
//	    return {
//	        bindings = {"gh", "github"},
//	        description = "Open GitHub",
//	        example = "gh facebook/react",
//	    }
//	end
//
//	function process(args)
//	    return "https://github.com/" .. url_encode_path(get_args(args, "gh"))
//	end
//
// Inspect runs a script and validates both entry points. Process runs
// a script's process function against the full input line. Both treat
// any script failure as an ordinary error for the caller to recover
// from; a broken script can never take the host down.
package lua
