package plugin

import (
	"fmt"
	"os"
	"path/filepath"
)

// appDir is the per-application directory name used under XDG roots
// and vendor prefixes.
const appDir = "burrow"

// defaultVendorPrefixes are the read-only locations packages install
// command scripts into.
var defaultVendorPrefixes = []string{
	"/opt/homebrew/share",
	"/usr/local/share",
	"/home/linuxbrew/.linuxbrew/share",
}

// Paths resolves the ordered list of directories to scan for command
// scripts.
//
// Directories are returned in precedence order, lowest first: vendor
// directories before the user directory. Combined with the registry's
// last-write-wins insertion, a user script always overrides a vendor
// script that claims the same binding.
type Paths struct {
	userDir    string
	vendorDirs []string
}

// NewPaths builds a resolver over the default user and vendor
// locations plus any extra vendor directories from configuration.
func NewPaths(extraVendor []string) *Paths {
	vendors := make([]string, 0, len(defaultVendorPrefixes)+len(extraVendor))
	for _, prefix := range defaultVendorPrefixes {
		vendors = append(vendors, filepath.Join(prefix, appDir, "commands"))
	}
	vendors = append(vendors, extraVendor...)

	return &Paths{
		userDir:    defaultUserDir(),
		vendorDirs: vendors,
	}
}

// NewPathsAt builds a resolver over explicit directories.
func NewPathsAt(userDir string, vendorDirs []string) *Paths {
	return &Paths{userDir: userDir, vendorDirs: vendorDirs}
}

// defaultUserDir returns $XDG_DATA_HOME/burrow/commands, falling back
// to ~/.local/share/burrow/commands.
func defaultUserDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, "commands")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appDir, "commands")
}

// UserDir returns the canonical user command directory. It may not
// exist yet.
func (p *Paths) UserDir() string {
	return p.userDir
}

// IsUserDir reports whether dir is the canonical user command
// directory.
func (p *Paths) IsUserDir(dir string) bool {
	return p.userDir != "" && filepath.Clean(dir) == filepath.Clean(p.userDir)
}

// Dirs returns the existing directories to scan, vendor directories
// first and the user directory last. The user directory is created on
// demand; vendor directories that do not exist are silently skipped.
func (p *Paths) Dirs() ([]string, error) {
	var dirs []string
	for _, d := range p.vendorDirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}

	if p.userDir == "" {
		return nil, ErrNoUserDir
	}
	if err := os.MkdirAll(p.userDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUserDir, err)
	}
	dirs = append(dirs, p.userDir)

	return dirs, nil
}
