package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const template = `# burrow configuration

# Default search engine used when no command matches.
# One of: google, ddg, bing
default_search = "%s"

# Aliases replace an entire input line before resolution.
# The key must match the whole typed input, not just its first word.
[aliases]
# work = "gh myorg"

[plugins]
# Additional directories scanned for command scripts.
# extra_dirs = ["/srv/shared/burrow/commands"]

# Wall-clock limit for one script execution. "0s" disables it.
exec_timeout = "%s"

[history]
enabled = %t
max_entries = %d

[server]
port = %d
address = "%s"
log_level = "%s"
# Address shown on the landing page, if different from address:port.
# display_url = "https://bunny.example.com"
`

// WriteTemplate writes a commented default config file at path,
// creating parent directories as needed. Existing files are left
// alone.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	def := Default()
	body := fmt.Sprintf(template,
		def.DefaultSearch,
		def.Plugins.ExecTimeout,
		def.History.Enabled,
		def.History.MaxEntries,
		def.Server.Port,
		def.Server.Address,
		def.Server.LogLevel,
	)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write config template: %w", err)
	}
	return nil
}
