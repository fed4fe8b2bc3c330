package dispatch

import (
	"fmt"

	"github.com/burrowsh/burrow/internal/plugin/lua"
)

// Provider identifies a fallback search engine. The set is closed;
// anything unrecognized resolves to Google.
type Provider string

// Supported fallback providers.
const (
	ProviderGoogle     Provider = "google"
	ProviderDuckDuckGo Provider = "ddg"
	ProviderBing       Provider = "bing"
)

// NormalizeProvider maps a configured name onto the closed provider
// set.
func NormalizeProvider(name string) Provider {
	switch name {
	case "ddg", "duckduckgo":
		return ProviderDuckDuckGo
	case "bing":
		return ProviderBing
	default:
		return ProviderGoogle
	}
}

// SearchURL builds the provider's search URL for a query. The query is
// percent-encoded with the same encoder the plugin helpers use.
func (p Provider) SearchURL(query string) string {
	encoded := lua.URLEncode(query)
	switch p {
	case ProviderDuckDuckGo:
		return fmt.Sprintf("https://duckduckgo.com/?q=%s", encoded)
	case ProviderBing:
		return fmt.Sprintf("https://www.bing.com/search?q=%s", encoded)
	default:
		return fmt.Sprintf("https://www.google.com/search?q=%s", encoded)
	}
}
