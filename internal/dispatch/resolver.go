// Package dispatch turns raw typed input into a destination URL.
//
// Resolution walks a fixed pipeline: whole-input alias substitution,
// leading-token lookup against the command registry, sandboxed script
// execution on a hit, and a search-provider fallback on any miss or
// failure. Resolve never fails observably; every path ends in exactly
// one URL.
package dispatch

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/burrowsh/burrow/internal/observability"
	"github.com/burrowsh/burrow/internal/plugin"
)

// Registry is the read side of the command registry the resolver
// consumes.
type Registry interface {
	Lookup(token string) (*plugin.Descriptor, bool)
	ListUnique() []*plugin.Descriptor
}

// Event describes one completed resolution, handed to the
// notification hook for history recording.
type Event struct {
	Input string
	URL   string
	Hit   bool
	When  time.Time
}

// NotifyFunc receives an Event after each Resolve. Errors are logged
// and swallowed; the hook can never affect the returned URL.
type NotifyFunc func(Event) error

// Resolver is the public entry point for command resolution.
type Resolver struct {
	registry Registry
	aliases  map[string]string
	provider Provider
	timeout  time.Duration
	notify   NotifyFunc
	log      zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAliases sets the alias map. Keys match against the entire
// trimmed input, never a leading token.
func WithAliases(aliases map[string]string) Option {
	return func(r *Resolver) {
		r.aliases = aliases
	}
}

// WithProvider sets the fallback search provider.
func WithProvider(p Provider) Option {
	return func(r *Resolver) {
		r.provider = p
	}
}

// WithExecTimeout bounds each script execution. Zero disables the
// deadline.
func WithExecTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithNotify sets the post-resolution hook.
func WithNotify(fn NotifyFunc) Option {
	return func(r *Resolver) {
		r.notify = fn
	}
}

// WithLogger sets the resolver's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// NewResolver creates a resolver over a registry.
func NewResolver(registry Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		provider: ProviderGoogle,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps raw input to a destination URL. It always returns a
// URL: a matched script's result on success, the fallback search URL
// on a miss or any script failure.
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	input := strings.TrimSpace(raw)

	// Alias substitution applies only when the whole trimmed input is
	// an alias key; "work stuff" is never rewritten by a "work" alias.
	if target, ok := r.aliases[input]; ok {
		input = target
	}

	url, hit := r.dispatch(ctx, input)
	if hit {
		observability.RecordResolve(observability.OutcomePlugin)
	} else {
		url = r.provider.SearchURL(input)
		observability.RecordResolve(observability.OutcomeFallback)
	}

	if r.notify != nil {
		ev := Event{Input: input, URL: url, Hit: hit, When: time.Now()}
		if err := r.notify(ev); err != nil {
			r.log.Warn().Err(err).Msg("resolve notification hook failed")
		}
	}

	return url
}

// dispatch looks up the leading token and executes the matched
// script. A false return means fall back, whether the token missed or
// the script failed.
func (r *Resolver) dispatch(ctx context.Context, input string) (string, bool) {
	token := leadingToken(input)
	if token == "" {
		return "", false
	}

	desc, ok := r.registry.Lookup(token)
	if !ok {
		return "", false
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	url, err := desc.Execute(ctx, input)
	if err != nil {
		r.log.Warn().Err(err).Str("binding", token).Msg("command script failed, using fallback")
		return "", false
	}
	return url, true
}

// ListCommands projects the registry's unique descriptors for
// display. Ordering is the caller's responsibility.
func (r *Resolver) ListCommands() []plugin.CommandInfo {
	descriptors := r.registry.ListUnique()
	infos := make([]plugin.CommandInfo, 0, len(descriptors))
	for _, d := range descriptors {
		infos = append(infos, d.Info())
	}
	return infos
}

// leadingToken returns the first whitespace-delimited token of input.
func leadingToken(input string) string {
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		return input[:i]
	}
	return input
}
