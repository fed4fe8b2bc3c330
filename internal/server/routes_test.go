package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowsh/burrow/internal/config"
	"github.com/burrowsh/burrow/internal/dispatch"
	"github.com/burrowsh/burrow/internal/plugin"
)

type staticRegistry struct {
	descriptors []*plugin.Descriptor
}

func (s *staticRegistry) Lookup(token string) (*plugin.Descriptor, bool) {
	for _, d := range s.descriptors {
		for _, b := range d.Bindings {
			if b == token {
				return d, true
			}
		}
	}
	return nil, false
}

func (s *staticRegistry) ListUnique() []*plugin.Descriptor {
	return s.descriptors
}

const ghSource = `
function describe()
    return {bindings = {"gh", "github"}, description = "GitHub", example = "gh rust-lang/rust"}
end
function process(args)
    return "https://github.com"
end
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := &staticRegistry{descriptors: []*plugin.Descriptor{
		{
			Bindings:    []string{"gh", "github"},
			Description: "GitHub",
			Example:     "gh rust-lang/rust",
			Origin:      plugin.OriginUser,
			Source:      ghSource,
		},
	}}
	resolver := dispatch.NewResolver(reg)
	cfg := config.ServerConfig{Port: 8000, Address: "127.0.0.1"}
	return New(cfg, resolver, zerolog.Nop())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsOnQuery(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/?q=gh")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://github.com", rec.Header().Get("Location"))
}

func TestRootFallsBackOnUnknownCommand(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/?q=weather+tomorrow")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://www.google.com/search?q=weather%20tomorrow", rec.Header().Get("Location"))
}

func TestRootRendersLandingWithoutQuery(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "gh")
	assert.Contains(t, rec.Body.String(), "GitHub")
}

func TestQueryRoute(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/q?q=gh")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://github.com", rec.Header().Get("Location"))
}

func TestQueryRouteWithoutQueryRedirectsHome(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/q")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCommandsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/commands")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Commands []plugin.CommandInfo `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Commands, 1)
	assert.Equal(t, []string{"gh", "github"}, body.Commands[0].Bindings)
	assert.Equal(t, "GitHub", body.Commands[0].Description)
	assert.Equal(t, plugin.OriginUser, body.Commands[0].Origin)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["uptime"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Generate one resolution so dispatch counters exist.
	get(t, s, "/?q=gh")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "burrow_http_requests_total")
}
