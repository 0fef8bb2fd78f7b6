package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/observability"
	"github.com/gongahkia/lexcore/internal/registry"
	"github.com/gongahkia/lexcore/internal/shell"
	"github.com/gongahkia/lexcore/pkg/models"
)

// testMetrics is shared by every test server: NewMetrics registers its
// collectors on the default Prometheus registry, which accepts each only once.
var testMetrics = observability.NewMetrics()

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	sh := shell.New(registry.New())
	log := observability.NewLogger("error", "json")
	metrics := testMetrics
	return NewServer(sh, log, metrics, cfg)
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHealthzReturnsOK(t *testing.T) {
	s := newTestServer(t, Config{})
	resp := doRequest(t, s, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestToolCallDispatchesListCountries(t *testing.T) {
	s := newTestServer(t, Config{})
	resp := doRequest(t, s, http.MethodPost, "/v1/tools/call", toolCallRequest{Name: "list_countries"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.ToolResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.OK)
	assert.Equal(t, "list_countries", result.Tool)
}

func TestToolCallMissingNameIsBadRequest(t *testing.T) {
	s := newTestServer(t, Config{})
	resp := doRequest(t, s, http.MethodPost, "/v1/tools/call", toolCallRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToolCallMalformedBodyIsBadRequest(t *testing.T) {
	s := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/call", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRouteReturns404(t *testing.T) {
	s := newTestServer(t, Config{})
	resp := doRequest(t, s, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJWTAuthRejectsMissingBearerToken(t *testing.T) {
	s := newTestServer(t, Config{Auth: AuthConfig{Enabled: true, JWTSecret: "secret"}})
	resp := doRequest(t, s, http.MethodPost, "/v1/tools/call", toolCallRequest{Name: "list_countries"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	s := newTestServer(t, Config{Auth: AuthConfig{Enabled: true, JWTSecret: "secret"}})

	token, err := GenerateToken("client-1", "secret", time.Hour)
	require.NoError(t, err)

	resp := doRequest(t, s, http.MethodPost, "/v1/tools/call", toolCallRequest{Name: "list_countries"}, map[string]string{
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimitReturns429WhenExhausted(t *testing.T) {
	s := newTestServer(t, Config{RateLimitPerMin: 1})

	first := doRequest(t, s, http.MethodPost, "/v1/tools/call", toolCallRequest{Name: "list_countries"}, nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := doRequest(t, s, http.MethodPost, "/v1/tools/call", toolCallRequest{Name: "list_countries"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
