package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	for _, name := range []string{"rules", "tickets", "memos", "search", "songs"} {
		require.Contains(t, env.Data.Components, name)
		assert.Equal(t, "healthy", env.Data.Components[name].Status, name)
	}
	assert.Contains(t, env.Data.Components["rules"].Message, "3 rules")
	assert.Contains(t, env.Data.Components["songs"].Message, "4 charts of 3 songs")
}

func TestHealthCheck_EmptyRulesDegraded(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, err := ts.registry.Replace(context.Background(), nil)
	require.NoError(t, err)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, "degraded", env.Data.Components["rules"].Status)
	assert.Equal(t, "healthy", env.Data.Components["search"].Status, "index follows the swap")
}

func TestHealthCheck_NoServices(t *testing.T) {
	s := &Server{}
	out, err := s.handleHealthCheck(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "degraded", out.Body.Status)
	assert.Len(t, out.Body.Components, 5)
}
