package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests pin the wire envelope so clients can rely on its shape.

func TestEnvelope_SuccessShape(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t, "shape@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))

	assert.Equal(t, float64(1), raw["v"])
	assert.Equal(t, true, raw["success"])
	assert.Contains(t, raw, "data")
	assert.NotContains(t, raw, "error")
	assert.NotContains(t, raw, "code")
}

func TestEnvelope_ErrorShape(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))

	assert.Equal(t, float64(1), raw["v"])
	assert.Equal(t, false, raw["success"])
	assert.NotContains(t, raw, "data")
	assert.NotEmpty(t, raw["error"])
	assert.Equal(t, "UNAUTHORIZED", raw["code"])
	assert.NotEmpty(t, raw["message"])
}

func TestEnvelope_ValidationErrorCode(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    "not-an-email",
		"password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
	assert.Equal(t, "VALIDATION", raw["code"])
}

func TestEnvelope_UnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/definitely-not-a-route")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
	assert.Equal(t, false, raw["success"])
	assert.NotEmpty(t, raw["error"])
}
