package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/platefulapp/plateful-server/internal/auth"
	"github.com/platefulapp/plateful-server/internal/config"
	"github.com/platefulapp/plateful-server/internal/media/images"
	"github.com/platefulapp/plateful-server/internal/service"
	"github.com/platefulapp/plateful-server/internal/store/sqlite"
)

// testEnvelope mirrors the wire envelope with a typed data field.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Environment: "development"},
		Logger: config.LoggerConfig{Level: "error"},
		Data:   config.DataConfig{BasePath: t.TempDir()},
		Server: config.ServerConfig{Name: "Plateful Test", Port: "8080"},
		Auth: config.AuthConfig{
			AccessTokenDuration: 15 * time.Minute,
			// Generous limits so ordinary tests never trip the throttle.
			LoginRatePerMinute: 600,
			LoginBurst:         100,
		},
	}
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithConfig(t, newTestConfig(t))
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(cfg.Data.BasePath, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	require.NoError(t, err)
	cfg.Auth.AccessTokenKey = authKey

	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), cfg.Auth.AccessTokenDuration)
	require.NoError(t, err)

	storage, err := images.NewStorage(cfg.Data.BasePath)
	require.NoError(t, err)

	services := &Services{
		Auth:         service.NewAuthService(st, tokenService, logger),
		User:         service.NewUserService(st, logger),
		Tag:          service.NewTagService(st, logger),
		Ingredient:   service.NewIngredientService(st, logger),
		Recipe:       service.NewRecipeService(st, storage, logger),
		RecipeImages: storage,
	}

	s := NewServer(cfg, st, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// createTestUser registers an account and returns a bearer token for it.
func (ts *testServer) createTestUser(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "registration failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/tokens", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "token request failed: %s", resp.Body.String())

	var envelope testEnvelope[service.TokenResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

// createTestTag creates a tag through the API and returns its ID.
func (ts *testServer) createTestTag(t *testing.T, token, name string) int64 {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags",
		"Authorization: Bearer "+token,
		map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, "create tag failed: %s", resp.Body.String())

	var envelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.ID
}

// createTestIngredient creates an ingredient through the API and returns its ID.
func (ts *testServer) createTestIngredient(t *testing.T, token, name string) int64 {
	t.Helper()

	resp := ts.api.Post("/api/v1/ingredients",
		"Authorization: Bearer "+token,
		map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, "create ingredient failed: %s", resp.Body.String())

	var envelope testEnvelope[IngredientResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.ID
}

// createTestRecipe creates a recipe through the API and returns its detail view.
func (ts *testServer) createTestRecipe(t *testing.T, token string, body map[string]any) RecipeDetail {
	t.Helper()

	if _, ok := body["title"]; !ok {
		body["title"] = "Test recipe"
	}
	if _, ok := body["time_minutes"]; !ok {
		body["time_minutes"] = 30
	}
	if _, ok := body["price"]; !ok {
		body["price"] = "5.25"
	}

	resp := ts.api.Post("/api/v1/recipes",
		"Authorization: Bearer "+token,
		body)
	require.Equal(t, http.StatusCreated, resp.Code, "create recipe failed: %s", resp.Body.String())

	var envelope testEnvelope[RecipeDetail]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

// pngBytes returns a small valid PNG payload.
func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartImage builds a multipart body with the given payload under the
// "image" field and returns the body plus its content type.
func multipartImage(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}
