package api

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/platefulapp/plateful-server/internal/http/response"
)

// maxImageUploadBytes caps recipe photo uploads at 10 MiB.
const maxImageUploadBytes = 10 << 20

// registerImageRoutes mounts the image endpoints directly on the router.
// Multipart uploads and raw blob serving don't fit the JSON operation model,
// so these bypass the OpenAPI layer and use the response package directly.
func (s *Server) registerImageRoutes() {
	s.router.Post("/api/v1/recipes/{id}/upload-image", s.handleUploadRecipeImage)
	s.router.Get("/api/v1/recipes/images/{name}", s.handleGetRecipeImage)
}

func (s *Server) handleUploadRecipeImage(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	recipeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "id must be an integer", s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		response.BadRequest(w, "request must be multipart/form-data with an image field", s.logger)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "missing image field", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "failed to read uploaded file", s.logger)
		return
	}

	recipe, err := s.services.Recipe.UploadImage(r.Context(), userID, recipeID, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, toRecipeDetail(recipe), s.logger)
}

func (s *Server) handleGetRecipeImage(w http.ResponseWriter, r *http.Request) {
	if _, err := GetUserID(r.Context()); err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	name := chi.URLParam(r, "name")
	if !s.services.RecipeImages.Exists(name) {
		response.NotFound(w, "image not found", s.logger)
		return
	}

	// Blob names embed a UUID so the content behind a name never changes.
	// The hash still serves as a validator for conditional requests.
	hash, err := s.services.RecipeImages.Hash(name)
	if err == nil {
		etag := `"` + hash + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	data, err := s.services.RecipeImages.Get(name)
	if err != nil {
		response.NotFound(w, "image not found", s.logger)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write image response", "name", name, "error", err)
	}
}
