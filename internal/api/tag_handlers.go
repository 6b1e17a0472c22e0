package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/platefulapp/plateful-server/internal/domain"
	"github.com/platefulapp/plateful-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Lists the caller's tags ordered by name descending",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/tags",
		Summary:       "Create tag",
		Tags:          []string{"Tags"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Update tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTag)
}

// === DTOs ===

// TagResponse is the public representation of a tag.
type TagResponse struct {
	ID   int64  `json:"id" doc:"Tag ID"`
	Name string `json:"name" doc:"Tag name"`
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

// ListTagsInput carries the optional relation filter.
type ListTagsInput struct {
	AssignedOnly string `query:"assigned_only" doc:"When 1, only tags assigned to at least one recipe"`
}

// TagListOutput wraps a tag list for Huma.
type TagListOutput struct {
	Body []TagResponse
}

// TagOutput wraps a single tag for Huma.
type TagOutput struct {
	Body TagResponse
}

// CreateTagInput wraps the create request for Huma.
type CreateTagInput struct {
	Body struct {
		Name string `json:"name" maxLength:"255" doc:"Tag name"`
	}
}

// UpdateTagInput wraps the update request for Huma.
type UpdateTagInput struct {
	ID   int64 `path:"id" doc:"Tag ID"`
	Body struct {
		Name *string `json:"name,omitempty" maxLength:"255" doc:"New tag name"`
	}
}

// GetTagInput identifies a tag by path.
type GetTagInput struct {
	ID int64 `path:"id" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*TagListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	assignedOnly, err := parseBoolish("assigned_only", input.AssignedOnly)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}

	body := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		body = append(body, toTagResponse(tag))
	}
	return &TagListOutput{Body: body}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Create(ctx, userID, service.CreateTagRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Update(ctx, userID, input.ID, service.UpdateTagRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}
