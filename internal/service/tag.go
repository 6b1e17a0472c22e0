package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/platefulapp/plateful-server/internal/domain"
	domainerrors "github.com/platefulapp/plateful-server/internal/errors"
	"github.com/platefulapp/plateful-server/internal/store"
)

// TagService manages a user's private tag vocabulary.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// CreateTagRequest contains data for a new tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateTagRequest contains partial tag updates.
type UpdateTagRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
}

// List returns the user's tags, newest name first. With assignedOnly, only
// tags attached to at least one recipe are returned.
func (s *TagService) List(ctx context.Context, userID int64, assignedOnly bool) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create adds a tag to the user's vocabulary.
func (s *TagService) Create(ctx context.Context, userID int64, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	tag := &domain.Tag{
		UserID:    userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	return tag, nil
}

// Get retrieves one of the user's tags.
func (s *TagService) Get(ctx context.Context, userID, tagID int64) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// Update applies partial updates to one of the user's tags.
func (s *TagService) Update(ctx context.Context, userID, tagID int64, req UpdateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tag, err := s.Get(ctx, userID, tagID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tag.Name = *req.Name
	}
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}
