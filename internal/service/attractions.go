package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/target/attractions-admin/internal/domain/model"
	apperrors "github.com/target/attractions-admin/internal/errors"
	"github.com/target/attractions-admin/internal/ports"
)

// AttractionServiceOptions groups dependencies for AttractionService.
type AttractionServiceOptions struct {
	Backend ports.AttractionBackend // Required
}

// AttractionService validates attraction edits before forwarding them to the backend.
type AttractionService struct {
	backend ports.AttractionBackend
}

// NewAttractionService constructs an AttractionService.
func NewAttractionService(opts AttractionServiceOptions) *AttractionService {
	if opts.Backend == nil {
		panic("AttractionService requires a backend")
	}
	return &AttractionService{backend: opts.Backend}
}

// Get fetches one attraction.
func (s *AttractionService) Get(ctx context.Context, id string) (model.Attraction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Attraction{}, apperrors.ValidationField("id", "attraction id is required")
	}
	a, err := s.backend.GetAttraction(ctx, id)
	if err != nil {
		return model.Attraction{}, fmt.Errorf("get attraction: %w", err)
	}
	return a, nil
}

// Create validates req and stores a new attraction.
func (s *AttractionService) Create(ctx context.Context, req model.AttractionRequest) (model.Attraction, error) {
	if err := req.Validate(); err != nil {
		return model.Attraction{}, err
	}
	a, err := s.backend.CreateAttraction(ctx, req.ToAttraction(""))
	if err != nil {
		return model.Attraction{}, fmt.Errorf("create attraction: %w", err)
	}
	return a, nil
}

// Update validates req against the stored attraction and replaces it.
func (s *AttractionService) Update(ctx context.Context, id string, req model.AttractionRequest) (model.Attraction, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Attraction{}, err
	}
	if validateErr := req.ValidateAgainst(current); validateErr != nil {
		return model.Attraction{}, validateErr
	}
	a, err := s.backend.UpdateAttraction(ctx, req.ToAttraction(strings.TrimSpace(id)))
	if err != nil {
		return model.Attraction{}, fmt.Errorf("update attraction: %w", err)
	}
	return a, nil
}
