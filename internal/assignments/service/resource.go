package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	assignmentserrors "glowbook/internal/assignments/errors"
	"glowbook/internal/assignments/repository"
	"glowbook/internal/assignments/validator"
	"glowbook/pkg/config"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/model"
	"glowbook/pkg/sanitizer"
)

type ResourceService interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Resource, int64, error)
	Update(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error)
}

type resourceService struct {
	repo      repository.ResourceRepository
	validator *validator.AssignmentValidator
	cfg       *config.Config
}

func NewResourceService(
	repo repository.ResourceRepository,
	validator *validator.AssignmentValidator,
	cfg *config.Config,
) ResourceService {
	return &resourceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *resourceService) Create(ctx context.Context, resource *model.Resource) error {
	// New resources are bookable unless the caller says otherwise.
	resource.Active = true
	sanitizeResource(resource)

	if err := s.validator.ValidateResource(resource); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "error", err)
		return apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		s.cfg.Log.Error("Failed to create resource", "error", err)
		return apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created successfully",
		"id", resource.ID,
		"provider_id", resource.ProviderID,
		"name", resource.Name,
	)
	return nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, assignmentserrors.ErrResourceNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		if errors.Is(err, assignmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}

	return resource, nil
}

func (s *resourceService) GetByProvider(ctx context.Context, providerID string, limit int, offset int64) ([]*model.Resource, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID is required")
	}

	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProvider(ctx, providerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "provider_id", providerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindByProvider(ctx, providerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "provider_id", providerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}

func (s *resourceService) Update(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateResourceUpdate(updates); err != nil {
		s.cfg.Log.Warn("Resource update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeResourceUpdates(existing, updates)
	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, assignmentserrors.ErrResourceNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		s.cfg.Log.Error("Failed to update resource", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update resource", err)
	}

	s.cfg.Log.Info("Resource updated successfully", "id", id)
	return merged, nil
}

func (s *resourceService) mergeResourceUpdates(existing *model.Resource, updates *model.ResourceUpdate) *model.Resource {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Group != nil {
		merged.Group = updates.Group
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}
	sanitizeResource(&merged)

	return &merged
}

func sanitizeResource(resource *model.Resource) {
	resource.Name = sanitizer.NormalizeName(resource.Name)
	if resource.Group != nil {
		resource.Group.Name = sanitizer.NormalizeLabel(resource.Group.Name)
		resource.Group.Color = strings.ToLower(strings.TrimSpace(resource.Group.Color))
	}
}
