package labspace

import (
	"context"
	"regexp"
	"strings"
)

type CreateRequest struct {
	Name               string
	Slug               string // optional; derived from Name when empty
	Type               SpaceType
	Capacity           int
	Amenities          []string
	SafetyRequirements []string
}

type UpdateRequest struct {
	Name               *string
	Type               *SpaceType
	Capacity           *int
	Amenities          []string
	SafetyRequirements []string
	IsActive           *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*LabSpace, error)
	GetByID(ctx context.Context, id string) (*LabSpace, error)
	GetBySlug(ctx context.Context, slug string) (*LabSpace, error)
	List(ctx context.Context, filter Filter) ([]*LabSpace, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*LabSpace, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*LabSpace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	if req.Capacity < 1 {
		return nil, ErrBadCapacity
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	space := &LabSpace{
		Name:               name,
		Slug:               slug,
		Type:               req.Type,
		Capacity:           req.Capacity,
		Amenities:          req.Amenities,
		SafetyRequirements: req.SafetyRequirements,
		IsActive:           true,
	}

	if err := s.repo.Create(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*LabSpace, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*LabSpace, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*LabSpace, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*LabSpace, error) {
	space, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		space.Name = name
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, ErrInvalidType
		}
		space.Type = *req.Type
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrBadCapacity
		}
		space.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		space.Amenities = req.Amenities
	}
	if req.SafetyRequirements != nil {
		space.SafetyRequirements = req.SafetyRequirements
	}
	if req.IsActive != nil {
		space.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, space); err != nil {
		return nil, err
	}
	return space, nil
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
