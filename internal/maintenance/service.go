package maintenance

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	SpaceID  string
	StartsAt time.Time
	EndsAt   time.Time
	Reason   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Block, error)
	GetByID(ctx context.Context, id string) (*Block, error)
	List(ctx context.Context, filter Filter) ([]*Block, int, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Block, error) {
	if req.SpaceID == "" {
		return nil, ErrSpaceRequired
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidTimeRange
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	b := &Block{
		SpaceID:  req.SpaceID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Reason:   strings.TrimSpace(req.Reason),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Block, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Block, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id string) error {
	// Check existence first
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
