package http

import (
	"time"

	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
)

type CreateBody struct {
	Name               string   `json:"name" binding:"required"`
	Slug               string   `json:"slug"`
	Type               string   `json:"type" binding:"required,oneof=wet_lab dry_lab greenhouse mobile_lab"`
	Capacity           int      `json:"capacity" binding:"required,min=1"`
	Amenities          []string `json:"amenities"`
	SafetyRequirements []string `json:"safety_requirements"`
}

type UpdateBody struct {
	Name               *string  `json:"name"`
	Type               *string  `json:"type" binding:"omitempty,oneof=wet_lab dry_lab greenhouse mobile_lab"`
	Capacity           *int     `json:"capacity" binding:"omitempty,min=1"`
	Amenities          []string `json:"amenities"`
	SafetyRequirements []string `json:"safety_requirements"`
	IsActive           *bool    `json:"is_active"`
}

type Response struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Type               string    `json:"type"`
	Capacity           int       `json:"capacity"`
	Amenities          []string  `json:"amenities"`
	SafetyRequirements []string  `json:"safety_requirements"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewResponse(s *labspace.LabSpace) Response {
	amenities := s.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	safety := s.SafetyRequirements
	if safety == nil {
		safety = []string{}
	}
	return Response{
		ID:                 s.ID,
		Name:               s.Name,
		Slug:               s.Slug,
		Type:               string(s.Type),
		Capacity:           s.Capacity,
		Amenities:          amenities,
		SafetyRequirements: safety,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt,
	}
}

// SpaceTag holds minimal lab space info embedded in other responses.
type SpaceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
