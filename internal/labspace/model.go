package labspace

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("lab space not found")
	ErrSlugTaken   = errors.New("slug already in use")
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrInvalidType = errors.New("invalid lab space type")
	ErrBadCapacity = errors.New("capacity must be positive")
)

// SpaceType classifies a lab space.
type SpaceType string

const (
	TypeWetLab     SpaceType = "wet_lab"
	TypeDryLab     SpaceType = "dry_lab"
	TypeGreenhouse SpaceType = "greenhouse"
	TypeMobileLab  SpaceType = "mobile_lab"
)

// Valid reports whether t is a known space type.
func (t SpaceType) Valid() bool {
	switch t {
	case TypeWetLab, TypeDryLab, TypeGreenhouse, TypeMobileLab:
		return true
	}
	return false
}

// LabSpace represents a bookable physical space (e.g., Wet Lab B, Greenhouse 2).
// Immutable during booking operations except for the active flag.
type LabSpace struct {
	ID                 string
	Name               string
	Slug               string
	Type               SpaceType
	Capacity           int
	Amenities          []string
	SafetyRequirements []string
	IsActive           bool
	CreatedAt          time.Time
}

// Filter defines parameters for listing lab spaces.
type Filter struct {
	Type       string
	ActiveOnly bool
	Page       int
	PageSize   int
}
