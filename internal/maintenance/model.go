package maintenance

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("maintenance block not found")
	ErrReasonRequired   = errors.New("reason is required")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrSpaceRequired    = errors.New("lab_space_id is required")
)

// Block represents a staff-defined exclusion window on a lab space.
// The booking engine treats blocks as read-only hard exclusion zones.
type Block struct {
	ID        string
	SpaceID   string
	SpaceName string
	StartsAt  time.Time
	EndsAt    time.Time
	Reason    string
	CreatedAt time.Time
}

// Filter defines parameters for listing maintenance blocks.
type Filter struct {
	SpaceID  string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
