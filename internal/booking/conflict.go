package booking

import (
	"context"

	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
)

// ConflictChecker decides whether a proposed range collides with active
// bookings or maintenance blocks on a lab space. For the check to be
// race-free it must run against a tx-scoped Repository after LockSpace.
type ConflictChecker struct {
	bookings    Repository
	maintenance maintenance.Repository
}

func NewConflictChecker(bookings Repository, maintenance maintenance.Repository) *ConflictChecker {
	return &ConflictChecker{bookings: bookings, maintenance: maintenance}
}

// HasConflict checks the proposed range against the active booking set
// (optionally excluding one booking, for reschedules) and against all
// maintenance blocks. Blocks are hard exclusion zones.
func (c *ConflictChecker) HasConflict(ctx context.Context, spaceID string, r TimeRange, excludeBookingID string) (bool, error) {
	conflict, err := c.bookings.HasOverlap(ctx, spaceID, r.Start, r.End, excludeBookingID)
	if err != nil {
		return false, err
	}
	if conflict {
		return true, nil
	}

	return c.maintenance.HasOverlap(ctx, spaceID, r.Start, r.End)
}
