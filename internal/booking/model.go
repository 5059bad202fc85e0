package booking

import (
	"net/http"
	"time"

	"github.com/makerlabhq/lab-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrSpaceNotFound    = apperror.New(http.StatusNotFound, "lab space not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")

	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "ends_at must be after starts_at")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "starts_at must be in the future")
	ErrInvalidSlotType  = apperror.New(http.StatusBadRequest, "invalid slot type")

	ErrNotEligible     = apperror.New(http.StatusUnprocessableEntity, "your plan does not include lab access")
	ErrSpaceInactive   = apperror.New(http.StatusUnprocessableEntity, "lab space is not accepting bookings")
	ErrQuotaExceeded   = apperror.New(http.StatusUnprocessableEntity, "monthly hour quota exceeded")
	ErrSlotUnavailable = apperror.New(http.StatusUnprocessableEntity, "time slot unavailable for this lab space")
	ErrTooLateToCancel = apperror.New(http.StatusUnprocessableEntity, "booking has already started and can no longer be cancelled")
	ErrOutsideWindow   = apperror.New(http.StatusUnprocessableEntity, "outside the check-in window")

	ErrInvalidTransition = apperror.New(http.StatusConflict, "booking status does not allow this action")
)

// newQuotaExceeded builds the user-facing quota message while staying
// matchable against ErrQuotaExceeded via errors.Is.
func newQuotaExceeded(remaining, requested float64) *apperror.AppError {
	return apperror.Derivef(ErrQuotaExceeded,
		"insufficient quota: remaining %gh, requested %gh", remaining, requested)
}

// Status is a booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// SlotType is informational only; it never alters duration math.
type SlotType string

const (
	SlotHourly  SlotType = "hourly"
	SlotHalfDay SlotType = "half_day"
	SlotFullDay SlotType = "full_day"
)

// Valid reports whether t is a known slot type.
func (t SlotType) Valid() bool {
	switch t {
	case SlotHourly, SlotHalfDay, SlotFullDay:
		return true
	}
	return false
}

// Booking represents a reservation of a lab space for a time range.
type Booking struct {
	ID         string
	UserID     string
	UserName   *string
	SpaceID    string
	SpaceName  string
	SpaceSlug  string
	Title      string
	Purpose    string
	SlotType   SlotType
	StartsAt   time.Time
	EndsAt     time.Time
	Status     Status
	CheckInAt  *time.Time
	CheckOutAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Range returns the booking's occupied interval.
func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartsAt, End: b.EndsAt}
}

// DurationHours is the quota cost of the booking.
func (b *Booking) DurationHours() float64 {
	return b.Range().Hours()
}

// Cancellable reports whether the booking may still be cancelled at now.
func (b *Booking) Cancellable(now time.Time) bool {
	if b.Status != StatusPending && b.Status != StatusApproved {
		return false
	}
	return b.StartsAt.After(now)
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID   string
	SpaceID  string
	Status   string
	Upcoming bool // only bookings with starts_at in the future
	Page     int
	PageSize int
}
