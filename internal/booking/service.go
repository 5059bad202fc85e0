package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
	"github.com/makerlabhq/lab-booking-backend/internal/plan"
)

type CreateRequest struct {
	UserID   string
	SpaceID  string
	StartsAt time.Time
	EndsAt   time.Time
	Purpose  string
	Title    string
	SlotType SlotType // defaults to hourly when empty
}

type Service interface {
	// Create runs the full booking pipeline: eligibility, quota, conflict
	// check under a per-space lock, approval policy, persist. All-or-nothing.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	// GetByID returns a booking visible to the requester (owner or staff).
	GetByID(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error)

	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Cancel transitions a future pending/approved booking to cancelled.
	// The quota refund is implicit: the ledger excludes cancelled bookings.
	Cancel(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error)

	// Approve and Reject are the staff half of the manual-review flow.
	Approve(ctx context.Context, id string) (*Booking, error)
	Reject(ctx context.Context, id string) (*Booking, error)

	// CheckIn marks arrival. Owners are held to the check-in window; staff
	// manual check-in bypasses it. Repeated check-in is a no-op.
	CheckIn(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error)

	// CheckOut completes a checked-in booking.
	CheckOut(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error)

	// QuotaStatus reports the requester's current-cycle usage. Pure read.
	QuotaStatus(ctx context.Context, userID string) (*QuotaStatus, error)

	// Availability returns the merged event feed for a space and range.
	Availability(ctx context.Context, spaceSlug string, from, to time.Time) (*labspace.LabSpace, []Event, error)

	// SweepNoShows is invoked by an external scheduler, never in-request.
	SweepNoShows(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo        Repository
	maintRepo   maintenance.Repository
	spaces      labspace.Service
	plans       plan.Provider
	policy      ApprovalPolicy
	checkInLead time.Duration
	logger      zerolog.Logger

	now func() time.Time
}

func NewService(
	repo Repository,
	maintRepo maintenance.Repository,
	spaces labspace.Service,
	plans plan.Provider,
	checkInLead time.Duration,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:        repo,
		maintRepo:   maintRepo,
		spaces:      spaces,
		plans:       plans,
		checkInLead: checkInLead,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	rng, err := NewTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}
	if !req.StartsAt.After(s.now()) {
		return nil, ErrStartTimePast
	}

	slotType := req.SlotType
	if slotType == "" {
		slotType = SlotHourly
	}
	if !slotType.Valid() {
		return nil, ErrInvalidSlotType
	}

	space, err := s.spaces.GetByID(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, labspace.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	if !space.IsActive {
		return nil, ErrSpaceInactive
	}

	userPlan, err := s.plans.ForUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !userPlan.Eligible {
		return nil, ErrNotEligible
	}

	b := &Booking{
		UserID:   req.UserID,
		SpaceID:  space.ID,
		Title:    strings.TrimSpace(req.Title),
		Purpose:  strings.TrimSpace(req.Purpose),
		SlotType: slotType,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}

	hours := rng.Hours()

	// Conflict check, quota check, and insert share one transaction under
	// per-space and per-user advisory locks. Two concurrent requests for
	// overlapping ranges serialize here; the loser sees the winner's row.
	err = s.repo.InTx(ctx, func(tx Repository) error {
		if err := tx.LockSpace(ctx, space.ID); err != nil {
			return err
		}
		if err := tx.LockUser(ctx, req.UserID); err != nil {
			return err
		}

		conflict, err := NewConflictChecker(tx, s.maintRepo).HasConflict(ctx, space.ID, rng, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotUnavailable
		}

		quota, err := NewQuotaLedger(tx).Status(ctx, req.UserID, userPlan, s.now())
		if err != nil {
			return err
		}
		if !quota.Unlimited && quota.Remaining < hours {
			return newQuotaExceeded(quota.Remaining, hours)
		}

		b.Status = s.policy.Decide(userPlan)

		return tx.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", b.ID).
		Str("user_id", b.UserID).
		Str("space", space.Slug).
		Str("status", string(b.Status)).
		Float64("hours", hours).
		Msg("booking created")

	// Re-read to hydrate joined fields (owner name, space name/slug).
	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) GetByID(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(b, requesterID, isStaff) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(b, requesterID, isStaff) {
		return nil, ErrPermissionDenied
	}

	if !CanTransition(b.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}
	if !b.StartsAt.After(s.now()) {
		return nil, ErrTooLateToCancel
	}

	if err := b.transition(StatusCancelled); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", b.ID).
		Str("user_id", b.UserID).
		Msg("booking cancelled")

	return b, nil
}

func (s *service) Approve(ctx context.Context, id string) (*Booking, error) {
	return s.review(ctx, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id string) (*Booking, error) {
	return s.review(ctx, id, StatusRejected)
}

func (s *service) review(ctx context.Context, id string, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.transition(to); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", b.ID).
		Str("status", string(to)).
		Msg("booking reviewed")

	return b, nil
}

func (s *service) CheckIn(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(b, requesterID, isStaff) {
		return nil, ErrPermissionDenied
	}

	// Idempotent: a second check-in neither fails nor touches check_in_at.
	if b.Status == StatusCheckedIn {
		return b, nil
	}

	if !CanTransition(b.Status, StatusCheckedIn) {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	if !isStaff {
		window := TimeRange{Start: b.StartsAt.Add(-s.checkInLead), End: b.EndsAt}
		if !window.Contains(now) {
			return nil, ErrOutsideWindow
		}
	}

	if err := b.transition(StatusCheckedIn); err != nil {
		return nil, err
	}
	b.CheckInAt = &now

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) CheckOut(ctx context.Context, id, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAct(b, requesterID, isStaff) {
		return nil, ErrPermissionDenied
	}

	if err := b.transition(StatusCompleted); err != nil {
		return nil, err
	}
	now := s.now()
	b.CheckOutAt = &now

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) QuotaStatus(ctx context.Context, userID string) (*QuotaStatus, error) {
	userPlan, err := s.plans.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewQuotaLedger(s.repo).Status(ctx, userID, userPlan, s.now())
}

func (s *service) Availability(ctx context.Context, spaceSlug string, from, to time.Time) (*labspace.LabSpace, []Event, error) {
	rng, err := NewTimeRange(from, to)
	if err != nil {
		return nil, nil, err
	}

	space, err := s.spaces.GetBySlug(ctx, spaceSlug)
	if err != nil {
		if errors.Is(err, labspace.ErrNotFound) {
			return nil, nil, ErrSpaceNotFound
		}
		return nil, nil, err
	}

	events, err := NewCalendarBuilder(s.repo, s.maintRepo).Build(ctx, space.ID, rng)
	if err != nil {
		return nil, nil, err
	}
	return space, events, nil
}

func (s *service) SweepNoShows(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.MarkNoShows(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("no-show sweep failed: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("bookings marked no_show")
	}
	return n, nil
}

// canAct is the capability check threaded from the HTTP layer: the core only
// knows owner-or-staff, not roles.
func canAct(b *Booking, requesterID string, isStaff bool) bool {
	return isStaff || b.UserID == requesterID
}
