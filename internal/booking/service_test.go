package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/makerlabhq/lab-booking-backend/internal/labspace"
	"github.com/makerlabhq/lab-booking-backend/internal/maintenance"
	"github.com/makerlabhq/lab-booking-backend/internal/plan"
)

type mockBookingRepo struct {
	mock.Mock
}

// InTx runs fn against the mock itself so tests can set expectations for the
// calls made inside the transaction.
func (m *mockBookingRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return fn(m)
}

func (m *mockBookingRepo) LockSpace(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}

func (m *mockBookingRepo) LockUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockBookingRepo) Create(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockBookingRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Booking), args.Int(1), args.Error(2)
}

func (m *mockBookingRepo) Update(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeBookingID string) (bool, error) {
	args := m.Called(ctx, spaceID, start, end, excludeBookingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) UsedHours(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockBookingRepo) ListActiveForSpace(ctx context.Context, spaceID string, from, to time.Time) ([]*Booking, error) {
	args := m.Called(ctx, spaceID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Booking), args.Error(1)
}

func (m *mockBookingRepo) MarkNoShows(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockMaintRepo struct {
	mock.Mock
}

func (m *mockMaintRepo) Create(ctx context.Context, b *maintenance.Block) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockMaintRepo) GetByID(ctx context.Context, id string) (*maintenance.Block, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maintenance.Block), args.Error(1)
}

func (m *mockMaintRepo) List(ctx context.Context, filter maintenance.Filter) ([]*maintenance.Block, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*maintenance.Block), args.Int(1), args.Error(2)
}

func (m *mockMaintRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMaintRepo) HasOverlap(ctx context.Context, spaceID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, spaceID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *mockMaintRepo) ListForSpace(ctx context.Context, spaceID string, from, to time.Time) ([]*maintenance.Block, error) {
	args := m.Called(ctx, spaceID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*maintenance.Block), args.Error(1)
}

type mockSpaceService struct {
	mock.Mock
}

func (m *mockSpaceService) Create(ctx context.Context, req labspace.CreateRequest) (*labspace.LabSpace, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*labspace.LabSpace), args.Error(1)
}

func (m *mockSpaceService) GetByID(ctx context.Context, id string) (*labspace.LabSpace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*labspace.LabSpace), args.Error(1)
}

func (m *mockSpaceService) GetBySlug(ctx context.Context, slug string) (*labspace.LabSpace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*labspace.LabSpace), args.Error(1)
}

func (m *mockSpaceService) List(ctx context.Context, filter labspace.Filter) ([]*labspace.LabSpace, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*labspace.LabSpace), args.Int(1), args.Error(2)
}

func (m *mockSpaceService) Update(ctx context.Context, id string, req labspace.UpdateRequest) (*labspace.LabSpace, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*labspace.LabSpace), args.Error(1)
}

type mockPlanProvider struct {
	mock.Mock
}

func (m *mockPlanProvider) ForUser(ctx context.Context, userID string) (plan.Descriptor, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(plan.Descriptor), args.Error(1)
}

type serviceFixture struct {
	repo      *mockBookingRepo
	maintRepo *mockMaintRepo
	spaces    *mockSpaceService
	plans     *mockPlanProvider
	svc       *service
	now       time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		repo:      new(mockBookingRepo),
		maintRepo: new(mockMaintRepo),
		spaces:    new(mockSpaceService),
		plans:     new(mockPlanProvider),
		now:       time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.repo, f.maintRepo, f.spaces, f.plans, 15*time.Minute, zerolog.Nop()).(*service)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *serviceFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.repo.AssertExpectations(t)
	f.maintRepo.AssertExpectations(t)
	f.spaces.AssertExpectations(t)
	f.plans.AssertExpectations(t)
}

func wetLabB() *labspace.LabSpace {
	return &labspace.LabSpace{
		ID:       "sp-1",
		Name:     "Wet Lab B",
		Slug:     "wet-lab-b",
		Type:     labspace.TypeWetLab,
		Capacity: 6,
		IsActive: true,
	}
}

func memberPlan(limit float64) plan.Descriptor {
	return plan.Descriptor{
		Name: "member", Eligible: true,
		MonthlyHourLimit: &limit, AutoApprove: true, CycleStartDay: 1,
	}
}

func studentPlan(limit float64) plan.Descriptor {
	return plan.Descriptor{
		Name: "student", Eligible: true,
		MonthlyHourLimit: &limit, AutoApprove: false, CycleStartDay: 1,
	}
}

func TestServiceCreate_AutoApprove(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	cycleStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
	f.plans.On("ForUser", ctx, "u-1").Return(memberPlan(10), nil)

	f.repo.On("LockSpace", ctx, "sp-1").Return(nil)
	f.repo.On("LockUser", ctx, "u-1").Return(nil)
	f.repo.On("HasOverlap", ctx, "sp-1", start, end, "").Return(false, nil)
	f.maintRepo.On("HasOverlap", ctx, "sp-1", start, end).Return(false, nil)
	f.repo.On("UsedHours", ctx, "u-1", cycleStart, cycleEnd).Return(0.0, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*Booking)
			b.ID = "bk-1"
			assert.Equal(t, StatusApproved, b.Status)
		}).Return(nil)
	f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
		ID: "bk-1", UserID: "u-1", SpaceID: "sp-1", SpaceName: "Wet Lab B",
		SpaceSlug: "wet-lab-b", StartsAt: start, EndsAt: end, Status: StatusApproved,
	}, nil)

	b, err := f.svc.Create(ctx, CreateRequest{
		UserID: "u-1", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end,
		Purpose: "PCR run",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, b.Status)
	assert.Equal(t, 3.0, b.DurationHours())
	f.assertExpectations(t)
}

func TestServiceCreate_ManualReviewStartsPending(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
	f.plans.On("ForUser", ctx, "u-2").Return(studentPlan(5), nil)

	f.repo.On("LockSpace", ctx, "sp-1").Return(nil)
	f.repo.On("LockUser", ctx, "u-2").Return(nil)
	f.repo.On("HasOverlap", ctx, "sp-1", start, end, "").Return(false, nil)
	f.maintRepo.On("HasOverlap", ctx, "sp-1", start, end).Return(false, nil)
	f.repo.On("UsedHours", ctx, "u-2", mock.Anything, mock.Anything).Return(1.0, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).
		Run(func(args mock.Arguments) {
			b := args.Get(1).(*Booking)
			b.ID = "bk-2"
			assert.Equal(t, StatusPending, b.Status)
		}).Return(nil)
	f.repo.On("GetByID", ctx, "bk-2").Return(&Booking{
		ID: "bk-2", UserID: "u-2", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end, Status: StatusPending,
	}, nil)

	b, err := f.svc.Create(ctx, CreateRequest{
		UserID: "u-2", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end,
		Purpose: "thesis experiment",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	f.assertExpectations(t)
}

func TestServiceCreate_SlotConflict(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
	f.plans.On("ForUser", ctx, "u-1").Return(memberPlan(10), nil)

	f.repo.On("LockSpace", ctx, "sp-1").Return(nil)
	f.repo.On("LockUser", ctx, "u-1").Return(nil)
	f.repo.On("HasOverlap", ctx, "sp-1", start, end, "").Return(true, nil)

	_, err := f.svc.Create(ctx, CreateRequest{
		UserID: "u-1", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end, Purpose: "x",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestServiceCreate_MaintenanceBlockConflict(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
	f.plans.On("ForUser", ctx, "u-1").Return(memberPlan(10), nil)

	f.repo.On("LockSpace", ctx, "sp-1").Return(nil)
	f.repo.On("LockUser", ctx, "u-1").Return(nil)
	f.repo.On("HasOverlap", ctx, "sp-1", start, end, "").Return(false, nil)
	f.maintRepo.On("HasOverlap", ctx, "sp-1", start, end).Return(true, nil)

	_, err := f.svc.Create(ctx, CreateRequest{
		UserID: "u-1", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end, Purpose: "x",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestServiceCreate_QuotaExceeded(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
	f.plans.On("ForUser", ctx, "u-1").Return(memberPlan(10), nil)

	f.repo.On("LockSpace", ctx, "sp-1").Return(nil)
	f.repo.On("LockUser", ctx, "u-1").Return(nil)
	f.repo.On("HasOverlap", ctx, "sp-1", start, end, "").Return(false, nil)
	f.maintRepo.On("HasOverlap", ctx, "sp-1", start, end).Return(false, nil)
	f.repo.On("UsedHours", ctx, "u-1", mock.Anything, mock.Anything).Return(8.0, nil)

	_, err := f.svc.Create(ctx, CreateRequest{
		UserID: "u-1", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end, Purpose: "x",
	})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "remaining 2h, requested 3h")
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestServiceCreate_UnlimitedPlanSkipsQuota(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Hour)

	f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
	f.plans.On("ForUser", ctx, "u-1").Return(plan.Descriptor{
		Name: "staff", Eligible: true, AutoApprove: true, CycleStartDay: 1,
	}, nil)

	f.repo.On("LockSpace", ctx, "sp-1").Return(nil)
	f.repo.On("LockUser", ctx, "u-1").Return(nil)
	f.repo.On("HasOverlap", ctx, "sp-1", start, end, "").Return(false, nil)
	f.maintRepo.On("HasOverlap", ctx, "sp-1", start, end).Return(false, nil)
	f.repo.On("UsedHours", ctx, "u-1", mock.Anything, mock.Anything).Return(200.0, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*booking.Booking")).
		Run(func(args mock.Arguments) { args.Get(1).(*Booking).ID = "bk-3" }).Return(nil)
	f.repo.On("GetByID", ctx, "bk-3").Return(&Booking{ID: "bk-3", Status: StatusApproved}, nil)

	_, err := f.svc.Create(ctx, CreateRequest{
		UserID: "u-1", SpaceID: "sp-1",
		StartsAt: start, EndsAt: end, Purpose: "equipment overhaul",
	})
	assert.NoError(t, err)
}

func TestServiceCreate_ValidationFailures(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	future := f.now.Add(24 * time.Hour)

	t.Run("inverted range", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: "u-1", SpaceID: "sp-1",
			StartsAt: future, EndsAt: future.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("start in the past", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: "u-1", SpaceID: "sp-1",
			StartsAt: f.now.Add(-time.Hour), EndsAt: f.now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrStartTimePast)
	})

	t.Run("unknown slot type", func(t *testing.T) {
		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: "u-1", SpaceID: "sp-1",
			StartsAt: future, EndsAt: future.Add(time.Hour),
			SlotType: SlotType("weekly"),
		})
		assert.ErrorIs(t, err, ErrInvalidSlotType)
	})

	t.Run("space not found", func(t *testing.T) {
		f.spaces.On("GetByID", ctx, "missing").Return(nil, labspace.ErrNotFound)
		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: "u-1", SpaceID: "missing",
			StartsAt: future, EndsAt: future.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrSpaceNotFound)
	})

	t.Run("inactive space", func(t *testing.T) {
		closed := wetLabB()
		closed.ID = "sp-closed"
		closed.IsActive = false
		f.spaces.On("GetByID", ctx, "sp-closed").Return(closed, nil)
		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: "u-1", SpaceID: "sp-closed",
			StartsAt: future, EndsAt: future.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrSpaceInactive)
	})

	t.Run("ineligible plan", func(t *testing.T) {
		f.spaces.On("GetByID", ctx, "sp-1").Return(wetLabB(), nil)
		f.plans.On("ForUser", ctx, "u-free").Return(plan.Descriptor{Name: "none"}, nil)
		_, err := f.svc.Create(ctx, CreateRequest{
			UserID: "u-free", SpaceID: "sp-1",
			StartsAt: future, EndsAt: future.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrNotEligible)
	})
}

func TestServiceCancel(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)

	t.Run("owner cancels future approved booking", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusApproved,
			StartsAt: start, EndsAt: start.Add(2 * time.Hour),
		}, nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.Cancel(ctx, "bk-1", "u-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusApproved,
			StartsAt: start, EndsAt: start.Add(2 * time.Hour),
		}, nil)

		_, err := f.svc.Cancel(ctx, "bk-1", "u-other", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("staff may cancel any booking", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusPending,
			StartsAt: start, EndsAt: start.Add(2 * time.Hour),
		}, nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.Cancel(ctx, "bk-1", "staff-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("started booking is too late to cancel", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusApproved,
			StartsAt: f.now.Add(-time.Minute), EndsAt: f.now.Add(time.Hour),
		}, nil)

		_, err := f.svc.Cancel(ctx, "bk-1", "u-1", false)
		assert.ErrorIs(t, err, ErrTooLateToCancel)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusCompleted,
			StartsAt: start, EndsAt: start.Add(2 * time.Hour),
		}, nil)

		_, err := f.svc.Cancel(ctx, "bk-1", "u-1", false)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestServiceReview(t *testing.T) {
	ctx := context.Background()

	t.Run("approve pending", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{ID: "bk-1", Status: StatusPending}, nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.Approve(ctx, "bk-1")
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
	})

	t.Run("reject pending", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{ID: "bk-1", Status: StatusPending}, nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.Reject(ctx, "bk-1")
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, b.Status)
	})

	t.Run("approve already approved fails", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{ID: "bk-1", Status: StatusApproved}, nil)

		_, err := f.svc.Approve(ctx, "bk-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("reject cancelled fails", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{ID: "bk-1", Status: StatusCancelled}, nil)

		_, err := f.svc.Reject(ctx, "bk-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestServiceCheckIn(t *testing.T) {
	ctx := context.Background()

	approvedAt := func(f *serviceFixture, start time.Time) *Booking {
		return &Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusApproved,
			StartsAt: start, EndsAt: start.Add(2 * time.Hour),
		}
	}

	t.Run("inside the window", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(approvedAt(f, f.now.Add(10*time.Minute)), nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.CheckIn(ctx, "bk-1", "u-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedIn, b.Status)
		require.NotNil(t, b.CheckInAt)
		assert.Equal(t, f.now, *b.CheckInAt)
	})

	t.Run("too early", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(approvedAt(f, f.now.Add(time.Hour)), nil)

		_, err := f.svc.CheckIn(ctx, "bk-1", "u-1", false)
		assert.ErrorIs(t, err, ErrOutsideWindow)
	})

	t.Run("after the slot ended", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(approvedAt(f, f.now.Add(-3*time.Hour)), nil)

		_, err := f.svc.CheckIn(ctx, "bk-1", "u-1", false)
		assert.ErrorIs(t, err, ErrOutsideWindow)
	})

	t.Run("staff bypasses the window", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(approvedAt(f, f.now.Add(time.Hour)), nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.CheckIn(ctx, "bk-1", "staff-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedIn, b.Status)
	})

	t.Run("second check-in is a no-op", func(t *testing.T) {
		f := newServiceFixture(t)
		first := f.now.Add(-5 * time.Minute)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusCheckedIn,
			StartsAt: f.now.Add(-10 * time.Minute), EndsAt: f.now.Add(time.Hour),
			CheckInAt: &first,
		}, nil)

		b, err := f.svc.CheckIn(ctx, "bk-1", "u-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedIn, b.Status)
		assert.Equal(t, first, *b.CheckInAt, "original check-in time must survive")
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("pending booking cannot check in", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusPending,
			StartsAt: f.now.Add(10 * time.Minute), EndsAt: f.now.Add(2 * time.Hour),
		}, nil)

		_, err := f.svc.CheckIn(ctx, "bk-1", "u-1", false)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestServiceCheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("completes a checked-in booking", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusCheckedIn,
			StartsAt: f.now.Add(-time.Hour), EndsAt: f.now.Add(time.Hour),
		}, nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*booking.Booking")).Return(nil)

		b, err := f.svc.CheckOut(ctx, "bk-1", "u-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, b.Status)
		require.NotNil(t, b.CheckOutAt)
		assert.Equal(t, f.now, *b.CheckOutAt)
	})

	t.Run("cannot check out without checking in", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{
			ID: "bk-1", UserID: "u-1", Status: StatusApproved,
			StartsAt: f.now.Add(-time.Hour), EndsAt: f.now.Add(time.Hour),
		}, nil)

		_, err := f.svc.CheckOut(ctx, "bk-1", "u-1", false)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestServiceGetByID_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.repo.On("GetByID", ctx, "bk-1").Return(&Booking{ID: "bk-1", UserID: "u-1"}, nil)

	_, err := f.svc.GetByID(ctx, "bk-1", "u-1", false)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, "bk-1", "u-2", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.svc.GetByID(ctx, "bk-1", "u-2", true)
	assert.NoError(t, err)
}

func TestServiceQuotaStatus(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	f.plans.On("ForUser", ctx, "u-1").Return(memberPlan(10), nil)
	f.repo.On("UsedHours", ctx, "u-1", mock.Anything, mock.Anything).Return(3.0, nil)

	status, err := f.svc.QuotaStatus(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, status.HasAccess)
	assert.Equal(t, 7.0, status.Remaining)
}

func TestServiceAvailability_UnknownSpace(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	f.spaces.On("GetBySlug", ctx, "nope").Return(nil, labspace.ErrNotFound)

	_, _, err := f.svc.Availability(ctx, "nope",
		f.now, f.now.Add(24*time.Hour))
	assert.ErrorIs(t, err, ErrSpaceNotFound)
}

func TestServiceSweepNoShows(t *testing.T) {
	ctx := context.Background()

	t.Run("reports swept count", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("MarkNoShows", ctx, f.now).Return(int64(2), nil)

		n, err := f.svc.SweepNoShows(ctx, f.now)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("wraps repository failure", func(t *testing.T) {
		f := newServiceFixture(t)
		f.repo.On("MarkNoShows", ctx, f.now).Return(int64(0), errors.New("db down"))

		_, err := f.svc.SweepNoShows(ctx, f.now)
		assert.ErrorContains(t, err, "no-show sweep failed")
	})
}
