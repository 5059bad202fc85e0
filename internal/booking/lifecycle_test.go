package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCheckedIn},
		{StatusApproved, StatusCancelled},
		{StatusApproved, StatusNoShow},
		{StatusCheckedIn, StatusCompleted},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusCheckedIn},
		{StatusPending, StatusCompleted},
		{StatusPending, StatusNoShow},
		{StatusApproved, StatusCompleted},
		{StatusApproved, StatusRejected},
		{StatusCheckedIn, StatusCancelled},
		{StatusCheckedIn, StatusNoShow},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminals := []Status{StatusRejected, StatusCancelled, StatusCompleted, StatusNoShow}
	all := []Status{
		StatusPending, StatusApproved, StatusRejected, StatusCancelled,
		StatusCheckedIn, StatusCompleted, StatusNoShow,
	}

	for _, term := range terminals {
		assert.True(t, IsTerminal(term))
		for _, to := range all {
			assert.False(t, CanTransition(term, to), "terminal %s must not reach %s", term, to)
		}
	}

	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusApproved))
	assert.False(t, IsTerminal(StatusCheckedIn))
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(StatusPending))
	assert.True(t, IsActive(StatusApproved))
	assert.True(t, IsActive(StatusCheckedIn))
	assert.True(t, IsActive(StatusCompleted))

	assert.False(t, IsActive(StatusCancelled))
	assert.False(t, IsActive(StatusRejected))
	assert.False(t, IsActive(StatusNoShow))
}

func TestConsumesQuota(t *testing.T) {
	assert.False(t, ConsumesQuota(StatusCancelled))
	assert.False(t, ConsumesQuota(StatusRejected))

	// No-shows still burn the hours.
	assert.True(t, ConsumesQuota(StatusNoShow))
	assert.True(t, ConsumesQuota(StatusPending))
	assert.True(t, ConsumesQuota(StatusApproved))
	assert.True(t, ConsumesQuota(StatusCompleted))
}

func TestBookingTransition(t *testing.T) {
	b := &Booking{Status: StatusPending}

	assert.NoError(t, b.transition(StatusApproved))
	assert.Equal(t, StatusApproved, b.Status)

	err := b.transition(StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusApproved, b.Status, "failed transition must not mutate status")
}
